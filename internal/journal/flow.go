package journal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/foodjournal/internal/entities"
)

// DeletePrompt is the question asked before an entry is deleted.
const DeletePrompt = "Are you sure you want to delete this entry?"

// Store is the entry persistence the flow needs.
type Store interface {
	Insert(ctx context.Context, entry *entities.JournalEntry) error
	Update(ctx context.Context, entry *entities.JournalEntry) error
	Delete(ctx context.Context, userID, id uint) error
	ListForUser(ctx context.Context, userID uint) ([]entities.JournalEntry, error)
}

// Form is the in-progress create/edit form. EditingID is 0 when creating.
type Form struct {
	ImageURI    string            `json:"image_uri"`
	Description string            `json:"description"`
	Category    entities.Category `json:"category"`
	EditingID   uint              `json:"editing_id,omitempty"`
}

// Option configures a Flow.
type Option func(*Flow)

// WithDefaultCategory sets the category a fresh form starts with.
// Invalid categories are ignored.
func WithDefaultCategory(c entities.Category) Option {
	return func(f *Flow) {
		if c.Valid() {
			f.defaultCategory = c
		}
	}
}

// WithClock overrides the source of entry dates.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		f.now = now
	}
}

// Flow holds the journal screen state for one user.
type Flow struct {
	store           Store
	userID          uint
	defaultCategory entities.Category
	now             func() time.Time

	mu      sync.Mutex
	entries []entities.JournalEntry
	filter  entities.Category
	form    Form
}

// NewFlow creates the journal flow for userID.
func NewFlow(store Store, userID uint, opts ...Option) (*Flow, error) {
	if userID == 0 {
		return nil, ErrNoUser
	}

	f := &Flow{
		store:           store,
		userID:          userID,
		defaultCategory: entities.CategoryBreakfast,
		now:             time.Now,
		filter:          entities.CategoryAll,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.form = f.emptyForm()
	return f, nil
}

// UserID returns the user the flow was created for.
func (f *Flow) UserID() uint {
	return f.userID
}

func (f *Flow) emptyForm() Form {
	return Form{Category: f.defaultCategory}
}

// Refresh re-fetches all of the user's entries.
func (f *Flow) Refresh(ctx context.Context) error {
	list, err := f.store.ListForUser(ctx, f.userID)
	if err != nil {
		log.Printf("ERROR: failed to load entries for user %d: %v", f.userID, err)
		return fmt.Errorf("load entries: %w", err)
	}

	f.mu.Lock()
	f.entries = list
	f.mu.Unlock()
	return nil
}

// SetFilter selects which category Entries shows. CategoryAll shows everything.
func (f *Flow) SetFilter(c entities.Category) error {
	if c != entities.CategoryAll && !c.Valid() {
		return &ValidationError{Field: "filter", Message: fmt.Sprintf("Unknown category %q", c)}
	}
	f.mu.Lock()
	f.filter = c
	f.mu.Unlock()
	return nil
}

// Filter returns the active category filter.
func (f *Flow) Filter() entities.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// Entries returns the last fetched entries, most recent first, narrowed to
// the active filter.
func (f *Flow) Entries() []entities.JournalEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FilterByCategory(f.entries, f.filter)
}

// EntriesIn returns the last fetched entries in category c. The active
// filter is left as it is.
func (f *Flow) EntriesIn(c entities.Category) ([]entities.JournalEntry, error) {
	if c != entities.CategoryAll && !c.Valid() {
		return nil, &ValidationError{Field: "filter", Message: fmt.Sprintf("Unknown category %q", c)}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return FilterByCategory(f.entries, c), nil
}

// FilterByCategory returns the entries whose category is c, keeping order.
// CategoryAll returns a copy of all entries.
func FilterByCategory(list []entities.JournalEntry, c entities.Category) []entities.JournalEntry {
	result := make([]entities.JournalEntry, 0, len(list))
	for _, entry := range list {
		if c == entities.CategoryAll || entry.Category == c {
			result = append(result, entry)
		}
	}
	return result
}

// Form returns a copy of the in-progress form.
func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// SetDescription updates the form description.
func (f *Flow) SetDescription(desc string) {
	f.mu.Lock()
	f.form.Description = desc
	f.mu.Unlock()
}

// SetCategory updates the form category. An empty category selects the default.
func (f *Flow) SetCategory(c entities.Category) error {
	if c == "" {
		c = f.defaultCategory
	}
	if !c.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("Unknown category %q", c)}
	}
	f.mu.Lock()
	f.form.Category = c
	f.mu.Unlock()
	return nil
}

// SetImage puts an already obtained image reference on the form.
func (f *Flow) SetImage(uri string) {
	f.mu.Lock()
	f.form.ImageURI = uri
	f.mu.Unlock()
}

// PickImage asks source for an image and puts it on the form. A cancelled
// pick or a failure leaves the form untouched.
func (f *Flow) PickImage(ctx context.Context, source ImageSource, req ImageRequest) error {
	img, err := source.Acquire(ctx, req)
	if err != nil {
		log.Printf("ERROR: failed to acquire image from %s: %v", req.Origin, err)
		var permErr *PermissionError
		if errors.As(err, &permErr) {
			return err
		}
		return &PermissionError{Origin: req.Origin, Err: err}
	}
	if img.Canceled || img.URI == "" {
		return nil
	}

	f.SetImage(img.URI)
	return nil
}

// Edit pre-fills the form from a listed entry and targets it for update.
func (f *Flow) Edit(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, entry := range f.entries {
		if entry.ID == id {
			f.form = Form{
				ImageURI:    entry.ImageURI,
				Description: entry.Description,
				Category:    entry.Category,
				EditingID:   entry.ID,
			}
			return nil
		}
	}
	return ErrEntryNotListed
}

// ResetForm clears image, description and edit target and restores the
// default category.
func (f *Flow) ResetForm() {
	f.mu.Lock()
	f.form = f.emptyForm()
	f.mu.Unlock()
}

// Save validates the form and inserts a new entry, or updates the entry
// being edited. On success the list is re-fetched and the form cleared.
// On failure the form is kept as it was.
func (f *Flow) Save(ctx context.Context) error {
	form := f.Form()
	if err := validateForm(form); err != nil {
		return err
	}

	category := form.Category
	if category == "" {
		category = f.defaultCategory
	}
	entry := &entities.JournalEntry{
		ID:          form.EditingID,
		UserID:      f.userID,
		ImageURI:    form.ImageURI,
		Description: strings.TrimSpace(form.Description),
		Category:    category,
	}

	if form.EditingID == 0 {
		entry.Date = f.now()
		if err := f.store.Insert(ctx, entry); err != nil {
			log.Printf("ERROR: failed to save entry for user %d: %v", f.userID, err)
			return fmt.Errorf("save entry: %w", err)
		}
		log.Printf("Created entry %d for user %d", entry.ID, f.userID)
	} else {
		if err := f.store.Update(ctx, entry); err != nil {
			log.Printf("ERROR: failed to update entry %d for user %d: %v", entry.ID, f.userID, err)
			return fmt.Errorf("update entry: %w", err)
		}
		log.Printf("Updated entry %d for user %d", entry.ID, f.userID)
	}

	// The write succeeded, so the form is done with even if the re-fetch fails.
	err := f.Refresh(ctx)
	f.ResetForm()
	return err
}

func validateForm(form Form) error {
	if form.ImageURI == "" {
		return &ValidationError{Field: "image", Message: "Please select an image"}
	}
	if strings.TrimSpace(form.Description) == "" {
		return &ValidationError{Field: "description", Message: "Please enter a description"}
	}
	if form.Category != "" && !form.Category.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("Unknown category %q", form.Category)}
	}
	return nil
}

// Delete asks confirm before deleting entry id, then re-fetches the list.
// A declined prompt returns ErrDeleteDeclined without touching storage.
func (f *Flow) Delete(ctx context.Context, id uint, confirm Confirmer) error {
	ok, err := confirm.Confirm(ctx, DeletePrompt)
	if err != nil {
		return fmt.Errorf("confirm delete: %w", err)
	}
	if !ok {
		return ErrDeleteDeclined
	}

	if err := f.store.Delete(ctx, f.userID, id); err != nil {
		log.Printf("ERROR: failed to delete entry %d for user %d: %v", id, f.userID, err)
		return fmt.Errorf("delete entry: %w", err)
	}
	log.Printf("Deleted entry %d for user %d", id, f.userID)

	f.mu.Lock()
	if f.form.EditingID == id {
		f.form = f.emptyForm()
	}
	f.mu.Unlock()

	return f.Refresh(ctx)
}
