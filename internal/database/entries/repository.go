// Package entries provides database operations for food journal entries.
package entries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/entities"
)

// DateLayout is the fixed-width ISO 8601 format entry dates are stored in.
// Fixed width keeps ORDER BY date consistent with time order.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrNotFound = errors.New("journal entry not found")

// Repository handles journal entry persistence.
type Repository struct {
	gw *database.Gateway
}

// NewRepository creates a new entries repository.
func NewRepository(gw *database.Gateway) *Repository {
	return &Repository{gw: gw}
}

// Insert stores a new entry and sets its ID.
func (r *Repository) Insert(ctx context.Context, entry *entities.JournalEntry) error {
	res, err := r.gw.Exec(ctx,
		`INSERT INTO journal_entries (user_id, image_uri, description, category, date) VALUES (?, ?, ?, ?, ?)`,
		entry.UserID, entry.ImageURI, entry.Description, string(entry.Category), FormatDate(entry.Date),
	)
	if err != nil {
		return err
	}
	entry.ID = uint(res.LastInsertID)
	return nil
}

// Update rewrites image, description and category of an entry owned by
// entry.UserID. The date is left as inserted.
func (r *Repository) Update(ctx context.Context, entry *entities.JournalEntry) error {
	res, err := r.gw.Exec(ctx,
		`UPDATE journal_entries SET image_uri = ?, description = ?, category = ? WHERE id = ? AND user_id = ?`,
		entry.ImageURI, entry.Description, string(entry.Category), entry.ID, entry.UserID,
	)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one entry owned by userID.
func (r *Repository) Delete(ctx context.Context, userID, id uint) error {
	res, err := r.gw.Exec(ctx,
		`DELETE FROM journal_entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForUser returns every entry of userID, most recent first.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]entities.JournalEntry, error) {
	rows, err := r.gw.Query(ctx,
		`SELECT id, user_id, image_uri, description, category, date
		FROM journal_entries WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}

	result := make([]entities.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := entryFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}

// Count returns how many entries userID has.
func (r *Repository) Count(ctx context.Context, userID uint) (int64, error) {
	rows, err := r.gw.Query(ctx, `SELECT COUNT(*) AS n FROM journal_entries WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return rows[0].Int64("n")
}

// ImageURIs returns every image URI referenced by any entry.
func (r *Repository) ImageURIs(ctx context.Context) ([]string, error) {
	rows, err := r.gw.Query(ctx, `SELECT DISTINCT image_uri FROM journal_entries`)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(rows))
	for _, row := range rows {
		uris = append(uris, row.String("image_uri"))
	}
	return uris, nil
}

func entryFromRow(row database.Row) (entities.JournalEntry, error) {
	id, err := row.Int64("id")
	if err != nil {
		return entities.JournalEntry{}, fmt.Errorf("decode entry: %w", err)
	}
	userID, err := row.Int64("user_id")
	if err != nil {
		return entities.JournalEntry{}, fmt.Errorf("decode entry %d: %w", id, err)
	}
	date, err := row.Time("date", DateLayout)
	if err != nil {
		return entities.JournalEntry{}, fmt.Errorf("decode entry %d date: %w", id, err)
	}

	return entities.JournalEntry{
		ID:          uint(id),
		UserID:      uint(userID),
		ImageURI:    row.String("image_uri"),
		Description: row.String("description"),
		Category:    entities.Category(row.String("category")),
		Date:        date,
	}, nil
}

// FormatDate renders t in DateLayout, in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
