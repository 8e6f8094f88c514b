package http

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/foodjournal/internal/app"
	"github.com/mrlokans/foodjournal/internal/auth"
	"github.com/mrlokans/foodjournal/internal/config"
	"github.com/mrlokans/foodjournal/internal/database"
	"github.com/mrlokans/foodjournal/internal/database/entries"
	"github.com/mrlokans/foodjournal/internal/entities"
	"github.com/mrlokans/foodjournal/internal/images"
	"github.com/mrlokans/foodjournal/internal/journal"
)

// JournalState is what the journal screen renders.
type JournalState struct {
	Filter     entities.Category       `json:"filter"`
	Categories []entities.Category     `json:"categories"`
	Entries    []entities.JournalEntry `json:"entries"`
	Form       journal.Form            `json:"form"`
}

type JournalController struct {
	shell   *app.Shell
	library *images.Library
	images  config.Images
}

func NewJournalController(shell *app.Shell, library *images.Library, cfg config.Images) *JournalController {
	return &JournalController{shell: shell, library: library, images: cfg}
}

// flow returns the journal of the signed-in user or responds with an error.
func (jc *JournalController) flow(c *gin.Context) (*journal.Flow, bool) {
	f, err := jc.shell.Journal(auth.GetUserID(c))
	if err != nil {
		if !respondShellError(c, err) {
			respondInternalError(c, err, "open journal", journal.UserMessage(err))
		}
		return nil, false
	}
	return f, true
}

func state(f *journal.Flow) JournalState {
	return JournalState{
		Filter:     f.Filter(),
		Categories: entities.Categories,
		Entries:    f.Entries(),
		Form:       f.Form(),
	}
}

// State returns the entry list, active filter and form
// GET /api/journal
func (jc *JournalController) State(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, state(f))
}

// ListEntries returns the fetched entries, optionally switching the filter first
// GET /api/journal/entries?category=Lunch
func (jc *JournalController) ListEntries(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}

	category := f.Filter()
	if q, ok := c.GetQuery("category"); ok {
		category = entities.Category(q)
	}
	list, err := f.EntriesIn(category)
	if err != nil {
		jc.respondJournalError(c, err, "list entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":  category,
		"entries": list,
	})
}

// SetFilter changes the category the journal screen shows
// PUT /api/journal/filter
func (jc *JournalController) SetFilter(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}

	var req struct {
		Category entities.Category `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := f.SetFilter(req.Category); err != nil {
		jc.respondJournalError(c, err, "set filter")
		return
	}

	c.JSON(http.StatusOK, state(f))
}

// Refresh re-fetches the entry list from storage
// POST /api/journal/refresh
func (jc *JournalController) Refresh(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}
	if err := f.Refresh(c.Request.Context()); err != nil {
		jc.respondJournalError(c, err, "refresh entries")
		return
	}
	c.JSON(http.StatusOK, state(f))
}

// UpdateForm changes the description and/or category of the form
// PUT /api/journal/form
func (jc *JournalController) UpdateForm(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}

	var req struct {
		Description *string            `json:"description"`
		Category    *entities.Category `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Category != nil {
		if err := f.SetCategory(*req.Category); err != nil {
			jc.respondJournalError(c, err, "set category")
			return
		}
	}
	if req.Description != nil {
		f.SetDescription(*req.Description)
	}

	c.JSON(http.StatusOK, f.Form())
}

// ResetForm clears the form and any edit target
// POST /api/journal/form/reset
func (jc *JournalController) ResetForm(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}
	f.ResetForm()
	c.JSON(http.StatusOK, f.Form())
}

// PickImage imports an uploaded photo and puts it on the form. A request
// without a file is a cancelled pick and leaves the form as it was.
// POST /api/journal/image (multipart: image, origin)
func (jc *JournalController) PickImage(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}
	if jc.library == nil {
		respondError(c, http.StatusServiceUnavailable, "Image import is not available", "images_disabled")
		return
	}

	if jc.images.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, jc.images.MaxUploadBytes)
	}

	path := ""
	fileHeader, err := c.FormFile("image")
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		tmp, err := os.CreateTemp("", "journal_upload_")
		if err != nil {
			respondInternalError(c, err, "create upload file", journal.UserMessage(err))
			return
		}
		path = tmp.Name()
		tmp.Close()
		defer os.Remove(path)

		if err := c.SaveUploadedFile(fileHeader, path); err != nil {
			respondInternalError(c, err, "save upload", journal.UserMessage(err))
			return
		}
	case errors.As(err, &tooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, "The image is too large", "too_large")
		return
	case errors.Is(err, http.ErrMissingFile):
		// cancelled
	default:
		respondBadRequest(c, "expected a multipart upload")
		return
	}

	origin := journal.Origin(c.DefaultPostForm("origin", string(journal.OriginGallery)))
	if origin != journal.OriginCamera && origin != journal.OriginGallery {
		respondBadRequest(c, "origin must be camera or gallery")
		return
	}

	req := journal.ImageRequest{
		Origin:       origin,
		AspectWidth:  jc.images.AspectWidth,
		AspectHeight: jc.images.AspectHeight,
		Quality:      float64(jc.images.Quality) / 100,
	}
	if err := f.PickImage(c.Request.Context(), jc.library.Source(path), req); err != nil {
		jc.respondJournalError(c, err, "pick image")
		return
	}

	c.JSON(http.StatusOK, f.Form())
}

// Image serves a photo previously imported into the library
// GET /api/journal/image?uri=file:///...
func (jc *JournalController) Image(c *gin.Context) {
	if jc.library == nil {
		respondError(c, http.StatusNotFound, "image not found", "not_found")
		return
	}

	file, err := jc.library.Open(c.Query("uri"))
	if err != nil {
		respondError(c, http.StatusNotFound, "image not found", "not_found")
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		respondInternalError(c, err, "stat image", "Could not load the image")
		return
	}
	c.Header("Content-Type", "image/jpeg")
	http.ServeContent(c.Writer, c.Request, stat.Name(), stat.ModTime(), file)
}

// Edit loads an entry into the form for updating
// POST /api/journal/entries/:id/edit
func (jc *JournalController) Edit(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := f.Edit(id); err != nil {
		jc.respondJournalError(c, err, "edit entry")
		return
	}
	c.JSON(http.StatusOK, f.Form())
}

// Save creates a new entry or updates the one being edited
// POST /api/journal/save
func (jc *JournalController) Save(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}

	creating := f.Form().EditingID == 0
	if err := f.Save(c.Request.Context()); err != nil {
		jc.respondJournalError(c, err, "save entry")
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	c.JSON(status, state(f))
}

// Delete removes an entry once the caller confirms
// DELETE /api/journal/entries/:id?confirm=true
func (jc *JournalController) Delete(c *gin.Context) {
	f, ok := jc.flow(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	imageURI := ""
	listed, _ := f.EntriesIn(entities.CategoryAll)
	for _, entry := range listed {
		if entry.ID == id {
			imageURI = entry.ImageURI
			break
		}
	}

	if err := f.Delete(c.Request.Context(), id, journal.Answer(confirmed)); err != nil {
		// The row is gone when only the re-fetch failed.
		var qErr *database.QueryError
		if !errors.As(err, &qErr) || qErr.Kind != database.KindQuery {
			jc.respondJournalError(c, err, "delete entry")
			return
		}
		log.Printf("WARNING: entry %d deleted but list refresh failed: %v", id, err)
	}

	if imageURI != "" && jc.library != nil {
		if err := jc.library.Remove(imageURI); err != nil {
			log.Printf("WARNING: failed to remove image for entry %d: %v", id, err)
		}
	}

	c.JSON(http.StatusOK, state(f))
}

func (jc *JournalController) respondJournalError(c *gin.Context, err error, context string) {
	if respondShellError(c, err) {
		return
	}

	var (
		vErr    *journal.ValidationError
		permErr *journal.PermissionError
	)
	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, vErr.Message, "validation")
	case errors.Is(err, journal.ErrDeleteDeclined):
		respondError(c, http.StatusConflict, journal.UserMessage(err), "declined")
	case errors.Is(err, journal.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, journal.UserMessage(err), "permission_denied")
	case errors.As(err, &permErr):
		respondError(c, http.StatusUnprocessableEntity, journal.UserMessage(err), "image_unavailable")
	case errors.Is(err, journal.ErrEntryNotListed), errors.Is(err, entries.ErrNotFound):
		respondError(c, http.StatusNotFound, journal.UserMessage(err), "not_found")
	default:
		respondInternalError(c, err, context, journal.UserMessage(err))
	}
}
