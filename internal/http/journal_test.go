package http

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/foodjournal/internal/entities"
	"github.com/mrlokans/foodjournal/internal/journal"
)

func signedInServer(t *testing.T) *testServer {
	t.Helper()
	srv := newTestServer(t)
	srv.register(t, "cook@example.com", "secret1")
	return srv
}

// addEntry picks an image, fills the form and saves it.
func (s *testServer) addEntry(t *testing.T, description string, category entities.Category) JournalState {
	t.Helper()
	w := s.uploadImage(t, "gallery", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodPut, "/api/journal/form", map[string]any{
		"description": description,
		"category":    category,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/api/journal/save", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[JournalState](t, w)
}

func TestJournalController_RequiresSession(t *testing.T) {
	srv := newTestServer(t)

	w := srv.doJSON(t, http.MethodGet, "/api/journal", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.doJSON(t, http.MethodPost, "/api/journal/save", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJournalController_State(t *testing.T) {
	srv := signedInServer(t)

	w := srv.doJSON(t, http.MethodGet, "/api/journal", nil)
	require.Equal(t, http.StatusOK, w.Code)

	state := decode[JournalState](t, w)
	assert.Empty(t, state.Entries)
	assert.Equal(t, entities.CategoryAll, state.Filter)
	assert.Equal(t, entities.CategoryBreakfast, state.Form.Category)
	assert.Equal(t, entities.Categories, state.Categories)
}

func TestJournalController_PickImage(t *testing.T) {
	t.Run("imports the upload onto the form", func(t *testing.T) {
		srv := signedInServer(t)

		w := srv.uploadImage(t, "camera", true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		form := decode[journal.Form](t, w)
		require.NotEmpty(t, form.ImageURI)

		file, err := srv.library.Open(form.ImageURI)
		require.NoError(t, err)
		file.Close()
	})

	t.Run("request without a file is a cancelled pick", func(t *testing.T) {
		srv := signedInServer(t)
		srv.doJSON(t, http.MethodPut, "/api/journal/form", map[string]any{"description": "Oats"})

		w := srv.uploadImage(t, "gallery", false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		form := decode[journal.Form](t, w)
		assert.Empty(t, form.ImageURI)
		assert.Equal(t, "Oats", form.Description)
	})

	t.Run("rejects unknown origins", func(t *testing.T) {
		srv := signedInServer(t)

		w := srv.uploadImage(t, "scanner", true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("serves the imported image", func(t *testing.T) {
		srv := signedInServer(t)
		w := srv.uploadImage(t, "gallery", true)
		form := decode[journal.Form](t, w)

		w = srv.doJSON(t, http.MethodGet, "/api/journal/image?uri="+url.QueryEscape(form.ImageURI), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.NotZero(t, w.Body.Len())

		w = srv.doJSON(t, http.MethodGet, "/api/journal/image?uri="+url.QueryEscape("file:///etc/passwd"), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJournalController_Save(t *testing.T) {
	t.Run("creates an entry and clears the form", func(t *testing.T) {
		srv := signedInServer(t)

		state := srv.addEntry(t, "Porridge with berries", entities.CategoryBreakfast)
		require.Len(t, state.Entries, 1)
		assert.Equal(t, "Porridge with berries", state.Entries[0].Description)
		assert.Equal(t, entities.CategoryBreakfast, state.Entries[0].Category)
		assert.False(t, state.Entries[0].Date.IsZero())

		assert.Empty(t, state.Form.ImageURI)
		assert.Empty(t, state.Form.Description)
		assert.Zero(t, state.Form.EditingID)
	})

	t.Run("missing image is a validation error", func(t *testing.T) {
		srv := signedInServer(t)
		srv.doJSON(t, http.MethodPut, "/api/journal/form", map[string]any{"description": "Soup"})

		w := srv.doJSON(t, http.MethodPost, "/api/journal/save", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Please select an image", decode[ErrorResponse](t, w).Error)

		w = srv.doJSON(t, http.MethodGet, "/api/journal", nil)
		assert.Equal(t, "Soup", decode[JournalState](t, w).Form.Description)
	})

	t.Run("missing description is a validation error", func(t *testing.T) {
		srv := signedInServer(t)
		srv.uploadImage(t, "gallery", true)

		w := srv.doJSON(t, http.MethodPost, "/api/journal/save", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Please enter a description", decode[ErrorResponse](t, w).Error)
	})

	t.Run("edit updates in place", func(t *testing.T) {
		srv := signedInServer(t)
		created := srv.addEntry(t, "Salad", entities.CategoryLunch)
		entry := created.Entries[0]

		w := srv.doJSON(t, http.MethodPost, fmt.Sprintf("/api/journal/entries/%d/edit", entry.ID), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		form := decode[journal.Form](t, w)
		assert.Equal(t, entry.ID, form.EditingID)
		assert.Equal(t, "Salad", form.Description)

		srv.doJSON(t, http.MethodPut, "/api/journal/form", map[string]any{
			"description": "Greek salad",
			"category":    entities.CategoryDinner,
		})
		w = srv.doJSON(t, http.MethodPost, "/api/journal/save", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		state := decode[JournalState](t, w)
		require.Len(t, state.Entries, 1)
		assert.Equal(t, entry.ID, state.Entries[0].ID)
		assert.Equal(t, "Greek salad", state.Entries[0].Description)
		assert.Equal(t, entities.CategoryDinner, state.Entries[0].Category)
		assert.True(t, entry.Date.Equal(state.Entries[0].Date))
	})

	t.Run("editing an unlisted entry is not found", func(t *testing.T) {
		srv := signedInServer(t)

		w := srv.doJSON(t, http.MethodPost, "/api/journal/entries/42/edit", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestJournalController_ListEntries(t *testing.T) {
	srv := signedInServer(t)
	srv.addEntry(t, "Eggs", entities.CategoryBreakfast)
	srv.addEntry(t, "Apple", entities.CategorySnack)

	w := srv.doJSON(t, http.MethodGet, "/api/journal/entries?category=Snack", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[JournalState](t, w)
	require.Len(t, state.Entries, 1)
	assert.Equal(t, "Apple", state.Entries[0].Description)
	assert.Equal(t, entities.CategorySnack, state.Filter)

	// Listing a category does not change the screen's filter.
	w = srv.doJSON(t, http.MethodGet, "/api/journal", nil)
	state = decode[JournalState](t, w)
	assert.Equal(t, entities.CategoryAll, state.Filter)
	assert.Len(t, state.Entries, 2)

	w = srv.doJSON(t, http.MethodGet, "/api/journal/entries", nil)
	state = decode[JournalState](t, w)
	require.Len(t, state.Entries, 2)
	assert.Equal(t, "Apple", state.Entries[0].Description)

	w = srv.doJSON(t, http.MethodGet, "/api/journal/entries?category=Brunch", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.doJSON(t, http.MethodPost, "/api/journal/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[JournalState](t, w).Entries, 2)
}

func TestJournalController_SetFilter(t *testing.T) {
	srv := signedInServer(t)
	srv.addEntry(t, "Eggs", entities.CategoryBreakfast)
	srv.addEntry(t, "Apple", entities.CategorySnack)

	w := srv.doJSON(t, http.MethodPut, "/api/journal/filter", map[string]any{"category": entities.CategoryBreakfast})
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[JournalState](t, w)
	assert.Equal(t, entities.CategoryBreakfast, state.Filter)
	require.Len(t, state.Entries, 1)
	assert.Equal(t, "Eggs", state.Entries[0].Description)

	w = srv.doJSON(t, http.MethodGet, "/api/journal/entries", nil)
	state = decode[JournalState](t, w)
	assert.Equal(t, entities.CategoryBreakfast, state.Filter)
	assert.Len(t, state.Entries, 1)

	w = srv.doJSON(t, http.MethodPut, "/api/journal/filter", map[string]any{"category": "Brunch"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.doJSON(t, http.MethodPut, "/api/journal/filter", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJournalController_Delete(t *testing.T) {
	t.Run("declined delete keeps the entry", func(t *testing.T) {
		srv := signedInServer(t)
		entry := srv.addEntry(t, "Toast", entities.CategoryBreakfast).Entries[0]

		w := srv.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/journal/entries/%d", entry.ID), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Delete cancelled", decode[ErrorResponse](t, w).Error)

		w = srv.doJSON(t, http.MethodGet, "/api/journal", nil)
		assert.Len(t, decode[JournalState](t, w).Entries, 1)
	})

	t.Run("confirmed delete removes the entry and its image", func(t *testing.T) {
		srv := signedInServer(t)
		entry := srv.addEntry(t, "Toast", entities.CategoryBreakfast).Entries[0]

		w := srv.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/journal/entries/%d?confirm=true", entry.ID), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Empty(t, decode[JournalState](t, w).Entries)

		_, err := srv.library.Open(entry.ImageURI)
		assert.Error(t, err)
	})

	t.Run("unknown entry is not found", func(t *testing.T) {
		srv := signedInServer(t)

		w := srv.doJSON(t, http.MethodDelete, "/api/journal/entries/99?confirm=true", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id is a bad request", func(t *testing.T) {
		srv := signedInServer(t)

		w := srv.doJSON(t, http.MethodDelete, "/api/journal/entries/abc?confirm=true", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
