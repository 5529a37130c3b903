package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sniplink/internal/models"

	"github.com/stretchr/testify/assert"
)

func apiRequest(method, path, owner string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner != "" {
		req.Header.Set("X-Owner-Id", owner)
	}
	return req
}

func TestCreateLinkEndpoint(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	t.Run("Unauthorized Without Identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("POST", "/api/v1/links", "", map[string]any{"destination_url": "https://example.com"}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("POST", "/api/v1/links", "owner-1", map[string]any{
			"destination_url": "https://example.com/page",
		}))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Link     models.Link `json:"link"`
			ShortURL string      `json:"short_url"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Link.ShortCode, 6)
		assert.Equal(t, "owner-1", resp.Link.OwnerID)
		assert.Contains(t, resp.ShortURL, resp.Link.ShortCode)
	})

	t.Run("Missing Destination", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("POST", "/api/v1/links", "owner-1", map[string]any{}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Blocked Destination", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("POST", "/api/v1/links", "owner-1", map[string]any{
			"destination_url": "http://localhost/admin",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Custom Alias Conflict", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("POST", "/api/v1/links", "owner-1", map[string]any{
			"destination_url": "https://example.com",
			"custom_alias":    "branded",
		}))
		assert.Equal(t, http.StatusCreated, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("POST", "/api/v1/links", "owner-2", map[string]any{
			"destination_url": "https://example.org",
			"custom_alias":    "branded",
		}))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUpdateLinkEndpoint(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)

	link := models.Link{
		ID:             "id-upd",
		OwnerID:        "owner-1",
		ShortCode:      "upd001",
		DestinationURL: "https://example.com",
		IsActive:       true,
	}
	db.Create(&link)

	t.Run("Update", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("PATCH", "/api/v1/links/id-upd", "owner-1", map[string]any{
			"is_active": false,
		}))

		assert.Equal(t, http.StatusOK, w.Code)

		var got models.Link
		db.First(&got, "id = ?", "id-upd")
		assert.False(t, got.IsActive)
	})

	t.Run("Wrong Owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("PATCH", "/api/v1/links/id-upd", "owner-2", map[string]any{
			"is_active": true,
		}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unknown Link", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("PATCH", "/api/v1/links/no-such-id", "owner-1", map[string]any{
			"is_active": true,
		}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteLinkEndpoint(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)

	link := models.Link{
		ID:             "id-del",
		OwnerID:        "owner-1",
		ShortCode:      "del001",
		DestinationURL: "https://example.com",
		IsActive:       true,
	}
	db.Create(&link)

	t.Run("Wrong Owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("DELETE", "/api/v1/links/id-del", "owner-2", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("DELETE", "/api/v1/links/id-del", "owner-1", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)

		var count int64
		db.Model(&models.Link{}).Where("id = ?", "id-del").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Already Gone", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, apiRequest("DELETE", "/api/v1/links/id-del", "owner-1", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
