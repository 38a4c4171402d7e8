package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"linkmark/internal/config"
	"linkmark/internal/entity"
	modelsql "linkmark/internal/model/sql"
	"linkmark/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter wires a real handler against a throwaway SQLite database
// and local storage, with the routes the server registers.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.DbUser{},
		&entity.DbBookmark{},
		&entity.DbTag{},
		&entity.DbBookmarkTag{},
		&entity.DbCategory{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	repo := modelsql.NewGormRepository(db)

	cfg := config.Config{
		StorageType:          "local",
		StorageLocalDir:      filepath.Join(t.TempDir(), "assets"),
		StoragePublicBaseURL: "/files",
		JWTSecret:            "test-secret",
		JWTIssuer:            "linkmark",
		JWTExpirationMinutes: 60,
	}

	store, err := storage.NewStorage(cfg)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	handler, err := NewHTTPHandler(cfg, repo, store)
	if err != nil {
		t.Fatalf("failed to create handler: %v", err)
	}

	r := gin.New()
	apiGroup := r.Group("/api")
	protected := apiGroup.Group("")
	protected.Use(handler.IdentityMiddleware())
	protected.GET("/bookmarks", handler.ListBookmarks)
	protected.POST("/bookmarks", handler.CreateBookmark)
	protected.GET("/bookmarks/:id", handler.GetBookmark)
	protected.PUT("/bookmarks/:id", handler.UpdateBookmark)
	protected.PUT("/bookmarks/:id/tags", handler.UpdateBookmarkTags)
	protected.DELETE("/bookmarks/:id", handler.DeleteBookmark)
	protected.GET("/tags", handler.ListTags)
	protected.GET("/tags/stats", handler.TagStats)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func TestCreateAndGetBookmark(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bookmarks", "user-1", map[string]any{
		"url":   "https://go.dev",
		"title": "The Go site",
		"tags":  []string{"yellow", "xylophone"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var created entity.BookmarkDetailResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("failed to unmarshal bookmark: %v", err)
	}
	if created.Bookmark.ID == 0 {
		t.Fatal("expected a bookmark id")
	}
	// Tags come back alphabetical regardless of input order.
	if len(created.Bookmark.Tags) != 2 || created.Bookmark.Tags[0] != "xylophone" || created.Bookmark.Tags[1] != "yellow" {
		t.Errorf("unexpected tags: %v", created.Bookmark.Tags)
	}

	w = doJSON(t, r, http.MethodGet, "/api/bookmarks", "user-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	env = decodeEnvelope(t, w)

	var list entity.BookmarkListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("failed to unmarshal list: %v", err)
	}
	if len(list.Bookmarks) != 1 {
		t.Fatalf("expected one bookmark, got %d", len(list.Bookmarks))
	}
	if list.Meta == nil || list.Meta.Total != 1 {
		t.Errorf("unexpected meta: %+v", list.Meta)
	}
}

func TestCreateBookmarkValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bookmarks", "user-1", map[string]any{
		"title": "no url",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing url, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != ErrCodeMissingField {
		t.Errorf("expected %s, got %s", ErrCodeMissingField, env.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/bookmarks", "user-1", map[string]any{
		"url": "https://example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", w.Code)
	}
}

func TestBookmarksRequireIdentity(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/bookmarks", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("expected failure envelope")
	}
}

func TestBookmarksScopedPerUser(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bookmarks", "user-1", map[string]any{
		"url":   "https://go.dev",
		"title": "mine",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/bookmarks", "user-2", nil)
	env := decodeEnvelope(t, w)
	var list entity.BookmarkListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("failed to unmarshal list: %v", err)
	}
	if len(list.Bookmarks) != 0 {
		t.Errorf("expected no bookmarks for another user, got %d", len(list.Bookmarks))
	}
}

func TestUpdateBookmarkTagsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bookmarks", "user-1", map[string]any{
		"url":   "https://go.dev",
		"title": "Go",
		"tags":  []string{"old"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	var created entity.BookmarkDetailResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("failed to unmarshal bookmark: %v", err)
	}
	path := "/api/bookmarks/" + itoa(created.Bookmark.ID) + "/tags"

	// A body without the tags array is rejected.
	w = doJSON(t, r, http.MethodPut, path, "user-1", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without tags array, got %d", w.Code)
	}

	// An empty array clears the tag set.
	w = doJSON(t, r, http.MethodPut, path, "user-1", map[string]any{"tags": []string{}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	env = decodeEnvelope(t, w)
	var updated entity.BookmarkDetailResponse
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("failed to unmarshal bookmark: %v", err)
	}
	if len(updated.Bookmark.Tags) != 0 {
		t.Errorf("expected no tags after clearing, got %v", updated.Bookmark.Tags)
	}
}

func TestDeleteBookmarkEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bookmarks", "user-1", map[string]any{
		"url":   "https://go.dev",
		"title": "Go",
	})
	env := decodeEnvelope(t, w)
	var created entity.BookmarkDetailResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("failed to unmarshal bookmark: %v", err)
	}
	path := "/api/bookmarks/" + itoa(created.Bookmark.ID)

	w = doJSON(t, r, http.MethodDelete, path, "user-1", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, path, "user-1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	env = decodeEnvelope(t, w)
	if env.Code != ErrCodeBookmarkNotFound {
		t.Errorf("expected %s, got %s", ErrCodeBookmarkNotFound, env.Code)
	}
}

func TestParseDateBound(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		endOfDay bool
		want     time.Time
		wantErr  bool
	}{
		{
			name:  "rfc3339 passes through",
			value: "2026-03-10T14:30:00Z",
			want:  time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		},
		{
			name:  "bare date as lower bound",
			value: "2026-03-10",
			want:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "bare date as upper bound covers the day",
			value:    "2026-03-10",
			endOfDay: true,
			want:     time.Date(2026, 3, 10, 23, 59, 59, 999000000, time.UTC),
		},
		{
			name:    "garbage rejected",
			value:   "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateBound(tt.value, tt.endOfDay)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseTagsParam(t *testing.T) {
	got := parseTagsParam(" golang, web ,,  ")
	if !equalStringSlices(got, []string{"golang", "web"}) {
		t.Errorf("unexpected tags: %v", got)
	}
	if parseTagsParam("") != nil {
		t.Error("expected nil for empty input")
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
