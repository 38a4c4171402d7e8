package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"linkmark/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (h *HTTPHandler) CreateBookmark(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "bookmark repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	var req entity.BookmarkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		MissingField(c, "url")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		MissingField(c, "title")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	bookmark, storageNotes, err := h.bookmarkService.Create(ctx, current.ID, req)
	if err != nil {
		logrus.WithError(err).Error("failed to create bookmark")
		InternalError(c, "failed to create bookmark")
		return
	}

	SuccessResponse(c, http.StatusCreated, entity.BookmarkDetailResponse{
		Bookmark:     h.makeBookmarkItem(bookmark),
		StorageNotes: storageNotes,
	})
}

func (h *HTTPHandler) ListBookmarks(c *gin.Context) {
	if h.repo == nil {
		SuccessResponse(c, http.StatusOK, entity.BookmarkListResponse{Bookmarks: []entity.BookmarkItem{}})
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	var query entity.BookmarkQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid query parameters")
		return
	}

	query.UserID = current.ID
	query.Tags = parseTagsParam(c.Query("tags"))

	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		start, err := parseDateBound(raw, false)
		if err != nil {
			BadRequest(c, ErrCodeInvalidRequest, "invalid startDate")
			return
		}
		query.StartTime = &start
	}
	if raw := strings.TrimSpace(c.Query("endDate")); raw != "" {
		end, err := parseDateBound(raw, true)
		if err != nil {
			BadRequest(c, ErrCodeInvalidRequest, "invalid endDate")
			return
		}
		query.EndTime = &end
	}

	if query.Limit <= 0 {
		query.Limit = defaultPageLimit
	}
	if query.Limit > maxPageLimit {
		query.Limit = maxPageLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	bookmarks, meta, err := h.repo.ListBookmarks(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list bookmarks")
		InternalError(c, "failed to load bookmarks")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.BookmarkListResponse{
		Bookmarks: h.makeBookmarkItems(bookmarks),
		Meta:      meta,
	})
}

func (h *HTTPHandler) GetBookmark(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "bookmark repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	bookmarkID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	bookmark, err := h.repo.GetBookmark(ctx, bookmarkID, current.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeBookmarkNotFound, "bookmark not found")
			return
		}
		logrus.WithError(err).WithField("id", bookmarkID).Error("failed to load bookmark")
		InternalError(c, "failed to load bookmark")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.BookmarkDetailResponse{Bookmark: h.makeBookmarkItem(bookmark)})
}

func (h *HTTPHandler) UpdateBookmark(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "bookmark repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	bookmarkID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.BookmarkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.BookmarkUpdates{
		Title:    trimPtr(req.Title),
		Summary:  trimPtr(req.Summary),
		Category: trimPtr(req.Category),
	}
	if updates.IsEmpty() {
		BadRequest(c, ErrCodeInvalidRequest, "no fields to update")
		return
	}
	if updates.Title != nil && *updates.Title == "" {
		MissingField(c, "title")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateBookmark(ctx, bookmarkID, current.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeBookmarkNotFound, "bookmark not found")
			return
		}
		logrus.WithError(err).WithField("id", bookmarkID).Error("failed to update bookmark")
		InternalError(c, "failed to update bookmark")
		return
	}

	bookmark, err := h.repo.GetBookmark(ctx, bookmarkID, current.ID)
	if err != nil {
		logrus.WithError(err).WithField("id", bookmarkID).Error("failed to reload bookmark after update")
		InternalError(c, "failed to load bookmark")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.BookmarkDetailResponse{Bookmark: h.makeBookmarkItem(bookmark)})
}

func (h *HTTPHandler) UpdateBookmarkTags(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "bookmark repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	bookmarkID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.BookmarkTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}
	if req.Tags == nil {
		MissingField(c, "tags")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.repo.ReplaceBookmarkTags(ctx, bookmarkID, current.ID, *req.Tags); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeBookmarkNotFound, "bookmark not found")
			return
		}
		logrus.WithError(err).WithField("id", bookmarkID).Error("failed to replace bookmark tags")
		InternalError(c, "failed to update bookmark tags")
		return
	}

	bookmark, err := h.repo.GetBookmark(ctx, bookmarkID, current.ID)
	if err != nil {
		logrus.WithError(err).WithField("id", bookmarkID).Error("failed to reload bookmark after tag update")
		InternalError(c, "failed to load bookmark")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.BookmarkDetailResponse{Bookmark: h.makeBookmarkItem(bookmark)})
}

func (h *HTTPHandler) DeleteBookmark(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "bookmark repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	bookmarkID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteBookmark(ctx, bookmarkID, current.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeBookmarkNotFound, "bookmark not found")
			return
		}
		logrus.WithError(err).WithField("id", bookmarkID).Error("failed to delete bookmark")
		InternalError(c, "failed to delete bookmark")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) makeBookmarkItems(bookmarks []entity.DbBookmark) []entity.BookmarkItem {
	items := make([]entity.BookmarkItem, 0, len(bookmarks))
	for i := range bookmarks {
		items = append(items, h.makeBookmarkItem(&bookmarks[i]))
	}
	return items
}

func (h *HTTPHandler) makeBookmarkItem(bookmark *entity.DbBookmark) entity.BookmarkItem {
	if bookmark == nil {
		return entity.BookmarkItem{}
	}

	// Tags are preloaded in name order.
	tags := make([]string, 0, len(bookmark.Tags))
	for _, tag := range bookmark.Tags {
		tags = append(tags, tag.Name)
	}

	var snapshotURLs []string
	for _, path := range bookmark.SnapshotPaths.ToSlice() {
		if url := h.publicURL(path); url != "" {
			snapshotURLs = append(snapshotURLs, url)
		}
	}

	return entity.BookmarkItem{
		ID:           bookmark.ID,
		URL:          bookmark.URL,
		Title:        bookmark.Title,
		Summary:      bookmark.Summary,
		Category:     bookmark.Category,
		Tags:         tags,
		FaviconURL:   h.publicURL(bookmark.FaviconPath),
		SnapshotURLs: snapshotURLs,
		CreatedAt:    bookmark.CreatedAt,
		UpdatedAt:    bookmark.UpdatedAt,
	}
}

// parseIDParam parses the :id path parameter, writing the 400 response
// itself when the value is not a positive integer.
func parseIDParam(c *gin.Context) (uint, bool) {
	rawID := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseTagsParam splits a comma-separated tags filter, dropping empties.
func parseTagsParam(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// parseDateBound accepts RFC 3339 timestamps or bare dates. A bare date
// used as an upper bound covers the whole day.
func parseDateBound(value string, endOfDay bool) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return day.Add(24*time.Hour - time.Millisecond), nil
	}
	return day, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
