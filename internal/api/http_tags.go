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

const defaultPopularTagLimit = 10

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *HTTPHandler) ListTags(c *gin.Context) {
	if h.repo == nil {
		SuccessResponse(c, http.StatusOK, entity.TagListResponse{Tags: []entity.Tag{}})
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tags, err := h.repo.ListTags(ctx, current.ID, strings.TrimSpace(c.Query("search")))
	if err != nil {
		logrus.WithError(err).Error("failed to list tags")
		InternalError(c, "failed to load tags")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.TagListResponse{Tags: makeTags(tags)})
}

func (h *HTTPHandler) CreateTag(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "tag repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tag, err := h.repo.EnsureTag(ctx, current.ID, name)
	if err != nil {
		logrus.WithError(err).WithField("name", name).Error("failed to create tag")
		InternalError(c, "failed to create tag")
		return
	}

	SuccessResponse(c, http.StatusCreated, entity.TagDetailResponse{Tag: makeTag(*tag)})
}

func (h *HTTPHandler) UpdateTag(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "tag repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	tagID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		MissingField(c, "name")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateTag(ctx, tagID, current.ID, entity.TagUpdates{Name: &name}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTagNotFound, "tag not found")
			return
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeInvalidRequest, "a tag with that name already exists")
			return
		}
		logrus.WithError(err).WithField("id", tagID).Error("failed to update tag")
		InternalError(c, "failed to update tag")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.TagDetailResponse{Tag: entity.Tag{
		ID:   tagID,
		Name: name,
	}})
}

func (h *HTTPHandler) DeleteTag(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "tag repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	tagID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteTag(ctx, tagID, current.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeTagNotFound, "tag not found")
			return
		}
		logrus.WithError(err).WithField("id", tagID).Error("failed to delete tag")
		InternalError(c, "failed to delete tag")
		return
	}

	c.Status(http.StatusNoContent)
}

// TagStats returns every tag of the caller with its bookmark count,
// most-used first.
func (h *HTTPHandler) TagStats(c *gin.Context) {
	if h.repo == nil {
		SuccessResponse(c, http.StatusOK, entity.TagListResponse{Tags: []entity.Tag{}})
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tags, err := h.repo.TagStats(ctx, current.ID, 0)
	if err != nil {
		logrus.WithError(err).Error("failed to load tag stats")
		InternalError(c, "failed to load tag stats")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.TagListResponse{Tags: makeTags(tags)})
}

// PopularTags returns the caller's most-used tags, capped by the limit
// query parameter.
func (h *HTTPHandler) PopularTags(c *gin.Context) {
	if h.repo == nil {
		SuccessResponse(c, http.StatusOK, entity.TagListResponse{Tags: []entity.Tag{}})
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	limit := defaultPopularTagLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			BadRequest(c, ErrCodeInvalidRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	tags, err := h.repo.TagStats(ctx, current.ID, limit)
	if err != nil {
		logrus.WithError(err).Error("failed to load popular tags")
		InternalError(c, "failed to load popular tags")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.TagListResponse{Tags: makeTags(tags)})
}

func makeTags(tags []entity.DbTag) []entity.Tag {
	out := make([]entity.Tag, 0, len(tags))
	for _, tag := range tags {
		out = append(out, makeTag(tag))
	}
	return out
}

func makeTag(tag entity.DbTag) entity.Tag {
	return entity.Tag{
		ID:         tag.ID,
		Name:       tag.Name,
		UsageCount: tag.UsageCount,
		CreatedAt:  tag.CreatedAt,
		UpdatedAt:  tag.UpdatedAt,
	}
}
