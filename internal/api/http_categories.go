package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"linkmark/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *HTTPHandler) ListCategories(c *gin.Context) {
	if h.repo == nil {
		SuccessResponse(c, http.StatusOK, entity.CategoryListResponse{Categories: []entity.Category{}})
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.repo.ListCategories(ctx, current.ID, strings.TrimSpace(c.Query("search")))
	if err != nil {
		logrus.WithError(err).Error("failed to list categories")
		InternalError(c, "failed to load categories")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.CategoryListResponse{Categories: makeCategories(categories)})
}

func (h *HTTPHandler) CreateCategory(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "category repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	var req categoryRequest
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

	category, err := h.repo.EnsureCategory(ctx, current.ID, name)
	if err != nil {
		logrus.WithError(err).WithField("name", name).Error("failed to create category")
		InternalError(c, "failed to create category")
		return
	}

	SuccessResponse(c, http.StatusCreated, entity.CategoryDetailResponse{Category: makeCategory(*category)})
}

func (h *HTTPHandler) UpdateCategory(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "category repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	categoryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req categoryRequest
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

	if err := h.repo.UpdateCategory(ctx, categoryID, current.ID, entity.CategoryUpdates{Name: &name}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCategoryNotFound, "category not found")
			return
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			BadRequest(c, ErrCodeInvalidRequest, "a category with that name already exists")
			return
		}
		logrus.WithError(err).WithField("id", categoryID).Error("failed to update category")
		InternalError(c, "failed to update category")
		return
	}

	SuccessResponse(c, http.StatusOK, entity.CategoryDetailResponse{Category: entity.Category{
		ID:   categoryID,
		Name: name,
	}})
}

// DeleteCategory removes the category record only. Bookmarks keep their
// free-text category value.
func (h *HTTPHandler) DeleteCategory(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "category repository not available")
		return
	}

	current := CurrentUser(c)
	if current == nil {
		Unauthorized(c, "missing user identity")
		return
	}

	categoryID, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteCategory(ctx, categoryID, current.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeCategoryNotFound, "category not found")
			return
		}
		logrus.WithError(err).WithField("id", categoryID).Error("failed to delete category")
		InternalError(c, "failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}

func makeCategories(categories []entity.DbCategory) []entity.Category {
	out := make([]entity.Category, 0, len(categories))
	for _, category := range categories {
		out = append(out, makeCategory(category))
	}
	return out
}

func makeCategory(category entity.DbCategory) entity.Category {
	return entity.Category{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
