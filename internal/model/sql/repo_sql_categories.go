package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linkmark/internal/entity"

	"gorm.io/gorm"
)

// EnsureCategory returns the category named name for the user, creating it
// when absent. Duplicate-insert races resolve the same way as EnsureTag.
func (r *GormRepository) EnsureCategory(ctx context.Context, userID, name string) (*entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("category name is empty")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	db := r.db.WithContext(ctx)

	var category entity.DbCategory
	err := db.Where("user_id = ? AND name = ?", userID, trimmed).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = entity.DbCategory{UserID: userID, Name: trimmed}
	if createErr := db.Create(&category).Error; createErr != nil {
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			var existing entity.DbCategory
			if err := db.Where("user_id = ? AND name = ?", userID, trimmed).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, createErr
	}
	return &category, nil
}

// ListCategories returns the user's categories ordered by name, optionally
// filtered on a case-insensitive name substring.
func (r *GormRepository) ListCategories(ctx context.Context, userID, search string) ([]entity.DbCategory, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbCategory{}).
		Where("user_id = ?", userID).
		Order("name ASC")

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	var categories []entity.DbCategory
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// UpdateCategory renames a category scoped to its owner.
func (r *GormRepository) UpdateCategory(ctx context.Context, id uint, userID string, updates entity.CategoryUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid category id")
	}
	if updates.IsEmpty() {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.DbCategory{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates.ToMap())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCategory removes a category. Bookmark rows keep whatever legacy
// category value they carry; the column is free text, not a foreign key.
func (r *GormRepository) DeleteCategory(ctx context.Context, id uint, userID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid category id")
	}

	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.DbCategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
