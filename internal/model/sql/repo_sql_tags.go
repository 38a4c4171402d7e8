package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linkmark/internal/entity"

	"gorm.io/gorm"
)

// EnsureTag returns the tag named name for the user, creating it when absent.
// A concurrent duplicate insert is resolved by re-querying for the row the
// other writer created, so callers always get the surviving tag back.
func (r *GormRepository) EnsureTag(ctx context.Context, userID, name string) (*entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	return ensureTagTx(r.db.WithContext(ctx), userID, name)
}

func ensureTagTx(tx *gorm.DB, userID, name string) (*entity.DbTag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("tag name is empty")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	var tag entity.DbTag
	err := tx.Where("user_id = ? AND name = ?", userID, trimmed).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = entity.DbTag{UserID: userID, Name: trimmed}
	if createErr := tx.Create(&tag).Error; createErr != nil {
		// Lost the race against another writer: the unique (user_id, name)
		// index rejected the insert, so the row exists now.
		if errors.Is(createErr, gorm.ErrDuplicatedKey) {
			var existing entity.DbTag
			if err := tx.Where("user_id = ? AND name = ?", userID, trimmed).First(&existing).Error; err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, createErr
	}
	return &tag, nil
}

// ListTags returns the user's tags with usage counts, ordered by name.
// Search filters on a case-insensitive name substring.
func (r *GormRepository) ListTags(ctx context.Context, userID, search string) ([]entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbTag{}).
		Select("tags.*, COUNT(bookmark_tags.bookmark_id) as usage_count").
		Joins("LEFT JOIN bookmark_tags ON bookmark_tags.tag_id = tags.id").
		Where("tags.user_id = ?", userID).
		Group("tags.id").
		Order("tags.name ASC")

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		query = query.Where("LOWER(tags.name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}

	var tags []entity.DbTag
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}

	return tags, nil
}

// UpdateTag renames a tag scoped to its owner.
func (r *GormRepository) UpdateTag(ctx context.Context, id uint, userID string, updates entity.TagUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid tag id")
	}
	if updates.IsEmpty() {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.DbTag{}).
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

// DeleteTag removes a tag and detaches it from every bookmark.
func (r *GormRepository) DeleteTag(ctx context.Context, id uint, userID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid tag id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.DbTag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("tag_id = ?", id).Delete(&entity.DbBookmarkTag{}).Error
	})
}

// TagStats returns the user's tags ordered by bookmark count, most used
// first. A limit of zero returns every tag.
func (r *GormRepository) TagStats(ctx context.Context, userID string, limit int) ([]entity.DbTag, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbTag{}).
		Select("tags.*, COUNT(bookmark_tags.bookmark_id) as usage_count").
		Joins("LEFT JOIN bookmark_tags ON bookmark_tags.tag_id = tags.id").
		Where("tags.user_id = ?", userID).
		Group("tags.id").
		Order("usage_count DESC, tags.name ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var tags []entity.DbTag
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}

	return tags, nil
}
