package sql

import (
	"context"
	"fmt"
	"strings"

	"linkmark/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateBookmark inserts a bookmark and attaches the named tags, creating
// missing tags on the fly. The whole operation runs in a single transaction:
// a failure while attaching tags rolls the bookmark insert back, so a
// half-tagged bookmark is never persisted.
func (r *GormRepository) CreateBookmark(ctx context.Context, bookmark *entity.DbBookmark, tagNames []string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if bookmark == nil {
		return fmt.Errorf("bookmark is nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bookmark).Error; err != nil {
			return err
		}
		return attachTagsTx(tx, bookmark.ID, bookmark.UserID, tagNames)
	})
}

// attachTagsTx links the bookmark to every named tag, find-or-creating tags
// and skipping duplicate links.
func attachTagsTx(tx *gorm.DB, bookmarkID uint, userID string, tagNames []string) error {
	for _, name := range dedupeNames(tagNames) {
		tag, err := ensureTagTx(tx, userID, name)
		if err != nil {
			return err
		}
		link := entity.DbBookmarkTag{BookmarkID: bookmarkID, TagID: tag.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ListBookmarks retrieves the user's bookmarks matching the query filters,
// newest first. Tag filtering uses AND semantics: a bookmark matches only
// when it carries every requested tag.
func (r *GormRepository) ListBookmarks(ctx context.Context, params *entity.BookmarkQuery) ([]entity.DbBookmark, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}
	if params == nil || strings.TrimSpace(params.UserID) == "" {
		return nil, nil, fmt.Errorf("user id is required")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbBookmark{}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Where("bookmarks.user_id = ?", params.UserID)

	if trimmed := strings.TrimSpace(params.Search); trimmed != "" {
		query = query.Where("LOWER(bookmarks.title) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}
	if trimmed := strings.TrimSpace(params.Category); trimmed != "" {
		query = query.Where("bookmarks.category = ?", trimmed)
	}
	if params.StartTime != nil {
		query = query.Where("bookmarks.created_at >= ?", *params.StartTime)
	}
	if params.EndTime != nil {
		query = query.Where("bookmarks.created_at <= ?", *params.EndTime)
	}

	if tags := dedupeNames(params.Tags); len(tags) > 0 {
		query = query.
			Joins("JOIN bookmark_tags ON bookmark_tags.bookmark_id = bookmarks.id").
			Joins("JOIN tags ON tags.id = bookmark_tags.tag_id").
			Where("tags.name IN ?", tags).
			Group("bookmarks.id").
			Having("COUNT(DISTINCT tags.name) >= ?", len(tags))
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	var bookmarks []entity.DbBookmark
	if err := query.Order("bookmarks.created_at DESC, bookmarks.id DESC").Offset(offset).Limit(limit).Find(&bookmarks).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculateMeta(totalCount, limit, offset)
	return bookmarks, meta, nil
}

// GetBookmark retrieves a single bookmark with its tags preloaded.
func (r *GormRepository) GetBookmark(ctx context.Context, id uint, userID string) (*entity.DbBookmark, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid bookmark id")
	}

	var bookmark entity.DbBookmark
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&bookmark).Error
	if err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// UpdateBookmark applies partial field updates scoped to the owner.
func (r *GormRepository) UpdateBookmark(ctx context.Context, id uint, userID string, updates entity.BookmarkUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid bookmark id")
	}
	if updates.IsEmpty() {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.DbBookmark{}).
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

// DeleteBookmark removes a bookmark and its tag links.
func (r *GormRepository) DeleteBookmark(ctx context.Context, id uint, userID string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid bookmark id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.DbBookmark{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("bookmark_id = ?", id).Delete(&entity.DbBookmarkTag{}).Error
	})
}

// ReplaceBookmarkTags swaps the bookmark's entire tag set for the named
// tags. Delete and re-attach run in one transaction, so a failure midway
// never leaves the bookmark accidentally tagless.
func (r *GormRepository) ReplaceBookmarkTags(ctx context.Context, id uint, userID string, tagNames []string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid bookmark id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bookmark entity.DbBookmark
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&bookmark).Error; err != nil {
			return err
		}

		if err := tx.Where("bookmark_id = ?", id).Delete(&entity.DbBookmarkTag{}).Error; err != nil {
			return err
		}

		return attachTagsTx(tx, id, userID, tagNames)
	})
}
