package model

import (
	"context"

	"linkmark/internal/entity"
)

// Repository defines the persistence operations of the service.
type Repository interface {
	// Bookmarks
	CreateBookmark(ctx context.Context, bookmark *entity.DbBookmark, tagNames []string) error
	ListBookmarks(ctx context.Context, params *entity.BookmarkQuery) ([]entity.DbBookmark, *entity.Meta, error)
	GetBookmark(ctx context.Context, id uint, userID string) (*entity.DbBookmark, error)
	UpdateBookmark(ctx context.Context, id uint, userID string, updates entity.BookmarkUpdates) error
	DeleteBookmark(ctx context.Context, id uint, userID string) error
	ReplaceBookmarkTags(ctx context.Context, id uint, userID string, tagNames []string) error

	// Tags
	EnsureTag(ctx context.Context, userID, name string) (*entity.DbTag, error)
	ListTags(ctx context.Context, userID, search string) ([]entity.DbTag, error)
	UpdateTag(ctx context.Context, id uint, userID string, updates entity.TagUpdates) error
	DeleteTag(ctx context.Context, id uint, userID string) error
	TagStats(ctx context.Context, userID string, limit int) ([]entity.DbTag, error)

	// Categories (legacy)
	EnsureCategory(ctx context.Context, userID, name string) (*entity.DbCategory, error)
	ListCategories(ctx context.Context, userID, search string) ([]entity.DbCategory, error)
	UpdateCategory(ctx context.Context, id uint, userID string, updates entity.CategoryUpdates) error
	DeleteCategory(ctx context.Context, id uint, userID string) error

	// Users (token-auth mode)
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	CountUsers(ctx context.Context) (int64, error)
}
