package entity

import "time"

// DbTag is a user-scoped label. A tag name is unique per owner.
type DbTag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"column:user_id;type:varchar(64);uniqueIndex:idx_tag_user_name;not null" json:"user_id"`
	Name   string `gorm:"column:name;type:varchar(64);uniqueIndex:idx_tag_user_name;not null" json:"name"`

	// UsageCount is populated by aggregate queries, never written.
	UsageCount int64 `gorm:"->;-:migration" json:"usage_count,omitempty"`
}

// TableName overrides default pluralised name.
func (DbTag) TableName() string {
	return "tags"
}

// DbBookmarkTag links bookmarks and tags (many-to-many).
type DbBookmarkTag struct {
	BookmarkID uint      `gorm:"primaryKey" json:"bookmark_id"`
	TagID      uint      `gorm:"primaryKey" json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides default pluralised name.
func (DbBookmarkTag) TableName() string {
	return "bookmark_tags"
}

// Tag is the response representation of a tag.
type Tag struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	UsageCount int64     `json:"usage_count,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// TagListResponse is the data payload for listing tags.
type TagListResponse struct {
	Tags []Tag `json:"tags"`
}

// TagDetailResponse is the data payload for a single tag.
type TagDetailResponse struct {
	Tag Tag `json:"tag"`
}
