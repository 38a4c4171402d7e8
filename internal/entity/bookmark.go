package entity

import (
	"time"

	"linkmark/internal/entity/common"
)

// DbBookmark is a saved page, owned by a single user.
type DbBookmark struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  string `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	URL     string `gorm:"column:url;type:varchar(2048);not null" json:"url"`
	Title   string `gorm:"column:title;type:varchar(512);not null" json:"title"`
	Summary string `gorm:"column:summary;type:text" json:"summary"`

	// Category predates tags and is kept for clients that have not migrated.
	Category string `gorm:"column:category;type:varchar(128);index" json:"category"`

	FaviconPath   string             `gorm:"column:favicon_path;type:varchar(512)" json:"-"`
	SnapshotPaths common.StringArray `gorm:"column:snapshot_paths;type:json" json:"-"`

	Tags []DbTag `gorm:"many2many:bookmark_tags;foreignKey:ID;joinForeignKey:BookmarkID;references:ID;joinReferences:TagID" json:"tags"`
}

// TableName overrides default pluralised name.
func (DbBookmark) TableName() string {
	return "bookmarks"
}

// BookmarkQuery carries the list filters. Tags, date bounds, and the owner
// are resolved by the HTTP layer before the query reaches the repository.
type BookmarkQuery struct {
	Search   string `json:"search" form:"search" query:"search"`
	Category string `json:"category" form:"category" query:"category"`
	Limit    int    `json:"limit" form:"limit" query:"limit"`
	Offset   int    `json:"offset" form:"offset" query:"offset"`

	UserID    string     `json:"-" form:"-" query:"-"`
	Tags      []string   `json:"-" form:"-" query:"-"`
	StartTime *time.Time `json:"-" form:"-" query:"-"`
	EndTime   *time.Time `json:"-" form:"-" query:"-"`
}

// BookmarkCreateRequest is the payload sent by the browser extension.
// Favicon and snapshots are inline data URLs (or raw base64).
type BookmarkCreateRequest struct {
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Favicon   string   `json:"favicon"`
	Snapshots []string `json:"snapshots"`
}

// BookmarkUpdateRequest carries the editable bookmark fields.
type BookmarkUpdateRequest struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Category *string `json:"category"`
}

// BookmarkTagsRequest replaces the whole tag set of a bookmark. The pointer
// distinguishes a missing array (rejected) from an empty one (clears tags).
type BookmarkTagsRequest struct {
	Tags *[]string `json:"tags"`
}

// BookmarkItem is the response representation of a bookmark.
type BookmarkItem struct {
	ID           uint      `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Category     string    `json:"category,omitempty"`
	Tags         []string  `json:"tags"`
	FaviconURL   string    `json:"favicon_url,omitempty"`
	SnapshotURLs []string  `json:"snapshot_urls,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BookmarkListResponse is the data payload for listing bookmarks.
type BookmarkListResponse struct {
	Bookmarks []BookmarkItem `json:"bookmarks"`
	Meta      *common.Meta   `json:"meta"`
}

// BookmarkDetailResponse is the data payload for a single bookmark.
type BookmarkDetailResponse struct {
	Bookmark BookmarkItem `json:"bookmark"`
	// StorageNotes reports favicon/snapshot persistence problems that did
	// not fail the request.
	StorageNotes string `json:"storage_notes,omitempty"`
}
