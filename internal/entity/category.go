package entity

import "time"

// DbCategory is the single-valued predecessor of tags, kept while clients
// migrate. A category name is unique per owner.
type DbCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"column:user_id;type:varchar(64);uniqueIndex:idx_category_user_name;not null" json:"user_id"`
	Name   string `gorm:"column:name;type:varchar(128);uniqueIndex:idx_category_user_name;not null" json:"name"`
}

// TableName overrides default pluralised name.
func (DbCategory) TableName() string {
	return "categories"
}

// Category is the response representation of a category.
type Category struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// CategoryListResponse is the data payload for listing categories.
type CategoryListResponse struct {
	Categories []Category `json:"categories"`
}

// CategoryDetailResponse is the data payload for a single category.
type CategoryDetailResponse struct {
	Category Category `json:"category"`
}
