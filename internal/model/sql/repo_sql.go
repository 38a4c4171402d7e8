package sql

import (
	"linkmark/internal/entity"

	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// calculateMeta builds the pagination window of a list response.
func (r *GormRepository) calculateMeta(totalCount int64, limit, offset int) *entity.Meta {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return &entity.Meta{
		Total:  totalCount,
		Limit:  int64(limit),
		Offset: int64(offset),
	}
}
