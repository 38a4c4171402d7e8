package sql

import (
	"context"
	"path/filepath"
	"testing"

	"linkmark/internal/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepository opens a throwaway SQLite database and migrates the
// schema into it.
func newTestRepository(t *testing.T) *GormRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&entity.DbUser{},
		&entity.DbBookmark{},
		&entity.DbTag{},
		&entity.DbBookmarkTag{},
		&entity.DbCategory{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return NewGormRepository(db)
}

func mustCreateBookmark(t *testing.T, repo *GormRepository, userID, url, title string, tags []string) *entity.DbBookmark {
	t.Helper()

	bookmark := &entity.DbBookmark{
		UserID: userID,
		URL:    url,
		Title:  title,
	}
	if err := repo.CreateBookmark(context.Background(), bookmark, tags); err != nil {
		t.Fatalf("failed to create bookmark %q: %v", title, err)
	}
	return bookmark
}

func tagNames(tags []entity.DbTag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
