package sql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"linkmark/internal/entity"

	"gorm.io/gorm"
)

func TestCreateBookmarkWithTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bookmark := mustCreateBookmark(t, repo, "user-1", "https://go.dev", "The Go site", []string{"golang", "Reference", "golang"})

	reloaded, err := repo.GetBookmark(ctx, bookmark.ID, "user-1")
	if err != nil {
		t.Fatalf("GetBookmark failed: %v", err)
	}

	// Tags come back in name order; the duplicate input collapses.
	if !equalStrings(tagNames(reloaded.Tags), []string{"Reference", "golang"}) {
		t.Errorf("unexpected tags: %v", tagNames(reloaded.Tags))
	}
}

func TestGetBookmarkScopedToOwner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bookmark := mustCreateBookmark(t, repo, "user-1", "https://go.dev", "Go", nil)

	if _, err := repo.GetBookmark(ctx, bookmark.ID, "user-2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for foreign user, got %v", err)
	}
}

func TestListBookmarksTagFilterRequiresAllTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	mustCreateBookmark(t, repo, "user-1", "https://a.example", "both tags", []string{"golang", "web"})
	mustCreateBookmark(t, repo, "user-1", "https://b.example", "only golang", []string{"golang"})
	mustCreateBookmark(t, repo, "user-1", "https://c.example", "only web", []string{"web"})

	bookmarks, meta, err := repo.ListBookmarks(ctx, &entity.BookmarkQuery{
		UserID: "user-1",
		Tags:   []string{"golang", "web"},
	})
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}

	if len(bookmarks) != 1 {
		t.Fatalf("expected one bookmark carrying both tags, got %d", len(bookmarks))
	}
	if bookmarks[0].Title != "both tags" {
		t.Errorf("unexpected bookmark: %s", bookmarks[0].Title)
	}
	if meta.Total != 1 {
		t.Errorf("expected total 1, got %d", meta.Total)
	}
}

func TestListBookmarksSearchAndCategory(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	work := &entity.DbBookmark{UserID: "user-1", URL: "https://a.example", Title: "Team Handbook", Category: "work"}
	if err := repo.CreateBookmark(ctx, work, nil); err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	home := &entity.DbBookmark{UserID: "user-1", URL: "https://b.example", Title: "Recipe book", Category: "home"}
	if err := repo.CreateBookmark(ctx, home, nil); err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}

	bookmarks, _, err := repo.ListBookmarks(ctx, &entity.BookmarkQuery{UserID: "user-1", Search: "handBOOK"})
	if err != nil {
		t.Fatalf("ListBookmarks with search failed: %v", err)
	}
	if len(bookmarks) != 1 || bookmarks[0].Title != "Team Handbook" {
		t.Errorf("case-insensitive search failed: %+v", bookmarks)
	}

	bookmarks, _, err = repo.ListBookmarks(ctx, &entity.BookmarkQuery{UserID: "user-1", Category: "home"})
	if err != nil {
		t.Fatalf("ListBookmarks with category failed: %v", err)
	}
	if len(bookmarks) != 1 || bookmarks[0].Title != "Recipe book" {
		t.Errorf("category filter failed: %+v", bookmarks)
	}
}

func TestListBookmarksDateRangeBoundaries(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	inside := &entity.DbBookmark{UserID: "user-1", URL: "https://in.example", Title: "inside", CreatedAt: day.Add(23*time.Hour + 59*time.Minute)}
	if err := repo.CreateBookmark(ctx, inside, nil); err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}
	after := &entity.DbBookmark{UserID: "user-1", URL: "https://out.example", Title: "after", CreatedAt: day.Add(24*time.Hour + time.Second)}
	if err := repo.CreateBookmark(ctx, after, nil); err != nil {
		t.Fatalf("CreateBookmark failed: %v", err)
	}

	start := day
	end := day.Add(24*time.Hour - time.Millisecond)
	bookmarks, _, err := repo.ListBookmarks(ctx, &entity.BookmarkQuery{
		UserID:    "user-1",
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}

	if len(bookmarks) != 1 {
		t.Fatalf("expected one bookmark inside the day, got %d", len(bookmarks))
	}
	if bookmarks[0].Title != "inside" {
		t.Errorf("unexpected bookmark: %s", bookmarks[0].Title)
	}
}

func TestListBookmarksPagination(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		bookmark := &entity.DbBookmark{
			UserID:    "user-1",
			URL:       fmt.Sprintf("https://example.com/%d", i),
			Title:     fmt.Sprintf("bookmark %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.CreateBookmark(ctx, bookmark, nil); err != nil {
			t.Fatalf("CreateBookmark failed: %v", err)
		}
	}

	firstPage, meta, err := repo.ListBookmarks(ctx, &entity.BookmarkQuery{UserID: "user-1", Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("ListBookmarks page 1 failed: %v", err)
	}
	secondPage, _, err := repo.ListBookmarks(ctx, &entity.BookmarkQuery{UserID: "user-1", Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListBookmarks page 2 failed: %v", err)
	}

	if meta.Total != 5 {
		t.Errorf("expected total 5, got %d", meta.Total)
	}
	if len(firstPage) != 2 || len(secondPage) != 2 {
		t.Fatalf("expected two bookmarks per page, got %d and %d", len(firstPage), len(secondPage))
	}

	// Newest first, pages disjoint.
	if firstPage[0].Title != "bookmark 4" || firstPage[1].Title != "bookmark 3" {
		t.Errorf("unexpected first page order: %s, %s", firstPage[0].Title, firstPage[1].Title)
	}
	if secondPage[0].Title != "bookmark 2" || secondPage[1].Title != "bookmark 1" {
		t.Errorf("unexpected second page order: %s, %s", secondPage[0].Title, secondPage[1].Title)
	}
}

func TestUpdateBookmarkPartial(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bookmark := mustCreateBookmark(t, repo, "user-1", "https://go.dev", "Old title", nil)

	title := "New title"
	if err := repo.UpdateBookmark(ctx, bookmark.ID, "user-1", entity.BookmarkUpdates{Title: &title}); err != nil {
		t.Fatalf("UpdateBookmark failed: %v", err)
	}

	reloaded, err := repo.GetBookmark(ctx, bookmark.ID, "user-1")
	if err != nil {
		t.Fatalf("GetBookmark failed: %v", err)
	}
	if reloaded.Title != "New title" {
		t.Errorf("expected updated title, got %s", reloaded.Title)
	}
	if reloaded.URL != "https://go.dev" {
		t.Errorf("expected url untouched, got %s", reloaded.URL)
	}

	if err := repo.UpdateBookmark(ctx, bookmark.ID, "user-2", entity.BookmarkUpdates{Title: &title}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for foreign user, got %v", err)
	}
}

func TestReplaceBookmarkTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bookmark := mustCreateBookmark(t, repo, "user-1", "https://go.dev", "Go", []string{"old", "stale"})

	if err := repo.ReplaceBookmarkTags(ctx, bookmark.ID, "user-1", []string{"fresh", "old"}); err != nil {
		t.Fatalf("ReplaceBookmarkTags failed: %v", err)
	}

	reloaded, err := repo.GetBookmark(ctx, bookmark.ID, "user-1")
	if err != nil {
		t.Fatalf("GetBookmark failed: %v", err)
	}
	if !equalStrings(tagNames(reloaded.Tags), []string{"fresh", "old"}) {
		t.Errorf("unexpected tags after replace: %v", tagNames(reloaded.Tags))
	}

	// An empty set clears every tag.
	if err := repo.ReplaceBookmarkTags(ctx, bookmark.ID, "user-1", nil); err != nil {
		t.Fatalf("ReplaceBookmarkTags with empty set failed: %v", err)
	}
	reloaded, err = repo.GetBookmark(ctx, bookmark.ID, "user-1")
	if err != nil {
		t.Fatalf("GetBookmark failed: %v", err)
	}
	if len(reloaded.Tags) != 0 {
		t.Errorf("expected no tags, got %v", tagNames(reloaded.Tags))
	}

	if err := repo.ReplaceBookmarkTags(ctx, bookmark.ID, "user-2", []string{"x"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for foreign user, got %v", err)
	}
}

func TestDeleteBookmarkRemovesTagLinks(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	bookmark := mustCreateBookmark(t, repo, "user-1", "https://go.dev", "Go", []string{"golang"})
	keeper := mustCreateBookmark(t, repo, "user-1", "https://go.dev/blog", "Go blog", []string{"golang"})

	if err := repo.DeleteBookmark(ctx, bookmark.ID, "user-1"); err != nil {
		t.Fatalf("DeleteBookmark failed: %v", err)
	}

	if _, err := repo.GetBookmark(ctx, bookmark.ID, "user-1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected deleted bookmark to be gone, got %v", err)
	}

	tags, err := repo.ListTags(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].UsageCount != 1 {
		t.Errorf("expected golang usage count to drop to 1, got %+v", tags)
	}

	if _, err := repo.GetBookmark(ctx, keeper.ID, "user-1"); err != nil {
		t.Errorf("expected remaining bookmark to survive: %v", err)
	}
}
