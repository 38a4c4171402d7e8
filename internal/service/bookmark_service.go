package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"linkmark/internal/entity"
	"linkmark/internal/model"
	"linkmark/internal/storage"
	"linkmark/internal/utils"

	"github.com/sirupsen/logrus"
)

// BookmarkService coordinates bookmark creation: it persists inline favicon
// and snapshot payloads through the storage backend and writes the bookmark
// with its tags through the repository.
type BookmarkService struct {
	repo  model.Repository
	store storage.Storage
}

// NewBookmarkService creates a bookmark service.
func NewBookmarkService(repo model.Repository, store storage.Storage) *BookmarkService {
	return &BookmarkService{
		repo:  repo,
		store: store,
	}
}

// Create stores the favicon/snapshot blobs, then inserts the bookmark and
// attaches its tags in one transaction, and finally re-reads the bookmark so
// the tag set is populated. Blob storage problems do not fail the create;
// they are reported back as notes. A repository failure fails the whole
// operation.
func (s *BookmarkService) Create(ctx context.Context, userID string, req entity.BookmarkCreateRequest) (*entity.DbBookmark, string, error) {
	bookmark := &entity.DbBookmark{
		UserID:   userID,
		URL:      strings.TrimSpace(req.URL),
		Title:    strings.TrimSpace(req.Title),
		Summary:  strings.TrimSpace(req.Summary),
		Category: strings.TrimSpace(req.Category),
	}

	var storageNotes []string

	if trimmed := strings.TrimSpace(req.Favicon); trimmed != "" {
		path, err := s.saveAsset(ctx, "favicons", trimmed)
		if err != nil {
			logrus.WithError(err).Warn("failed to store favicon")
			storageNotes = append(storageNotes, fmt.Sprintf("favicon not stored: %v", err))
		} else {
			bookmark.FaviconPath = path
		}
	}

	for idx, snapshot := range req.Snapshots {
		trimmed := strings.TrimSpace(snapshot)
		if trimmed == "" {
			continue
		}
		path, err := s.saveAsset(ctx, "snapshots", trimmed)
		if err != nil {
			logrus.WithError(err).WithField("index", idx).Warn("failed to store snapshot")
			storageNotes = append(storageNotes, fmt.Sprintf("snapshot %d not stored: %v", idx, err))
			continue
		}
		bookmark.SnapshotPaths = append(bookmark.SnapshotPaths, path)
	}

	if err := s.repo.CreateBookmark(ctx, bookmark, req.Tags); err != nil {
		return nil, "", err
	}

	full, err := s.repo.GetBookmark(ctx, bookmark.ID, userID)
	if err != nil {
		logrus.WithError(err).WithField("id", bookmark.ID).Error("failed to reload bookmark after create")
		return bookmark, appendStorageNotes("", storageNotes), nil
	}

	return full, appendStorageNotes("", storageNotes), nil
}

// saveAsset decodes an inline payload and hands it to the storage backend.
// Identical payloads land on the same object key, so re-saving a favicon the
// extension sends with every capture is a no-op.
func (s *BookmarkService) saveAsset(ctx context.Context, kind, payload string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("storage not configured")
	}

	data, ext, err := utils.DecodePayload(payload)
	if err != nil {
		return "", err
	}

	return s.store.Save(ctx, data, storage.SaveOptions{
		Kind:         kind,
		Extension:    ext,
		BaseName:     computeAssetBaseName(data),
		SkipIfExists: true,
	})
}

// appendStorageNotes merges storage problem notes into a single string.
func appendStorageNotes(existing string, notes []string) string {
	if len(notes) == 0 {
		return existing
	}
	combined := strings.Join(notes, "; ")
	if strings.TrimSpace(existing) == "" {
		return combined
	}
	return existing + "; " + combined
}

// computeAssetBaseName derives a stable object name from the payload bytes.
func computeAssetBaseName(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
