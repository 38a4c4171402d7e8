package storage

import (
	"context"
	"fmt"
	"strings"

	"linkmark/internal/config"
)

const (
	// TypeLocal stores files on the local filesystem.
	TypeLocal = "local"
	// TypeS3 stores files in Amazon S3 or a compatible backend.
	TypeS3 = "s3"
	// TypeOSS stores files in Aliyun OSS.
	TypeOSS = "oss"
	// TypeCOS stores files in Tencent COS.
	TypeCOS = "cos"
	// TypeR2 stores files in Cloudflare R2.
	TypeR2 = "r2"
)

// SaveOptions controls how a backend persists a blob.
//
// Kind groups files on disk (favicons, snapshots), Extension hints the
// preferred file extension without the leading dot. When Extension is empty
// the backend falls back to a generic one.
type SaveOptions struct {
	Kind         string
	Extension    string
	BaseName     string
	SkipIfExists bool
}

// Storage persists binary data and returns a backend-specific identifier
// (for local storage, a relative path).
type Storage interface {
	Save(ctx context.Context, data []byte, opts SaveOptions) (string, error)
}

// LocalBaseDirProvider is implemented by backends exposing a local directory
// that can be served over HTTP directly.
type LocalBaseDirProvider interface {
	LocalBaseDir() string
}

// NewStorage instantiates the storage backend matching the configuration.
func NewStorage(cfg config.Config) (Storage, error) {
	typeName := strings.ToLower(strings.TrimSpace(cfg.StorageType))
	switch typeName {
	case "", TypeLocal:
		return NewLocalStorage(cfg.StorageLocalDir)
	case TypeS3:
		return NewS3Storage(cfg)
	case TypeOSS:
		return NewOSSStorage(cfg)
	case TypeCOS:
		return NewCOSStorage(cfg)
	case TypeR2:
		return NewR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
