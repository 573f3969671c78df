// Package storage provides file storage for published site media.
//
// Two implementations are provided:
// - LocalStorage: File system storage, served by the app under /files/
// - R2Storage: Cloudflare R2 (S3-compatible) storage for production
//
// Project screenshots, post covers and their thumbnails are written here by
// the media package at startup and linked from rendered pages.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for file storage operations.
//
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key with the given options.
	// Returns ErrKeyExists if the key already exists and opts.Overwrite is false.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the data at the specified key. The caller must close the
	// reader. Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for the object. A zero expires asks for a permanent
	// public URL where the provider has one; otherwise a presigned URL valid
	// for expires is returned.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object.
	// If empty, it is detected from the key's extension.
	ContentType string

	// MaxSize specifies the maximum allowed size in bytes. 0 means no limit.
	MaxSize int64

	// Overwrite allows replacing an existing object at the same key.
	Overwrite bool

	// Public sets the public-read ACL on R2. Informational for local storage.
	Public bool

	// CacheControl is sent with the object where the provider supports it.
	CacheControl string
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where files are stored.
	// Example: "./storage"
	BasePath string

	// BaseURL is the public URL prefix for accessing files.
	// Example: "http://localhost:8080/files"
	BaseURL string
}

// R2Config holds configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string

	// PublicURL is the public URL for the bucket (custom domain or r2.dev).
	// If empty, presigned URLs are used for all access.
	PublicURL string

	// Region is required by the AWS SDK. R2 accepts "auto". Default: "auto"
	Region string

	// Endpoint overrides the account endpoint. Used in tests.
	Endpoint string
}

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderR2 identifies the Cloudflare R2 storage provider.
	ProviderR2 = "r2"
)

// =============================================================================
// Key Generation Helpers
// =============================================================================

// ImageKey returns the storage key for a published image.
// Format: images/{name}
func ImageKey(name string) string {
	return "images/" + path.Clean(name)
}

// ThumbnailKey returns the storage key for an image's thumbnail. Thumbnails
// are always JPEG.
// Format: thumbnails/{name without extension}.jpg
func ThumbnailKey(name string) string {
	clean := path.Clean(name)
	return "thumbnails/" + strings.TrimSuffix(clean, path.Ext(clean)) + ".jpg"
}
