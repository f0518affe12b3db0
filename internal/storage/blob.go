// Package storage provides filesystem persistence for rendered reports.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Common errors for blob storage operations.
var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidKey   = errors.New("invalid blob key")
)

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// BlobStore is a flat key/value store for binary objects.
type BlobStore interface {
	// GetReader returns a reader for a blob. Returns ErrBlobNotFound if not found.
	// Caller must close the reader when done.
	GetReader(ctx context.Context, key string) (io.ReadCloser, error)

	// Put stores a blob. Overwrites if exists.
	Put(ctx context.Context, key string, data []byte) error

	// Exists checks if a blob exists.
	Exists(ctx context.Context, key string) (bool, error)

	// List returns blobs whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
}
