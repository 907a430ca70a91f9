package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Package storage contains object storage abstractions for lease documents and
// maintenance photos kept in an S3-compatible bucket. Uploads stream; nothing touches local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// Progress, when set, is read from as bytes are transferred so callers can track upload progress.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
	Progress    io.Reader
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable, S3-compatible object storage client interface.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ObjectKey builds a collision-free key under prefix/owner, keeping only the
// extension of the original filename.
func ObjectKey(prefix, owner, originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return path.Join(prefix, owner, uuid.NewString()+ext)
}
