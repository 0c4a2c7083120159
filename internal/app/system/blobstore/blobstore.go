// Package blobstore provides file storage for uploaded media.
//
// Two backends are available: local disk for development and S3 for
// production. Unlike a plain key/value blob API, this store supports
// prefix listing, which the icon catalog uses to reconcile database
// records against what is actually in storage.
package blobstore

import (
	"context"
	"io"
)

// PutOptions holds optional metadata for stored objects.
type PutOptions struct {
	ContentType  string
	CacheControl string
}

// ObjectInfo describes one stored object returned by List.
type ObjectInfo struct {
	// Path is the full storage path, e.g. "icons/white/rocket.svg".
	Path string
	// Size is the object size in bytes.
	Size int64
	// ContentType is the stored content type, if the backend records one.
	ContentType string
}

// Store is the interface both backends implement.
type Store interface {
	// Put stores the object at path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, opts *PutOptions) error
	// Get opens the object at path for reading. The caller must close
	// the returned reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes the object at path. Deleting a missing object is
	// not an error.
	Delete(ctx context.Context, path string) error
	// List returns every object whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// URL returns the public URL for the object at path.
	URL(path string) string
}
