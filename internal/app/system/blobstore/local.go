package blobstore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalConfig configures the local disk backend.
type LocalConfig struct {
	// BasePath is the directory objects are stored under.
	BasePath string
	// BaseURL is the URL prefix the objects are served from,
	// e.g. "http://localhost:8080/media".
	BaseURL string
}

// Local stores objects on the local filesystem.
type Local struct {
	basePath string
	baseURL  string
}

// NewLocal creates a local disk store, creating the base directory if needed.
func NewLocal(cfg LocalConfig) (*Local, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("blobstore: base path is required")
	}
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create base path: %w", err)
	}
	return &Local{
		basePath: cfg.BasePath,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// fullPath resolves a storage path to a filesystem path, rejecting
// traversal outside the base directory.
func (l *Local) fullPath(path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	full := filepath.Join(l.basePath, cleaned)
	if !strings.HasPrefix(full, filepath.Clean(l.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("blobstore: invalid path %q", path)
	}
	return full, nil
}

// Put writes the object to disk, creating parent directories as needed.
func (l *Local) Put(ctx context.Context, path string, r io.Reader, opts *PutOptions) error {
	full, err := l.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("blobstore: create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("blobstore: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return fmt.Errorf("blobstore: write file: %w", err)
	}
	return nil
}

// Get opens the object for reading.
func (l *Local) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := l.fullPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("blobstore: open file: %w", err)
	}
	return f, nil
}

// Delete removes the object. A missing object is not an error.
func (l *Local) Delete(ctx context.Context, path string) error {
	full, err := l.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blobstore: delete file: %w", err)
	}
	return nil
}

// List walks the base directory and returns objects under prefix.
func (l *Local) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	err := filepath.WalkDir(l.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		storagePath := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(storagePath, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Path:        storagePath,
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(storagePath)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blobstore: list: %w", err)
	}
	return objects, nil
}

// URL returns the public URL for the object.
func (l *Local) URL(path string) string {
	return l.baseURL + "/" + strings.TrimPrefix(path, "/")
}
