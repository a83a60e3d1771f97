// Package storage keeps uploaded media files.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned for keys that hold no file
var ErrNotFound = errors.New("file not found")

// FileStore saves and removes uploaded files. Keys are flat file names that
// are also the last path segment of the public URL.
type FileStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (storageKey string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
