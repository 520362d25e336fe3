package blobstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound reports a name with no stored object.
	ErrNotFound = errors.New("blob not found")
	// ErrInvalidName reports a name that is not a single safe path segment.
	ErrInvalidName = errors.New("invalid blob name")
	// ErrExists reports a Put onto a name that is already taken.
	ErrExists = errors.New("blob already exists")
)

// Entry describes one stored object as seen in a listing.
type Entry struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	ModTime   time.Time `json:"mod_time"`
}

// Object is an opened stored object. Callers must close Content.
type Object struct {
	Content io.ReadSeekCloser
	Entry
}

// BlobStore is the byte-storage abstraction behind uploads, fetches and the admin listing.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader) (Entry, error)
	Open(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]Entry, error)
}
