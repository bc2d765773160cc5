// Package docstore keeps published profile documents in Redis or PostgreSQL
// so either can serve as the directory's document source.
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrDocumentNotFound is returned when no document was published under a key.
var ErrDocumentNotFound = errors.New("document not found")

// Meta describes a published document.
type Meta struct {
	ProfileCount int
	Origin       string
	PublishedAt  time.Time
}

// Reader returns the raw document stored under key.
type Reader interface {
	GetDocument(ctx context.Context, key string) ([]byte, error)
}

// Store reads and publishes documents.
type Store interface {
	Reader
	PutDocument(ctx context.Context, key string, document []byte, meta Meta) error
	Close() error
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
