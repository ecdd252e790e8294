package core

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when no object exists at the requested key.
// Cleanup paths treat it as idempotent success; explicit deletes report it.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is any service that can store binary objects by key.
// Put overwrites any existing object at the key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	// URL resolves a stored key to a publicly fetchable URL.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
