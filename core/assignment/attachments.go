package assignment

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mwalimu/darasa/core"
)

// Store handles the single binary object that may accompany an assignment.
// The object key is derived deterministically from (assignmentID, uploaderID)
// plus a fixed extension per kind, so deletion never needs a stored key.
type Store struct {
	blob core.BlobStore
}

func NewStore(blob core.BlobStore) *Store {
	return &Store{blob: blob}
}

func objectKey(assignmentID, uploaderID, kind string) string {
	ext := "pdf"
	if kind == AttachmentImage {
		ext = "png"
	}
	return fmt.Sprintf("assignment/%s/%s.%s", assignmentID, uploaderID, ext)
}

func contentType(kind string) string {
	if kind == AttachmentImage {
		return "image/png"
	}
	return "application/pdf"
}

// Upload writes the attachment object, overwriting any previous one at the
// same key, and resolves its download URL.
func (s *Store) Upload(ctx context.Context, assignmentID, uploaderID string, na NewAttachment) (string, error) {
	key := objectKey(assignmentID, uploaderID, na.Kind)
	if err := s.blob.Put(ctx, key, contentType(na.Kind), na.Content); err != nil {
		return "", errors.Wrap(err, "writing attachment object")
	}
	url, err := s.blob.URL(ctx, key)
	if err != nil {
		return "", errors.Wrap(err, "resolving attachment url")
	}
	return url, nil
}

// Remove deletes the attachment object. A missing object surfaces as
// core.ErrBlobNotFound; callers on cleanup paths treat that as success.
func (s *Store) Remove(ctx context.Context, assignmentID, uploaderID, kind string) error {
	return s.blob.Delete(ctx, objectKey(assignmentID, uploaderID, kind))
}
