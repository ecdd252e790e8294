package assignment

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/mwalimu/darasa/core"
	dummyblob "github.com/mwalimu/darasa/storage/blob/dummy"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "assignment/a1/t1.png", objectKey("a1", "t1", AttachmentImage))
	assert.Equal(t, "assignment/a1/t1.pdf", objectKey("a1", "t1", AttachmentPDF))
}

func TestStore_UploadRemove(t *testing.T) {
	ctx := context.Background()
	blob := dummyblob.NewStore()
	store := NewStore(blob)

	url, err := store.Upload(ctx, "a1", "t1", NewAttachment{Kind: AttachmentPDF, Content: []byte("v1")})
	assert.NoError(t, err)
	fetched, err := blob.Fetch(url)
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), fetched)

	// same (assignment, uploader) overwrites in place
	url2, err := store.Upload(ctx, "a1", "t1", NewAttachment{Kind: AttachmentPDF, Content: []byte("v2")})
	assert.NoError(t, err)
	assert.Equal(t, url, url2)
	assert.Equal(t, 1, blob.Len())
	fetched, err = blob.Fetch(url)
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), fetched)

	assert.NoError(t, store.Remove(ctx, "a1", "t1", AttachmentPDF))
	assert.Zero(t, blob.Len())

	err = store.Remove(ctx, "a1", "t1", AttachmentPDF)
	assert.Equal(t, core.ErrBlobNotFound, errors.Cause(err))
}
