package ossblob

import (
	"bytes"
	"context"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"

	"github.com/mwalimu/darasa/core"
)

// Store is a core.BlobStore backed by an Alibaba OSS bucket. Download URLs
// are signed GETs valid for the configured expiry.
type Store struct {
	bucket    *oss.Bucket
	urlExpiry int64 // seconds
}

var _ core.BlobStore = (*Store)(nil) // interface compliance check

func NewStore(conf *core.Config) (*Store, error) {
	client, err := oss.New(conf.OSS.Endpoint, conf.OSS.AccessKeyID, conf.OSS.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "creating OSS client")
	}
	bucket, err := client.Bucket(conf.OSS.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "opening OSS bucket")
	}
	return &Store{
		bucket:    bucket,
		urlExpiry: int64(conf.OSS.URLExpiry.Seconds()),
	}, nil
}

func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	err := s.bucket.PutObject(key, bytes.NewReader(data), oss.ContentType(contentType))
	return errors.Wrap(err, "writing OSS object")
}

func (s *Store) URL(ctx context.Context, key string) (string, error) {
	exists, err := s.bucket.IsObjectExist(key)
	if err != nil {
		return "", errors.Wrap(err, "checking OSS object")
	}
	if !exists {
		return "", core.ErrBlobNotFound
	}
	url, err := s.bucket.SignURL(key, oss.HTTPGet, s.urlExpiry)
	if err != nil {
		return "", errors.Wrap(err, "signing OSS url")
	}
	return url, nil
}

// Delete removes the object. OSS deletes are idempotent, so existence is
// checked first to honor the missing-key contract.
func (s *Store) Delete(ctx context.Context, key string) error {
	exists, err := s.bucket.IsObjectExist(key)
	if err != nil {
		return errors.Wrap(err, "checking OSS object")
	}
	if !exists {
		return core.ErrBlobNotFound
	}
	if err := s.bucket.DeleteObject(key); err != nil {
		return errors.Wrap(err, "deleting OSS object")
	}
	return nil
}
