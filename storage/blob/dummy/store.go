package dummyblob

import (
	"context"
	"strings"
	"sync"

	"github.com/mwalimu/darasa/core"
)

const urlScheme = "memblob://"

type object struct {
	data        []byte
	contentType string
}

// Store is an in-memory core.BlobStore whose URLs can be resolved back to
// the stored bytes with Fetch. Test and dev backend.
type Store struct {
	mutex   sync.RWMutex
	objects map[string]object
}

var _ core.BlobStore = (*Store)(nil) // interface compliance check

func NewStore() *Store {
	return &Store{objects: make(map[string]object)}
}

func (s *Store) Put(ctx context.Context, key, contentType string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = object{data: stored, contentType: contentType}
	return nil
}

func (s *Store) URL(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if _, ok := s.objects[key]; !ok {
		return "", core.ErrBlobNotFound
	}
	return urlScheme + key, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.objects[key]; !ok {
		return core.ErrBlobNotFound
	}
	delete(s.objects, key)
	return nil
}

// Fetch resolves a URL previously returned by URL back to the stored bytes.
func (s *Store) Fetch(url string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	obj, ok := s.objects[strings.TrimPrefix(url, urlScheme)]
	if !ok {
		return nil, core.ErrBlobNotFound
	}
	return obj.data, nil
}

// Len reports how many objects are stored.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.objects)
}
