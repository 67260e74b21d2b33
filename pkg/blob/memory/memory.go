package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
)

// ErrObjectNotFound is returned when an object does not exist
var ErrObjectNotFound = goerr.New("object not found")

// Storage is an in-memory BlobStorage for development and testing
type Storage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.BlobStorage = &Storage{}

func New() *Storage {
	return &Storage{
		objects: make(map[string][]byte),
	}
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read object payload", goerr.V("key", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return int64(len(data)), nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return nil, goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("key", key))
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *Storage) Close() error {
	return nil
}
