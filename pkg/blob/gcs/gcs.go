package gcs

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/utils/safe"
)

// Storage is a Google Cloud Storage backed BlobStorage. One bucket holds
// every artifact; keys carry the session scoping.
type Storage struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.BlobStorage = &Storage{}

type Option func(*Storage)

// WithPrefix prepends a prefix to every object key
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

func New(ctx context.Context, bucket string, opts ...Option) (*Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	s := &Storage{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Storage) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.prefix + key)
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	w := s.object(key).NewWriter(ctx)

	n, err := io.Copy(w, r)
	if err != nil {
		safe.Close(ctx, w)
		return 0, goerr.Wrap(err, "failed to write object", goerr.V("key", key))
	}

	if err := w.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to finalize object", goerr.V("key", key))
	}

	return n, nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.object(key).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("key", key))
	}
	return r, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete object", goerr.V("key", key))
	}
	return nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}
