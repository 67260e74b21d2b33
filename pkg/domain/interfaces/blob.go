package interfaces

import (
	"context"
	"io"
)

// BlobStorage stores raw artifact payloads. Implementations stream bytes
// end to end; callers must never need the payload in memory at once.
type BlobStorage interface {
	// Put streams r into the object at key and returns the byte count
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader over the object at key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing object is not
	// an error; the cascade coordinator relies on that for resumability.
	Delete(ctx context.Context, key string) error

	Close() error
}
