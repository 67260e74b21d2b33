package minio

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
)

// Config carries the connection parameters of a MinIO (or any S3
// compatible) endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Storage is a MinIO backed BlobStorage. The bucket is created on
// startup when it does not exist.
type Storage struct {
	client *minio.Client
	bucket string
}

var _ interfaces.BlobStorage = &Storage{}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create minio client", goerr.V("endpoint", cfg.Endpoint))
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check bucket", goerr.V("bucket", cfg.Bucket))
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, goerr.Wrap(err, "failed to create bucket", goerr.V("bucket", cfg.Bucket))
		}
	}

	return &Storage{client: client, bucket: cfg.Bucket}, nil
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	// size -1 streams with multipart upload
	info, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to put object", goerr.V("key", key))
	}
	return info.Size, nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("key", key))
	}

	// GetObject is lazy; surface a missing key now rather than on first read
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, goerr.Wrap(err, "failed to stat object", goerr.V("key", key))
	}

	return obj, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	// RemoveObject on a missing key is a no-op, which resumable cascades rely on
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return goerr.Wrap(err, "failed to delete object", goerr.V("key", key))
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}
