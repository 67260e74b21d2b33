package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/volutil-lab/volutil/pkg/blob/gcs"
	blobmemory "github.com/volutil-lab/volutil/pkg/blob/memory"
	blobminio "github.com/volutil-lab/volutil/pkg/blob/minio"
	"github.com/volutil-lab/volutil/pkg/domain/interfaces"
	"github.com/volutil-lab/volutil/pkg/utils/logging"
)

// Blob holds CLI flags for artifact blob storage configuration
type Blob struct {
	backend string

	gcsBucket string

	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string `masq:"secret"`
	minioBucket    string
	minioRegion    string
	minioSSL       bool
}

// Flags returns CLI flags for blob storage configuration
func (b *Blob) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "blob-backend",
			Usage:       "Blob storage backend for extracted artifacts (gcs, minio or memory)",
			Value:       "gcs",
			Sources:     cli.EnvVars("VOLUTIL_BLOB_BACKEND"),
			Destination: &b.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket name (required when using gcs backend)",
			Sources:     cli.EnvVars("VOLUTIL_GCS_BUCKET"),
			Destination: &b.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "minio-endpoint",
			Usage:       "MinIO endpoint, host:port (required when using minio backend)",
			Sources:     cli.EnvVars("VOLUTIL_MINIO_ENDPOINT"),
			Destination: &b.minioEndpoint,
		},
		&cli.StringFlag{
			Name:        "minio-access-key",
			Usage:       "MinIO access key",
			Sources:     cli.EnvVars("VOLUTIL_MINIO_ACCESS_KEY"),
			Destination: &b.minioAccessKey,
		},
		&cli.StringFlag{
			Name:        "minio-secret-key",
			Usage:       "MinIO secret key",
			Sources:     cli.EnvVars("VOLUTIL_MINIO_SECRET_KEY"),
			Destination: &b.minioSecretKey,
		},
		&cli.StringFlag{
			Name:        "minio-bucket",
			Usage:       "MinIO bucket name",
			Value:       "volutil-artifacts",
			Sources:     cli.EnvVars("VOLUTIL_MINIO_BUCKET"),
			Destination: &b.minioBucket,
		},
		&cli.StringFlag{
			Name:        "minio-region",
			Usage:       "MinIO region",
			Sources:     cli.EnvVars("VOLUTIL_MINIO_REGION"),
			Destination: &b.minioRegion,
		},
		&cli.BoolFlag{
			Name:        "minio-ssl",
			Usage:       "Use TLS for MinIO connections",
			Sources:     cli.EnvVars("VOLUTIL_MINIO_SSL"),
			Destination: &b.minioSSL,
		},
	}
}

// Configure initializes and returns blob storage based on the configured
// backend. The caller is responsible for calling Close().
func (b *Blob) Configure(ctx context.Context) (interfaces.BlobStorage, error) {
	switch b.backend {
	case "gcs":
		if b.gcsBucket == "" {
			return nil, goerr.New("gcs-bucket is required when using gcs backend")
		}
		storage, err := gcs.New(ctx, b.gcsBucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs blob storage")
		}
		logging.Default().Info("Using Cloud Storage blob backend", "bucket", b.gcsBucket)
		return storage, nil

	case "minio":
		if b.minioEndpoint == "" {
			return nil, goerr.New("minio-endpoint is required when using minio backend")
		}
		storage, err := blobminio.New(ctx, blobminio.Config{
			Endpoint:  b.minioEndpoint,
			AccessKey: b.minioAccessKey,
			SecretKey: b.minioSecretKey,
			Bucket:    b.minioBucket,
			Region:    b.minioRegion,
			UseSSL:    b.minioSSL,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize minio blob storage")
		}
		logging.Default().Info("Using MinIO blob backend",
			"endpoint", b.minioEndpoint,
			"bucket", b.minioBucket,
		)
		return storage, nil

	case "memory":
		logging.Default().Info("Using in-memory blob backend (development mode)")
		return blobmemory.New(), nil

	default:
		return nil, goerr.New("invalid blob backend", goerr.V("backend", b.backend))
	}
}
