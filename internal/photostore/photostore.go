package photostore

import (
	"context"
	"fmt"
	"io"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
)

// Store keeps the photo binaries. Photo metadata lives in the database,
// only the image bytes go through here.
type Store interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string, dst io.Writer) error
	Stat(ctx context.Context, key string) error
	Type() string
}

// NewStore builds the photo store selected by the configuration.
func NewStore(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "minio", "s3":
		return NewMinioStore(
			WithEndpoint(cfg.Endpoint),
			WithBucket(cfg.Bucket),
			WithAccessKey(cfg.AccessKey),
			WithSecretKey(cfg.SecretAccessKey),
			WithSSL(cfg.UseSSL),
		)
	case "local":
		return NewLocalStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
