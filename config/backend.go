package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/backend/bolt"
	"github.com/mwantia/s3fs/backend/consul"
	"github.com/mwantia/s3fs/backend/memory"
	"github.com/mwantia/s3fs/backend/namespace"
	"github.com/mwantia/s3fs/backend/postgres"
	"github.com/mwantia/s3fs/backend/readonly"
	"github.com/mwantia/s3fs/backend/s3"
	"github.com/mwantia/s3fs/backend/sqlite"
	"github.com/mwantia/s3fs/data/errors"
)

// NewBackend creates the backend named by the configured address, wrapped
// into the configured namespace and read-only mode. It is not opened yet.
func (c *Config) NewBackend(ctx context.Context) (backend.ObjectStorageBackend, error) {
	primary, err := c.newPrimaryBackend(ctx)
	if err != nil {
		return nil, err
	}

	primary = namespace.NewNamespacedBackend(primary, c.Namespace)
	if c.ReadOnly {
		primary = readonly.NewReadOnlyBackend(primary)
	}

	return primary, nil
}

func (c *Config) newPrimaryBackend(ctx context.Context) (backend.ObjectStorageBackend, error) {
	address := strings.TrimSpace(c.Backend)
	// Quick check to identify if we work with a possibly valid address
	if !strings.Contains(address, "://") {
		return nil, fmt.Errorf("failed to parse address '%s': %w", address, errors.ErrMalformedBackendAddress)
	}

	switch {
	// s3://[<endpoint>]
	case strings.HasPrefix(address, "s3://"):
		return c.newS3Backend(strings.TrimPrefix(address, "s3://"))
	case strings.HasPrefix(address, "minio://"):
		return c.newS3Backend(strings.TrimPrefix(address, "minio://"))
	case strings.HasPrefix(address, "memory://"):
		return memory.NewMemoryBackend(), nil
	// sqlite://<path>
	case strings.HasPrefix(address, "sqlite://"):
		return c.newSQLiteBackend(strings.TrimPrefix(address, "sqlite://"))
	// bolt://<path>
	case strings.HasPrefix(address, "bolt://"):
		return bolt.NewBoltBackend(strings.TrimPrefix(address, "bolt://"))
	// postgres://<user>:<password>@<address>:<port>/<database>
	case strings.HasPrefix(address, "postgres://"), strings.HasPrefix(address, "postgresql://"):
		return postgres.NewPostgresBackend(ctx, address)
	// consul://<address>:<port>[/<prefix>]
	case strings.HasPrefix(address, "consul://"):
		return c.newConsulBackend(strings.TrimPrefix(address, "consul://"))
	}

	return nil, fmt.Errorf("failed to parse address '%s': %w", address, errors.ErrUnknownBackendProtocolAddress)
}

func (c *Config) newS3Backend(endpoint string) (backend.ObjectStorageBackend, error) {
	if endpoint == "" {
		endpoint = c.S3.Endpoint
	}

	return s3.NewS3Backend(&s3.S3BackendConfig{
		Endpoint:     strings.TrimSuffix(endpoint, "/"),
		Bucket:       c.Bucket,
		Region:       c.S3.Region,
		AccessKey:    c.S3.AccessKey,
		SecretKey:    c.S3.SecretKey,
		UseSSL:       c.S3.UseSSL,
		CreateBucket: c.S3.CreateBucket,
	})
}

func (c *Config) newSQLiteBackend(path string) (backend.ObjectStorageBackend, error) {
	if path == "" {
		path = ":memory:"
	}

	return sqlite.NewSQLiteBackend(path)
}

// newConsulBackend stores all keys below the bucket unless the address
// names its own prefix.
func (c *Config) newConsulBackend(address string) (backend.ObjectStorageBackend, error) {
	address, prefix, _ := strings.Cut(address, "/")
	if prefix == "" {
		prefix = c.Bucket
	}

	return consul.NewConsulBackend(&consul.ConsulBackendConfig{
		Address: address,
		Prefix:  prefix,
	})
}
