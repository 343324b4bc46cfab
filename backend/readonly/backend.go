// Package readonly wraps an object storage backend so that nothing can be
// written or deleted through it.
package readonly

import (
	"context"
	"fmt"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

// ReadOnlyBackend passes all reads through to the wrapped backend.
// All write operations return errors.ErrReadOnly.
type ReadOnlyBackend struct {
	backend backend.ObjectStorageBackend
}

var _ backend.ObjectStorageBackend = (*ReadOnlyBackend)(nil)

func NewReadOnlyBackend(b backend.ObjectStorageBackend) *ReadOnlyBackend {
	return &ReadOnlyBackend{
		backend: b,
	}
}

func (rob *ReadOnlyBackend) Name() string {
	return fmt.Sprintf("readonly(%s)", rob.backend.Name())
}

func (rob *ReadOnlyBackend) Open(ctx context.Context) error {
	return rob.backend.Open(ctx)
}

func (rob *ReadOnlyBackend) Close(ctx context.Context) error {
	return rob.backend.Close(ctx)
}

func (rob *ReadOnlyBackend) GetCapabilities() *backend.Capabilities {
	return rob.backend.GetCapabilities()
}

func (rob *ReadOnlyBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	return rob.backend.GetObject(ctx, key)
}

func (rob *ReadOnlyBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	return rob.backend.HeadObject(ctx, key)
}

func (rob *ReadOnlyBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	return rob.backend.ListObjects(ctx, prefix, delimiter)
}

func (rob *ReadOnlyBackend) PutObject(ctx context.Context, key string, content []byte) error {
	return fmt.Errorf("put '%s': %w", key, errors.ErrReadOnly)
}

func (rob *ReadOnlyBackend) DeleteObject(ctx context.Context, key string) error {
	return fmt.Errorf("delete '%s': %w", key, errors.ErrReadOnly)
}
