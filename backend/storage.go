package backend

import (
	"context"

	"github.com/mwantia/s3fs/data"
)

// ObjectStorageBackend is a flat, key-addressed object store.
// Every method maps to exactly one request against the store.
// Absent objects are reported as errors.ErrNotExist, every other failure is
// returned unchanged.
type ObjectStorageBackend interface {
	Backend

	// GetObject returns the full content of the object stored under key.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// PutObject stores data under key, replacing any existing object.
	PutObject(ctx context.Context, key string, data []byte) error

	// HeadObject returns the metadata of the object stored under key.
	HeadObject(ctx context.Context, key string) (*data.ObjectStat, error)

	// DeleteObject removes the object stored under key.
	// Deleting an absent object is not an error.
	DeleteObject(ctx context.Context, key string) error

	// ListObjects returns all keys starting with prefix, grouped into
	// common prefixes at the first delimiter following the prefix.
	ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error)
}
