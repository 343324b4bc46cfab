// Package namespace isolates several deployments sharing one store by
// keeping the keys of each below its own prefix.
package namespace

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
)

type NamespacedBackend struct {
	backend backend.ObjectStorageBackend
	// prefix always ends with the separator
	prefix string
}

var _ backend.ObjectStorageBackend = (*NamespacedBackend)(nil)

// NewNamespacedBackend stores every key of b below namespace.
// An empty namespace returns b unchanged.
func NewNamespacedBackend(b backend.ObjectStorageBackend, namespace string) backend.ObjectStorageBackend {
	namespace = strings.Trim(namespace, data.Separator)
	if namespace == "" {
		return b
	}

	return &NamespacedBackend{
		backend: b,
		prefix:  namespace + data.Separator,
	}
}

// NamespacedKey returns the key stored in the wrapped backend.
func (nb *NamespacedBackend) NamespacedKey(key string) string {
	return nb.prefix + key
}

func (nb *NamespacedBackend) Name() string {
	return fmt.Sprintf("%s[%s]", nb.backend.Name(), strings.TrimSuffix(nb.prefix, data.Separator))
}

func (nb *NamespacedBackend) Open(ctx context.Context) error {
	return nb.backend.Open(ctx)
}

func (nb *NamespacedBackend) Close(ctx context.Context) error {
	return nb.backend.Close(ctx)
}

func (nb *NamespacedBackend) GetCapabilities() *backend.Capabilities {
	return nb.backend.GetCapabilities()
}

func (nb *NamespacedBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	return nb.backend.GetObject(ctx, nb.NamespacedKey(key))
}

func (nb *NamespacedBackend) PutObject(ctx context.Context, key string, content []byte) error {
	return nb.backend.PutObject(ctx, nb.NamespacedKey(key), content)
}

func (nb *NamespacedBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	stat, err := nb.backend.HeadObject(ctx, nb.NamespacedKey(key))
	if err != nil {
		return nil, err
	}

	stat.Key = strings.TrimPrefix(stat.Key, nb.prefix)
	return stat, nil
}

func (nb *NamespacedBackend) DeleteObject(ctx context.Context, key string) error {
	return nb.backend.DeleteObject(ctx, nb.NamespacedKey(key))
}

func (nb *NamespacedBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	listing, err := nb.backend.ListObjects(ctx, nb.NamespacedKey(prefix), delimiter)
	if err != nil {
		return nil, err
	}

	result := &data.ObjectListing{
		Prefix:         prefix,
		Delimiter:      delimiter,
		CommonPrefixes: make([]string, 0, len(listing.CommonPrefixes)),
		Keys:           make([]string, 0, len(listing.Keys)),
	}

	for _, commonPrefix := range listing.CommonPrefixes {
		result.CommonPrefixes = append(result.CommonPrefixes, strings.TrimPrefix(commonPrefix, nb.prefix))
	}
	for _, key := range listing.Keys {
		result.Keys = append(result.Keys, strings.TrimPrefix(key, nb.prefix))
	}

	return result, nil
}
