package memory

import (
	"context"
	"strings"
	"time"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

func (mb *MemoryBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	obj, exists := mb.objects.Get(key)
	if !exists {
		return nil, errors.ErrNotExist
	}

	buffer := make([]byte, len(obj.data))
	copy(buffer, obj.data)

	return buffer, nil
}

func (mb *MemoryBackend) PutObject(ctx context.Context, key string, dat []byte) error {
	if key == "" {
		return errors.ErrInvalidPath
	}

	buffer := make([]byte, len(dat))
	copy(buffer, dat)

	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.objects.Set(key, &object{
		data:        buffer,
		contentType: data.ContentTypeOf(key),
		modifyTime:  time.Now(),
	})

	return nil
}

func (mb *MemoryBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	obj, exists := mb.objects.Get(key)
	if !exists {
		return nil, errors.ErrNotExist
	}

	return &data.ObjectStat{
		Key:         key,
		Size:        int64(len(obj.data)),
		ModifyTime:  obj.modifyTime,
		ContentType: obj.contentType,
	}, nil
}

func (mb *MemoryBackend) DeleteObject(ctx context.Context, key string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.objects.Delete(key)
	return nil
}

func (mb *MemoryBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	keys := make([]string, 0)
	mb.objects.Ascend(prefix, func(key string, _ *object) bool {
		if !strings.HasPrefix(key, prefix) {
			return false
		}

		keys = append(keys, key)
		return true
	})

	return backend.GroupKeys(prefix, delimiter, keys), nil
}
