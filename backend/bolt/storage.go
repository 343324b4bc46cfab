package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"time"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
	bolt "go.etcd.io/bbolt"
)

const headerSize = 8

func encode(content []byte, modifyTime time.Time) []byte {
	value := make([]byte, headerSize+len(content))
	binary.BigEndian.PutUint64(value, uint64(modifyTime.UnixMilli()))
	copy(value[headerSize:], content)

	return value
}

func decodeTime(value []byte) time.Time {
	return time.UnixMilli(int64(binary.BigEndian.Uint64(value[:headerSize])))
}

func (bb *BoltBackend) view(ctx context.Context, fn func(*bolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bb.mu.RLock()
	defer bb.mu.RUnlock()

	if bb.db == nil {
		return errors.ErrMountFailed
	}

	return bb.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(objectsBucket))
	})
}

func (bb *BoltBackend) update(ctx context.Context, fn func(*bolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bb.mu.RLock()
	defer bb.mu.RUnlock()

	if bb.db == nil {
		return errors.ErrMountFailed
	}

	return bb.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(objectsBucket))
	})
}

func (bb *BoltBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := bb.view(ctx, func(b *bolt.Bucket) error {
		value := b.Get([]byte(key))
		if value == nil {
			return errors.ErrNotExist
		}

		// Values are only valid for the lifetime of the transaction
		content = make([]byte, len(value)-headerSize)
		copy(content, value[headerSize:])
		return nil
	})

	return content, err
}

func (bb *BoltBackend) PutObject(ctx context.Context, key string, content []byte) error {
	if key == "" {
		return errors.ErrInvalidPath
	}

	return bb.update(ctx, func(b *bolt.Bucket) error {
		return b.Put([]byte(key), encode(content, time.Now()))
	})
}

func (bb *BoltBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	var stat *data.ObjectStat
	err := bb.view(ctx, func(b *bolt.Bucket) error {
		value := b.Get([]byte(key))
		if value == nil {
			return errors.ErrNotExist
		}

		stat = &data.ObjectStat{
			Key:         key,
			Size:        int64(len(value) - headerSize),
			ModifyTime:  decodeTime(value),
			ContentType: data.ContentTypeOf(key),
		}
		return nil
	})

	return stat, err
}

func (bb *BoltBackend) DeleteObject(ctx context.Context, key string) error {
	return bb.update(ctx, func(b *bolt.Bucket) error {
		return b.Delete([]byte(key))
	})
}

func (bb *BoltBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	keys := make([]string, 0)
	err := bb.view(ctx, func(b *bolt.Bucket) error {
		p := []byte(prefix)
		c := b.Cursor()

		for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return backend.GroupKeys(prefix, delimiter, keys), nil
}
