package consul

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

func (cb *ConsulBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	pair, _, err := cb.kv.Get(cb.buildKey(key), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, errors.ErrNotExist
	}

	if pair.Value == nil {
		return []byte{}, nil
	}

	return pair.Value, nil
}

func (cb *ConsulBackend) PutObject(ctx context.Context, key string, dat []byte) error {
	pair := &api.KVPair{
		Key:   cb.buildKey(key),
		Flags: uint64(time.Now().UnixMilli()),
		Value: dat,
	}

	_, err := cb.kv.Put(pair, (&api.WriteOptions{}).WithContext(ctx))
	return err
}

func (cb *ConsulBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	pair, _, err := cb.kv.Get(cb.buildKey(key), (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, errors.ErrNotExist
	}

	return &data.ObjectStat{
		Key:        key,
		Size:       int64(len(pair.Value)),
		ModifyTime: time.UnixMilli(int64(pair.Flags)),
	}, nil
}

func (cb *ConsulBackend) DeleteObject(ctx context.Context, key string) error {
	_, err := cb.kv.Delete(cb.buildKey(key), (&api.WriteOptions{}).WithContext(ctx))
	return err
}

func (cb *ConsulBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	consulKeys, _, err := cb.kv.Keys(cb.buildKey(prefix), delimiter, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(consulKeys))
	for _, consulKey := range consulKeys {
		keys = append(keys, strings.TrimPrefix(consulKey, cb.config.Prefix))
	}

	return backend.GroupKeys(prefix, delimiter, keys), nil
}
