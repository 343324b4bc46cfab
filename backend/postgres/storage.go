package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

func (pb *PostgresBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	var content []byte
	err := pb.pool.QueryRow(ctx, `SELECT content FROM s3fs_objects WHERE key = $1`, key).Scan(&content)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	if content == nil {
		content = []byte{}
	}

	return content, nil
}

func (pb *PostgresBackend) PutObject(ctx context.Context, key string, dat []byte) error {
	if dat == nil {
		dat = []byte{}
	}

	_, err := pb.pool.Exec(ctx, `
		INSERT INTO s3fs_objects (key, content, size, content_type, modify_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			content = EXCLUDED.content,
			size = EXCLUDED.size,
			content_type = EXCLUDED.content_type,
			modify_time = EXCLUDED.modify_time
	`, key, dat, int64(len(dat)), data.ContentTypeOf(key), time.Now().UnixMilli())

	return err
}

func (pb *PostgresBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	var size, modifyTime int64
	var contentType *string

	err := pb.pool.QueryRow(ctx, `
		SELECT size, content_type, modify_time FROM s3fs_objects WHERE key = $1
	`, key).Scan(&size, &contentType, &modifyTime)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	stat := &data.ObjectStat{
		Key:        key,
		Size:       size,
		ModifyTime: time.UnixMilli(modifyTime),
	}
	if contentType != nil {
		stat.ContentType = *contentType
	}

	return stat, nil
}

func (pb *PostgresBackend) DeleteObject(ctx context.Context, key string) error {
	_, err := pb.pool.Exec(ctx, `DELETE FROM s3fs_objects WHERE key = $1`, key)
	return err
}

func (pb *PostgresBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	rows, err := pb.pool.Query(ctx, `
		SELECT key FROM s3fs_objects WHERE starts_with(key, $1) ORDER BY key
	`, prefix)
	if err != nil {
		return nil, err
	}

	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	return backend.GroupKeys(prefix, delimiter, keys), nil
}
