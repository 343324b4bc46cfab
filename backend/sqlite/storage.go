package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

func (sb *SQLiteBackend) GetObject(ctx context.Context, key string) ([]byte, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var content []byte
	err := sb.db.QueryRowContext(ctx, `SELECT content FROM s3fs_objects WHERE key = ?`, key).Scan(&content)
	if stderrors.Is(err, sql.ErrNoRows) {
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

func (sb *SQLiteBackend) PutObject(ctx context.Context, key string, dat []byte) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if dat == nil {
		dat = []byte{}
	}

	_, err := sb.db.ExecContext(ctx, `
		INSERT INTO s3fs_objects (key, content, size, content_type, modify_time)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			content = excluded.content,
			size = excluded.size,
			content_type = excluded.content_type,
			modify_time = excluded.modify_time
	`, key, dat, len(dat), data.ContentTypeOf(key), time.Now().UnixMilli())

	return err
}

func (sb *SQLiteBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var size, modifyTime int64
	var contentType sql.NullString

	err := sb.db.QueryRowContext(ctx, `
		SELECT size, content_type, modify_time FROM s3fs_objects WHERE key = ?
	`, key).Scan(&size, &contentType, &modifyTime)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	return &data.ObjectStat{
		Key:         key,
		Size:        size,
		ModifyTime:  time.UnixMilli(modifyTime),
		ContentType: contentType.String,
	}, nil
}

func (sb *SQLiteBackend) DeleteObject(ctx context.Context, key string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	_, err := sb.db.ExecContext(ctx, `DELETE FROM s3fs_objects WHERE key = ?`, key)
	return err
}

func (sb *SQLiteBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	rows, err := sb.db.QueryContext(ctx, `SELECT key FROM s3fs_objects WHERE key >= ? ORDER BY key`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}

		// Keys are ordered, the first mismatch ends the prefix range
		if !strings.HasPrefix(key, prefix) {
			break
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return backend.GroupKeys(prefix, delimiter, keys), nil
}
