package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

func (sb *S3Backend) GetObject(ctx context.Context, key string) ([]byte, error) {
	object, err := sb.client.GetObject(ctx, sb.config.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, toBackendError(err)
	}
	defer object.Close()

	// The request is only sent on first read
	buffer, err := io.ReadAll(object)
	if err != nil {
		return nil, toBackendError(err)
	}

	return buffer, nil
}

func (sb *S3Backend) PutObject(ctx context.Context, key string, dat []byte) error {
	_, err := sb.client.PutObject(ctx, sb.config.Bucket, key, bytes.NewReader(dat), int64(len(dat)), minio.PutObjectOptions{
		ContentType: data.ContentTypeOf(key),
	})

	return toBackendError(err)
}

func (sb *S3Backend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	objInfo, err := sb.client.StatObject(ctx, sb.config.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, toBackendError(err)
	}

	return &data.ObjectStat{
		Key:         key,
		Size:        objInfo.Size,
		ModifyTime:  objInfo.LastModified,
		ContentType: objInfo.ContentType,
		ETag:        objInfo.ETag,
	}, nil
}

func (sb *S3Backend) DeleteObject(ctx context.Context, key string) error {
	return toBackendError(sb.client.RemoveObject(ctx, sb.config.Bucket, key, minio.RemoveObjectOptions{}))
}

func (sb *S3Backend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	// minio only groups by "/", any other delimiter is grouped client side
	objectsCh := sb.client.ListObjects(ctx, sb.config.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: delimiter != data.Separator,
	})

	keys := make([]string, 0)
	for object := range objectsCh {
		if object.Err != nil {
			return nil, toBackendError(object.Err)
		}

		keys = append(keys, object.Key)
	}

	return backend.GroupKeys(prefix, delimiter, keys), nil
}

// toBackendError turns the store's "absent object" responses into errors.ErrNotExist.
func toBackendError(err error) error {
	if err == nil {
		return nil
	}

	errResponse := minio.ToErrorResponse(err)
	switch errResponse.Code {
	case "NoSuchKey", "NotFound":
		return errors.ErrNotExist
	case "NoSuchBucket":
		return err
	}

	if errResponse.StatusCode == http.StatusNotFound {
		return errors.ErrNotExist
	}

	return err
}
