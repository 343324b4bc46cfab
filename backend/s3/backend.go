package s3

import (
	"context"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data/errors"
)

// S3Backend stores objects in a single bucket of an S3 compatible service.
type S3Backend struct {
	client *minio.Client
	config *S3BackendConfig
}

// S3BackendConfig contains configuration options for the S3 backend
type S3BackendConfig struct {
	// Endpoint of the service without scheme (default: "s3.amazonaws.com")
	Endpoint string
	// Bucket all objects are stored in (required)
	Bucket string
	// Region of the bucket (default: "us-east-1")
	Region string

	// Static credentials; when empty the environment, the shared
	// credentials file and the instance role are tried in that order.
	AccessKey    string
	SecretKey    string
	SessionToken string

	UseSSL bool
	// CreateBucket creates a missing bucket on Open instead of failing.
	CreateBucket bool
}

func NewS3Backend(config *S3BackendConfig) (*S3Backend, error) {
	if config == nil || config.Bucket == "" {
		return nil, fmt.Errorf("%w: no bucket defined", errors.ErrMountFailed)
	}

	if config.Endpoint == "" {
		config.Endpoint = "s3.amazonaws.com"
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var creds *credentials.Credentials
	if config.AccessKey != "" {
		creds = credentials.NewStaticV4(config.AccessKey, config.SecretKey, config.SessionToken)
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{
				Client: &http.Client{
					Transport: http.DefaultTransport,
				},
			},
		})
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, err
	}

	return &S3Backend{
		client: client,
		config: config,
	}, nil
}

// Name returns the identifier name defined for this backend
func (*S3Backend) Name() string {
	return "s3"
}

// Open verifies that the configured bucket is reachable.
func (sb *S3Backend) Open(ctx context.Context) error {
	exists, err := sb.client.BucketExists(ctx, sb.config.Bucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	if !sb.config.CreateBucket {
		return fmt.Errorf("%w: bucket '%s' does not exist", errors.ErrMountFailed, sb.config.Bucket)
	}

	return sb.client.MakeBucket(ctx, sb.config.Bucket, minio.MakeBucketOptions{
		Region: sb.config.Region,
	})
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *S3Backend) Close(ctx context.Context) error {
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *S3Backend) GetCapabilities() *backend.Capabilities {
	return &backend.Capabilities{
		Capabilities: []backend.Capability{
			backend.CapabilityObjectStorage,
			backend.CapabilityDelimiter,
			backend.CapabilityPersistent,
			backend.CapabilityContentType,
		},
	}
}
