package bolt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data/errors"
	bolt "go.etcd.io/bbolt"
)

// objectsBucket holds every object; keys are sorted, so prefix listings
// are a single cursor walk.
var objectsBucket = []byte("s3fs_objects")

// BoltBackend stores objects in a single bbolt file.
// Each value is the modify time as 8 byte big-endian unix milliseconds,
// followed by the content.
type BoltBackend struct {
	mu   sync.RWMutex
	path string
	db   *bolt.DB
}

func NewBoltBackend(path string) (*BoltBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no bolt file defined", errors.ErrMountFailed)
	}

	return &BoltBackend{
		path: path,
	}, nil
}

// Name returns the identifier name defined for this backend
func (*BoltBackend) Name() string {
	return "bolt"
}

// Open is part of the lifecycle behaviour and gets called before first use.
func (bb *BoltBackend) Open(ctx context.Context) error {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	if bb.db != nil {
		return nil
	}

	// The file lock is held by a single process at a time
	db, err := bolt.Open(bb.path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrMountFailed, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(objectsBucket)
		return err
	}); err != nil {
		db.Close()
		return err
	}

	bb.db = db
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (bb *BoltBackend) Close(ctx context.Context) error {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	if bb.db == nil {
		return nil
	}

	err := bb.db.Close()
	bb.db = nil
	return err
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (bb *BoltBackend) GetCapabilities() *backend.Capabilities {
	return &backend.Capabilities{
		Capabilities: []backend.Capability{
			backend.CapabilityObjectStorage,
			backend.CapabilityPersistent,
		},
	}
}
