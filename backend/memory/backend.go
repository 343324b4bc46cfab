package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mwantia/s3fs/backend"
	"github.com/tidwall/btree"
)

// MemoryBackend keeps all objects in an ordered B-tree, so prefix listings
// are a single ascending scan. Nothing survives a restart.
type MemoryBackend struct {
	mu sync.RWMutex

	objects *btree.Map[string, *object]
}

type object struct {
	data        []byte
	contentType string
	modifyTime  time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		objects: btree.NewMap[string, *object](0),
	}
}

// Name returns the identifier name defined for this backend
func (*MemoryBackend) Name() string {
	return "memory"
}

// Open is part of the lifecycle behaviour and gets called before first use.
func (mb *MemoryBackend) Open(ctx context.Context) error {
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (mb *MemoryBackend) Close(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.objects.Clear()
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (mb *MemoryBackend) GetCapabilities() *backend.Capabilities {
	return &backend.Capabilities{
		Capabilities: []backend.Capability{
			backend.CapabilityObjectStorage,
			backend.CapabilityContentType,
		},
	}
}
