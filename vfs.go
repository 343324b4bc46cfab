// Package s3fs emulates a hierarchical filesystem on top of a flat object store.
//
// Files are objects stored under their normalized path. Directories exist
// implicitly as soon as any key shares their prefix; an otherwise empty
// directory is represented by a zero-length marker object whose key ends in
// a trailing "/". Mkdir writes that marker and RemoveDir deletes it, nothing
// else creates or removes markers.
package s3fs

import (
	"context"
	"fmt"

	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/log"
)

// VirtualFileSystem serves FileSystem from an object storage backend.
type VirtualFileSystem struct {
	log     *log.Logger
	paths   *data.PathNormalizer
	backend backend.ObjectStorageBackend
	caps    *backend.Capabilities
}

var _ FileSystem = (*VirtualFileSystem)(nil)

// New opens the backend and returns the emulation on top of it.
func New(ctx context.Context, primary backend.ObjectStorageBackend, opts ...VirtualFileSystemOption) (*VirtualFileSystem, error) {
	options := newDefaultVirtualFileSystemOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	paths, err := data.NewPathNormalizer(options.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("failed to use work dir '%s': %w", options.WorkDir, err)
	}

	if err := primary.Open(ctx); err != nil {
		return nil, fmt.Errorf("failed to open backend '%s': %w", primary.Name(), err)
	}

	caps := primary.GetCapabilities()
	if !caps.Contains(backend.CapabilityObjectStorage) {
		primary.Close(ctx)
		return nil, fmt.Errorf("backend '%s' does not provide object storage", primary.Name())
	}

	options.Logger.Debug("opened backend '%s' with capabilities %v", primary.Name(), caps.Capabilities)

	return &VirtualFileSystem{
		log:     options.Logger,
		paths:   paths,
		backend: primary,
		caps:    caps,
	}, nil
}

// Close closes the underlying backend.
func (vfs *VirtualFileSystem) Close(ctx context.Context) error {
	return vfs.backend.Close(ctx)
}
