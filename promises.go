package s3fs

import (
	"context"
	"io/fs"

	"github.com/mwantia/s3fs/bridge"
)

// PromiseFileSystem starts every operation in the background and returns
// a future resolving to its result.
type PromiseFileSystem struct {
	fs FileSystem
}

func NewPromises(fs FileSystem) *PromiseFileSystem {
	return &PromiseFileSystem{fs: fs}
}

func (p *PromiseFileSystem) ReadFile(ctx context.Context, name string) *bridge.Future[[]byte] {
	return bridge.Go(ctx, func(ctx context.Context) ([]byte, error) {
		return p.fs.ReadFile(ctx, name)
	})
}

func (p *PromiseFileSystem) WriteFile(ctx context.Context, name string, data []byte) *bridge.Future[struct{}] {
	return bridge.GoErr(ctx, func(ctx context.Context) error {
		return p.fs.WriteFile(ctx, name, data)
	})
}

func (p *PromiseFileSystem) Exists(ctx context.Context, name string) *bridge.Future[bool] {
	return bridge.Go(ctx, func(ctx context.Context) (bool, error) {
		return p.fs.Exists(ctx, name)
	})
}

func (p *PromiseFileSystem) Stat(ctx context.Context, name string) *bridge.Future[fs.FileInfo] {
	return bridge.Go(ctx, func(ctx context.Context) (fs.FileInfo, error) {
		return p.fs.Stat(ctx, name)
	})
}

func (p *PromiseFileSystem) Mkdir(ctx context.Context, name string) *bridge.Future[struct{}] {
	return bridge.GoErr(ctx, func(ctx context.Context) error {
		return p.fs.Mkdir(ctx, name)
	})
}

func (p *PromiseFileSystem) ReadDir(ctx context.Context, name string) *bridge.Future[[]string] {
	return bridge.Go(ctx, func(ctx context.Context) ([]string, error) {
		return p.fs.ReadDir(ctx, name)
	})
}

func (p *PromiseFileSystem) Remove(ctx context.Context, name string) *bridge.Future[struct{}] {
	return bridge.GoErr(ctx, func(ctx context.Context) error {
		return p.fs.Remove(ctx, name)
	})
}

func (p *PromiseFileSystem) RemoveDir(ctx context.Context, name string) *bridge.Future[struct{}] {
	return bridge.GoErr(ctx, func(ctx context.Context) error {
		return p.fs.RemoveDir(ctx, name)
	})
}

func (p *PromiseFileSystem) Unlink(ctx context.Context, name string) *bridge.Future[struct{}] {
	return bridge.GoErr(ctx, func(ctx context.Context) error {
		return p.fs.Unlink(ctx, name)
	})
}
