package s3fs

import (
	"context"
	"io/fs"

	"github.com/mwantia/s3fs/bridge"
)

// SyncFileSystem exposes a FileSystem to call sites that cannot pass a
// context. Every call blocks for at most the timeout of the bridge.
type SyncFileSystem struct {
	fs     FileSystem
	bridge *bridge.Bridge
}

func NewSync(fs FileSystem, b *bridge.Bridge) *SyncFileSystem {
	return &SyncFileSystem{
		fs:     fs,
		bridge: b,
	}
}

func (s *SyncFileSystem) ReadFile(name string) ([]byte, error) {
	return bridge.Call(s.bridge, "readFileSync", func(ctx context.Context) ([]byte, error) {
		return s.fs.ReadFile(ctx, name)
	})
}

func (s *SyncFileSystem) WriteFile(name string, data []byte) error {
	return bridge.Do(s.bridge, "writeFileSync", func(ctx context.Context) error {
		return s.fs.WriteFile(ctx, name, data)
	})
}

func (s *SyncFileSystem) Exists(name string) (bool, error) {
	return bridge.Call(s.bridge, "existsSync", func(ctx context.Context) (bool, error) {
		return s.fs.Exists(ctx, name)
	})
}

func (s *SyncFileSystem) Stat(name string) (fs.FileInfo, error) {
	return bridge.Call(s.bridge, "statSync", func(ctx context.Context) (fs.FileInfo, error) {
		return s.fs.Stat(ctx, name)
	})
}

func (s *SyncFileSystem) Mkdir(name string) error {
	return bridge.Do(s.bridge, "mkdirSync", func(ctx context.Context) error {
		return s.fs.Mkdir(ctx, name)
	})
}

func (s *SyncFileSystem) ReadDir(name string) ([]string, error) {
	return bridge.Call(s.bridge, "readdirSync", func(ctx context.Context) ([]string, error) {
		return s.fs.ReadDir(ctx, name)
	})
}

func (s *SyncFileSystem) Remove(name string) error {
	return bridge.Do(s.bridge, "rmSync", func(ctx context.Context) error {
		return s.fs.Remove(ctx, name)
	})
}

func (s *SyncFileSystem) RemoveDir(name string) error {
	return bridge.Do(s.bridge, "rmdirSync", func(ctx context.Context) error {
		return s.fs.RemoveDir(ctx, name)
	})
}

func (s *SyncFileSystem) Unlink(name string) error {
	return bridge.Do(s.bridge, "unlinkSync", func(ctx context.Context) error {
		return s.fs.Unlink(ctx, name)
	})
}
