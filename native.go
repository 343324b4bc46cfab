package s3fs

import (
	"context"
	"io/fs"

	"github.com/mwantia/s3fs/data/errors"
	"github.com/spf13/afero"
)

const (
	defaultFileMode fs.FileMode = 0o644
	defaultDirMode  fs.FileMode = 0o755
)

// NativeFileSystem serves FileSystem from a real filesystem.
// Errors are returned as reported by afero.
type NativeFileSystem struct {
	fs afero.Fs
}

var _ FileSystem = (*NativeFileSystem)(nil)

// NewNative wraps fs, falling back to the operating system filesystem.
func NewNative(fs afero.Fs) *NativeFileSystem {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &NativeFileSystem{fs: fs}
}

func (n *NativeFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return afero.ReadFile(n.fs, name)
}

func (n *NativeFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return afero.WriteFile(n.fs, name, data, defaultFileMode)
}

func (n *NativeFileSystem) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return afero.Exists(n.fs, name)
}

func (n *NativeFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return n.fs.Stat(name)
}

func (n *NativeFileSystem) Mkdir(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return n.fs.Mkdir(name, defaultDirMode)
}

func (n *NativeFileSystem) ReadDir(ctx context.Context, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(n.fs, name)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}

	return names, nil
}

func (n *NativeFileSystem) Remove(ctx context.Context, name string) error {
	return n.removeFile(ctx, name, errors.IsDirectory("rm", name))
}

func (n *NativeFileSystem) Unlink(ctx context.Context, name string) error {
	return n.removeFile(ctx, name, errors.Permission("unlink", name))
}

func (n *NativeFileSystem) RemoveDir(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// afero.IsEmpty reports a missing path without wrapping fs.ErrNotExist
	if _, err := n.fs.Stat(name); err != nil {
		return err
	}

	empty, err := afero.IsEmpty(n.fs, name)
	if err != nil {
		return err
	}
	if !empty {
		return errors.NotEmpty("rmdir", name)
	}

	return n.fs.Remove(name)
}

func (n *NativeFileSystem) removeFile(ctx context.Context, name string, dirErr error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := n.fs.Stat(name)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return dirErr
	}

	return n.fs.Remove(name)
}
