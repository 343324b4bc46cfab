package s3fs

import (
	"context"
	"io/fs"

	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

// ReadFile downloads the whole object stored for name.
func (vfs *VirtualFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	key := vfs.paths.NormalizeFile(name)

	content, err := vfs.backend.GetObject(ctx, key)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, errors.NotExist("open", name)
		}
		return nil, err
	}

	return content, nil
}

// WriteFile uploads data for name, replacing any existing object.
func (vfs *VirtualFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	if !vfs.caps.Allows(int64(len(data))) {
		return errors.TooLarge("write", name)
	}

	key := vfs.paths.NormalizeFile(name)
	return vfs.backend.PutObject(ctx, key, data)
}

// Exists reports whether an object is stored for name.
// Directories only made of a marker or of nested keys are not reported.
func (vfs *VirtualFileSystem) Exists(ctx context.Context, name string) (bool, error) {
	key := vfs.paths.NormalizeFile(name)
	if key == "" {
		return true, nil
	}

	stat, err := vfs.backend.HeadObject(ctx, key)
	if err != nil {
		if errors.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return !stat.ModifyTime.IsZero(), nil
}

func (vfs *VirtualFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	key := vfs.paths.NormalizeFile(name)
	if key == "" {
		return data.NewRootInfo(), nil
	}

	stat, err := vfs.backend.HeadObject(ctx, key)
	if err != nil {
		if errors.IsNotExist(err) {
			return nil, errors.NotExist("stat", name)
		}
		return nil, err
	}

	return data.NewFileInfo(data.Separator+key, stat), nil
}

// Mkdir writes the zero-length marker of the directory name.
// Parents are implicit and never created.
func (vfs *VirtualFileSystem) Mkdir(ctx context.Context, name string) error {
	key := vfs.paths.NormalizeDir(name)
	if key == "" {
		return errors.Exist("mkdir", name)
	}

	return vfs.backend.PutObject(ctx, key, []byte{})
}

func (vfs *VirtualFileSystem) deleteObject(ctx context.Context, name string) error {
	return vfs.backend.DeleteObject(ctx, vfs.paths.NormalizeFile(name))
}

func (vfs *VirtualFileSystem) deleteDirMarker(ctx context.Context, name string) error {
	return vfs.backend.DeleteObject(ctx, vfs.paths.NormalizeDir(name))
}
