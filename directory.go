package s3fs

import (
	"context"
	"sync"

	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
)

// ReadDir lists the immediate children of name, folders first.
// A path without any marker and without any nested key does not exist.
func (vfs *VirtualFileSystem) ReadDir(ctx context.Context, name string) ([]string, error) {
	listing, err := vfs.list(ctx, name)
	if err != nil {
		return nil, err
	}

	if listing.Empty() {
		return nil, errors.NotExist("scandir", name)
	}

	return entries(listing), nil
}

// Remove deletes the file name. Directories are rejected with EISDIR.
func (vfs *VirtualFileSystem) Remove(ctx context.Context, name string) error {
	return vfs.removeFile(ctx, "rm", name, errors.IsDirectory)
}

// Unlink deletes the file name. Directories are rejected with EPERM.
func (vfs *VirtualFileSystem) Unlink(ctx context.Context, name string) error {
	return vfs.removeFile(ctx, "unlink", name, errors.Permission)
}

// RemoveDir deletes the marker of the empty directory name.
// A path without any marker and without any nested key does not exist.
func (vfs *VirtualFileSystem) RemoveDir(ctx context.Context, name string) error {
	if vfs.paths.IsRoot(name) {
		return errors.Permission("rmdir", name)
	}

	listing, err := vfs.list(ctx, name)
	if err != nil {
		return err
	}

	if listing.Empty() {
		return errors.NotExist("rmdir", name)
	}

	if len(entries(listing)) > 0 {
		return errors.NotEmpty("rmdir", name)
	}

	return vfs.deleteDirMarker(ctx, name)
}

// removeFile probes name as object and as directory at the same time.
// The object probe decides: an existing object is always deleted, a
// directory is only inferred when the object is known to be absent.
func (vfs *VirtualFileSystem) removeFile(ctx context.Context, op, name string, isDir func(op, path string) error) error {
	if vfs.paths.IsRoot(name) {
		return isDir(op, name)
	}

	var (
		wg      sync.WaitGroup
		statErr error
		listing *data.ObjectListing
		listErr error
	)

	wg.Go(func() {
		_, statErr = vfs.Stat(ctx, name)
	})
	wg.Go(func() {
		listing, listErr = vfs.list(ctx, name)
	})
	wg.Wait()

	if statErr == nil {
		return vfs.deleteObject(ctx, name)
	}

	if !errors.IsNotExist(statErr) {
		errs := &errors.Errors{}
		errs.Add(statErr)
		errs.Add(listErr)
		return errs.Errors()
	}

	if listErr != nil {
		return listErr
	}

	if !listing.Empty() {
		vfs.log.Debug("refusing to %s directory '%s'", op, name)
		return isDir(op, name)
	}

	return statErr
}

func (vfs *VirtualFileSystem) list(ctx context.Context, name string) (*data.ObjectListing, error) {
	return vfs.backend.ListObjects(ctx, vfs.paths.NormalizeDir(name), data.Separator)
}

// entries converts a listing into child names: folders, then files,
// without empty names or duplicates.
func entries(listing *data.ObjectListing) []string {
	seen := make(map[string]struct{}, len(listing.CommonPrefixes)+len(listing.Keys))
	names := make([]string, 0, len(listing.CommonPrefixes)+len(listing.Keys))

	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, prefix := range listing.CommonPrefixes {
		add(data.ToRelativePath(prefix, listing.Prefix))
	}
	for _, key := range listing.Keys {
		add(data.ToRelativePath(key, listing.Prefix))
	}

	return names
}
