package s3fs

import (
	"context"
	"io/fs"
)

// FileSystem is the set of filesystem entry points served either by the
// object store emulation or by the native filesystem.
// Every method blocks the calling goroutine until the operation settled.
type FileSystem interface {
	// ReadFile returns the whole content of the file at name.
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// WriteFile replaces the content of the file at name.
	WriteFile(ctx context.Context, name string, data []byte) error

	// Exists reports whether a file exists at name.
	Exists(ctx context.Context, name string) (bool, error)

	// Stat returns the metadata of the file at name.
	Stat(ctx context.Context, name string) (fs.FileInfo, error)

	// Mkdir creates the directory at name.
	Mkdir(ctx context.Context, name string) error

	// ReadDir returns the names of all immediate children of the directory at name.
	ReadDir(ctx context.Context, name string) ([]string, error)

	// Remove deletes the file at name; directories are rejected.
	Remove(ctx context.Context, name string) error

	// RemoveDir deletes the empty directory at name.
	RemoveDir(ctx context.Context, name string) error

	// Unlink deletes the non-directory entry at name.
	Unlink(ctx context.Context, name string) error
}
