package s3fs

import "github.com/mwantia/s3fs/log"

type VirtualFileSystemOptions struct {
	Logger  *log.Logger
	WorkDir string
}

type VirtualFileSystemOption func(*VirtualFileSystemOptions) error

func newDefaultVirtualFileSystemOptions() *VirtualFileSystemOptions {
	return &VirtualFileSystemOptions{
		Logger:  log.Discard(),
		WorkDir: "/",
	}
}

func WithLogger(logger *log.Logger) VirtualFileSystemOption {
	return func(opts *VirtualFileSystemOptions) error {
		if logger != nil {
			opts.Logger = logger
		}
		return nil
	}
}

// WithWorkDir sets the virtual working directory relative paths are resolved against.
func WithWorkDir(workDir string) VirtualFileSystemOption {
	return func(opts *VirtualFileSystemOptions) error {
		opts.WorkDir = workDir
		return nil
	}
}
