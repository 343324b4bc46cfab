package router

import (
	"context"
	"io/fs"

	"github.com/mwantia/s3fs"
)

// SyncRouter routes blocking calls the same way Router routes context calls.
type SyncRouter struct {
	router  *Router
	virtual *s3fs.SyncFileSystem
}

func (s *SyncRouter) native() s3fs.FileSystem {
	return s.router.native
}

func (s *SyncRouter) ReadFile(name string) ([]byte, error) {
	return route(s.router, "readFileSync", name, s.virtual.ReadFile,
		func(path string) ([]byte, error) { return s.native().ReadFile(context.Background(), path) },
	)
}

func (s *SyncRouter) WriteFile(name string, data []byte) error {
	return routeErr(s.router, "writeFileSync", name,
		func(key string) error { return s.virtual.WriteFile(key, data) },
		func(path string) error { return s.native().WriteFile(context.Background(), path, data) },
	)
}

func (s *SyncRouter) Exists(name string) (bool, error) {
	return route(s.router, "existsSync", name, s.virtual.Exists,
		func(path string) (bool, error) { return s.native().Exists(context.Background(), path) },
	)
}

func (s *SyncRouter) Stat(name string) (fs.FileInfo, error) {
	return route(s.router, "statSync", name, s.virtual.Stat,
		func(path string) (fs.FileInfo, error) { return s.native().Stat(context.Background(), path) },
	)
}

func (s *SyncRouter) Mkdir(name string) error {
	return routeErr(s.router, "mkdirSync", name, s.virtual.Mkdir,
		func(path string) error { return s.native().Mkdir(context.Background(), path) },
	)
}

func (s *SyncRouter) ReadDir(name string) ([]string, error) {
	return route(s.router, "readdirSync", name, s.virtual.ReadDir,
		func(path string) ([]string, error) { return s.native().ReadDir(context.Background(), path) },
	)
}

func (s *SyncRouter) Remove(name string) error {
	return routeErr(s.router, "rmSync", name, s.virtual.Remove,
		func(path string) error { return s.native().Remove(context.Background(), path) },
	)
}

func (s *SyncRouter) RemoveDir(name string) error {
	return routeErr(s.router, "rmdirSync", name, s.virtual.RemoveDir,
		func(path string) error { return s.native().RemoveDir(context.Background(), path) },
	)
}

func (s *SyncRouter) Unlink(name string) error {
	return routeErr(s.router, "unlinkSync", name, s.virtual.Unlink,
		func(path string) error { return s.native().Unlink(context.Background(), path) },
	)
}
