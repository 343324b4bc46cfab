// Package router sends each filesystem call either to the emulated object
// store or to the native filesystem, depending on the path it targets.
//
// A Router is built once at startup and handed to every consumer. Nothing
// in the process is patched globally.
package router

import (
	"context"
	"io/fs"

	"github.com/mwantia/s3fs"
	"github.com/mwantia/s3fs/bridge"
	"github.com/mwantia/s3fs/log"
	"github.com/mwantia/s3fs/telemetry"
)

// Decision is the routing outcome for a single call.
type Decision struct {
	Virtual bool
	// Key is the rewritten path passed to the virtual file system.
	Key string
}

type Router struct {
	log         *log.Logger
	recorder    *telemetry.Recorder
	virtual     s3fs.FileSystem
	native      s3fs.FileSystem
	classifiers []Classifier
}

var _ s3fs.FileSystem = (*Router)(nil)

func New(virtual, native s3fs.FileSystem, opts ...RouterOption) *Router {
	options := newDefaultRouterOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Router{
		log:         options.Logger,
		recorder:    options.Recorder,
		virtual:     virtual,
		native:      native,
		classifiers: options.Classifiers,
	}
}

// Decide classifies path; it is computed per call and never cached.
func (r *Router) Decide(path string) Decision {
	for _, classify := range r.classifiers {
		if key, ok := classify(path); ok {
			return Decision{Virtual: true, Key: key}
		}
	}

	return Decision{}
}

// Sync returns the blocking view of the router. Virtual calls run on b,
// native calls run directly on the calling goroutine.
func (r *Router) Sync(b *bridge.Bridge) *SyncRouter {
	return &SyncRouter{
		router:  r,
		virtual: s3fs.NewSync(r.virtual, b),
	}
}

// Promises returns the future based view of the router.
func (r *Router) Promises() *s3fs.PromiseFileSystem {
	return s3fs.NewPromises(r)
}

func route[T any](r *Router, op, path string, virtual, native func(string) (T, error)) (T, error) {
	decision := r.Decide(path)
	r.recorder.RecordRoute(context.Background(), op, decision.Virtual)

	if !decision.Virtual {
		return native(path)
	}

	r.log.Info("%s %s", op, decision.Key)
	return virtual(decision.Key)
}

func routeErr(r *Router, op, path string, virtual, native func(string) error) error {
	_, err := route(r, op, path,
		func(key string) (struct{}, error) { return struct{}{}, virtual(key) },
		func(path string) (struct{}, error) { return struct{}{}, native(path) },
	)
	return err
}

func (r *Router) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return route(r, "readFile", name,
		func(key string) ([]byte, error) { return r.virtual.ReadFile(ctx, key) },
		func(path string) ([]byte, error) { return r.native.ReadFile(ctx, path) },
	)
}

func (r *Router) WriteFile(ctx context.Context, name string, data []byte) error {
	return routeErr(r, "writeFile", name,
		func(key string) error { return r.virtual.WriteFile(ctx, key, data) },
		func(path string) error { return r.native.WriteFile(ctx, path, data) },
	)
}

func (r *Router) Exists(ctx context.Context, name string) (bool, error) {
	return route(r, "exists", name,
		func(key string) (bool, error) { return r.virtual.Exists(ctx, key) },
		func(path string) (bool, error) { return r.native.Exists(ctx, path) },
	)
}

func (r *Router) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	return route(r, "stat", name,
		func(key string) (fs.FileInfo, error) { return r.virtual.Stat(ctx, key) },
		func(path string) (fs.FileInfo, error) { return r.native.Stat(ctx, path) },
	)
}

func (r *Router) Mkdir(ctx context.Context, name string) error {
	return routeErr(r, "mkdir", name,
		func(key string) error { return r.virtual.Mkdir(ctx, key) },
		func(path string) error { return r.native.Mkdir(ctx, path) },
	)
}

func (r *Router) ReadDir(ctx context.Context, name string) ([]string, error) {
	return route(r, "readdir", name,
		func(key string) ([]string, error) { return r.virtual.ReadDir(ctx, key) },
		func(path string) ([]string, error) { return r.native.ReadDir(ctx, path) },
	)
}

func (r *Router) Remove(ctx context.Context, name string) error {
	return routeErr(r, "rm", name,
		func(key string) error { return r.virtual.Remove(ctx, key) },
		func(path string) error { return r.native.Remove(ctx, path) },
	)
}

func (r *Router) RemoveDir(ctx context.Context, name string) error {
	return routeErr(r, "rmdir", name,
		func(key string) error { return r.virtual.RemoveDir(ctx, key) },
		func(path string) error { return r.native.RemoveDir(ctx, path) },
	)
}

func (r *Router) Unlink(ctx context.Context, name string) error {
	return routeErr(r, "unlink", name,
		func(key string) error { return r.virtual.Unlink(ctx, key) },
		func(path string) error { return r.native.Unlink(ctx, path) },
	)
}
