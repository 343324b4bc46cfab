package s3fs_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/mwantia/s3fs"
	"github.com/mwantia/s3fs/backend"
	"github.com/mwantia/s3fs/backend/memory"
	"github.com/mwantia/s3fs/backend/s3"
	"github.com/mwantia/s3fs/backend/sqlite"
	"github.com/mwantia/s3fs/bridge"
	"github.com/mwantia/s3fs/data"
	"github.com/mwantia/s3fs/data/errors"
	"github.com/spf13/afero"
)

type TestBackendFactory func(tst *testing.T) (backend.ObjectStorageBackend, error)

func GetTestBackendFactories() map[string]TestBackendFactory {
	return map[string]TestBackendFactory{
		"memory": func(tst *testing.T) (backend.ObjectStorageBackend, error) {
			return memory.NewMemoryBackend(), nil
		},
		"sqlite": func(tst *testing.T) (backend.ObjectStorageBackend, error) {
			return sqlite.NewSQLiteBackend(":memory:")
		},
		"s3": func(tst *testing.T) (backend.ObjectStorageBackend, error) {
			faker := gofakes3.New(s3mem.New())
			server := httptest.NewServer(faker.Server())
			tst.Cleanup(server.Close)

			return s3.NewS3Backend(&s3.S3BackendConfig{
				Endpoint:     strings.TrimPrefix(server.URL, "http://"),
				Bucket:       "cache-bucket",
				AccessKey:    "access",
				SecretKey:    "secret",
				CreateBucket: true,
			})
		},
	}
}

func newTestFileSystem(tst *testing.T, factory TestBackendFactory, opts ...s3fs.VirtualFileSystemOption) *s3fs.VirtualFileSystem {
	b, err := factory(tst)
	if err != nil {
		tst.Fatalf("Backend init failed: %v", err)
	}

	vfs, err := s3fs.New(tst.Context(), b, opts...)
	if err != nil {
		tst.Fatalf("Failed to create file system: %v", err)
	}

	tst.Cleanup(func() {
		vfs.Close(context.Background())
	})

	return vfs
}

func TestAllBackends_FileOperations(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			vfs := newTestFileSystem(tst, factory)

			payloads := map[string][]byte{
				"/cache/empty.json":   {},
				"cache/small.json":    []byte(`{"value":1}`),
				"/cache/nested/a.rsc": bytes.Repeat([]byte("0123456789abcdef"), 32*1024),
			}

			for path, payload := range payloads {
				if err := vfs.WriteFile(ctx, path, payload); err != nil {
					tst.Fatalf("WriteFile %s failed: %v", path, err)
				}

				got, err := vfs.ReadFile(ctx, path)
				if err != nil {
					tst.Fatalf("ReadFile %s failed: %v", path, err)
				}
				if !bytes.Equal(got, payload) {
					tst.Errorf("Expected %d bytes for %s, got %d", len(payload), path, len(got))
				}

				exists, err := vfs.Exists(ctx, path)
				if err != nil {
					tst.Fatalf("Exists %s failed: %v", path, err)
				}
				if !exists {
					tst.Errorf("Expected %s to exist", path)
				}
			}

			// Leading separators are immaterial
			got, err := vfs.ReadFile(ctx, "cache/nested/a.rsc")
			if err != nil {
				tst.Fatalf("ReadFile relative failed: %v", err)
			}
			if !bytes.Equal(got, payloads["/cache/nested/a.rsc"]) {
				tst.Errorf("Expected same content for relative and absolute path")
			}

			if err := vfs.WriteFile(ctx, "/cache/small.json", []byte("v2")); err != nil {
				tst.Fatalf("WriteFile overwrite failed: %v", err)
			}
			got, err = vfs.ReadFile(ctx, "/cache/small.json")
			if err != nil {
				tst.Fatalf("ReadFile after overwrite failed: %v", err)
			}
			if string(got) != "v2" {
				tst.Errorf("Expected v2, got %q", got)
			}
		})
	}
}

func TestAllBackends_StatOperations(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			vfs := newTestFileSystem(tst, factory)

			before := time.Now().Add(-time.Minute)
			if err := vfs.WriteFile(ctx, "/cache/stat.json", []byte("12345")); err != nil {
				tst.Fatalf("WriteFile failed: %v", err)
			}

			info, err := vfs.Stat(ctx, "/cache/stat.json")
			if err != nil {
				tst.Fatalf("Stat failed: %v", err)
			}
			if info.Size() != 5 {
				tst.Errorf("Expected size 5, got %d", info.Size())
			}
			if info.Name() != "stat.json" {
				tst.Errorf("Expected name stat.json, got %s", info.Name())
			}
			if info.IsDir() {
				tst.Errorf("Expected file, got directory")
			}
			if info.ModTime().Before(before) {
				tst.Errorf("Expected recent modify time, got %v", info.ModTime())
			}

			stats, ok := info.Sys().(*data.Stats)
			if !ok {
				tst.Fatalf("Expected *data.Stats, got %T", info.Sys())
			}
			if !stats.AccessTime.Equal(stats.ModifyTime) || !stats.BirthTime.Equal(stats.ModifyTime) {
				tst.Errorf("Expected all times to equal the modify time")
			}

			root, err := vfs.Stat(ctx, "/")
			if err != nil {
				tst.Fatalf("Stat root failed: %v", err)
			}
			if !root.IsDir() {
				tst.Errorf("Expected root to be a directory")
			}
		})
	}
}

func TestAllBackends_NotFound(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			vfs := newTestFileSystem(tst, factory)

			_, err := vfs.ReadFile(ctx, "/cache/missing.json")
			if !errors.IsNotExist(err) {
				tst.Errorf("Expected ErrNotExist from ReadFile, got %v", err)
			}
			if err != nil && err.Error() != "ENOENT: no such file or directory, open '/cache/missing.json'" {
				tst.Errorf("Unexpected error text: %v", err)
			}

			_, err = vfs.Stat(ctx, "/cache/missing.json")
			if !stderrors.Is(err, fs.ErrNotExist) {
				tst.Errorf("Expected fs.ErrNotExist from Stat, got %v", err)
			}

			exists, err := vfs.Exists(ctx, "/cache/missing.json")
			if err != nil {
				tst.Fatalf("Exists failed: %v", err)
			}
			if exists {
				tst.Errorf("Expected missing file to not exist")
			}

			if _, err := vfs.ReadDir(ctx, "/cache/never"); !errors.IsNotExist(err) {
				tst.Errorf("Expected ErrNotExist from ReadDir, got %v", err)
			}

			if err := vfs.Remove(ctx, "/cache/missing.json"); !errors.IsNotExist(err) {
				tst.Errorf("Expected ErrNotExist from Remove, got %v", err)
			}
		})
	}
}

func TestAllBackends_DirectoryOperations(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			vfs := newTestFileSystem(tst, factory)

			if err := vfs.Mkdir(ctx, "/d"); err != nil {
				tst.Fatalf("Mkdir failed: %v", err)
			}

			entries, err := vfs.ReadDir(ctx, "/d")
			if err != nil {
				tst.Fatalf("ReadDir failed: %v", err)
			}
			if len(entries) != 0 {
				tst.Errorf("Expected empty directory, got %v", entries)
			}

			if err := vfs.WriteFile(ctx, "/d/f", []byte("x")); err != nil {
				tst.Fatalf("WriteFile failed: %v", err)
			}
			entries, err = vfs.ReadDir(ctx, "/d")
			if err != nil {
				tst.Fatalf("ReadDir failed: %v", err)
			}
			if !slices.Equal(entries, []string{"f"}) {
				tst.Errorf("Expected [f], got %v", entries)
			}

			if err := vfs.Mkdir(ctx, "/d/sub"); err != nil {
				tst.Fatalf("Mkdir sub failed: %v", err)
			}
			entries, err = vfs.ReadDir(ctx, "d/")
			if err != nil {
				tst.Fatalf("ReadDir failed: %v", err)
			}
			if !slices.Equal(entries, []string{"sub", "f"}) {
				tst.Errorf("Expected [sub f], got %v", entries)
			}

			// Nested keys make a directory visible without a marker
			if err := vfs.WriteFile(ctx, "/d/implicit/deep/x.json", []byte("{}")); err != nil {
				tst.Fatalf("WriteFile failed: %v", err)
			}
			entries, err = vfs.ReadDir(ctx, "/d/implicit")
			if err != nil {
				tst.Fatalf("ReadDir implicit failed: %v", err)
			}
			if !slices.Equal(entries, []string{"deep"}) {
				tst.Errorf("Expected [deep], got %v", entries)
			}

			root, err := vfs.ReadDir(ctx, "/")
			if err != nil {
				tst.Fatalf("ReadDir root failed: %v", err)
			}
			if !slices.Equal(root, []string{"d"}) {
				tst.Errorf("Expected [d], got %v", root)
			}
		})
	}
}

func TestAllBackends_RemoveDir(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			vfs := newTestFileSystem(tst, factory)

			if err := vfs.Mkdir(ctx, "/d"); err != nil {
				tst.Fatalf("Mkdir failed: %v", err)
			}
			if err := vfs.WriteFile(ctx, "/d/f", []byte("x")); err != nil {
				tst.Fatalf("WriteFile failed: %v", err)
			}

			if err := vfs.RemoveDir(ctx, "/d"); !stderrors.Is(err, errors.ErrNotEmpty) {
				tst.Errorf("Expected ErrNotEmpty, got %v", err)
			}

			if err := vfs.Remove(ctx, "/d/f"); err != nil {
				tst.Fatalf("Remove failed: %v", err)
			}
			if err := vfs.RemoveDir(ctx, "/d"); err != nil {
				tst.Fatalf("RemoveDir failed: %v", err)
			}

			for _, path := range []string{"/d", "/d/"} {
				exists, err := vfs.Exists(ctx, path)
				if err != nil {
					tst.Fatalf("Exists %s failed: %v", path, err)
				}
				if exists {
					tst.Errorf("Expected %s to be gone", path)
				}
			}

			if _, err := vfs.ReadDir(ctx, "/d"); !errors.IsNotExist(err) {
				tst.Errorf("Expected ErrNotExist after RemoveDir, got %v", err)
			}

			for _, path := range []string{"/d", "/never/created"} {
				err := vfs.RemoveDir(ctx, path)
				if !errors.IsNotExist(err) {
					tst.Errorf("Expected ErrNotExist removing %s, got %v", path, err)
				}
				if !stderrors.Is(err, fs.ErrNotExist) {
					tst.Errorf("Expected fs.ErrNotExist removing %s, got %v", path, err)
				}
			}

			if err := vfs.RemoveDir(ctx, "/"); !stderrors.Is(err, errors.ErrPermission) {
				tst.Errorf("Expected ErrPermission removing root, got %v", err)
			}
			if err := vfs.Mkdir(ctx, "/"); !stderrors.Is(err, errors.ErrExist) {
				tst.Errorf("Expected ErrExist creating root, got %v", err)
			}
		})
	}
}

func TestAllBackends_RemoveDirectoryTarget(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()
			vfs := newTestFileSystem(tst, factory)

			if err := vfs.Mkdir(ctx, "/d"); err != nil {
				tst.Fatalf("Mkdir failed: %v", err)
			}
			if err := vfs.WriteFile(ctx, "/d/f", []byte("x")); err != nil {
				tst.Fatalf("WriteFile failed: %v", err)
			}

			err := vfs.Remove(ctx, "/d")
			if !stderrors.Is(err, errors.ErrIsDirectory) {
				tst.Errorf("Expected ErrIsDirectory from Remove, got %v", err)
			}
			if err != nil && !strings.HasPrefix(err.Error(), "EISDIR") {
				tst.Errorf("Expected EISDIR text, got %v", err)
			}

			if err := vfs.Unlink(ctx, "/d"); !stderrors.Is(err, errors.ErrPermission) {
				tst.Errorf("Expected ErrPermission from Unlink, got %v", err)
			}

			entries, err := vfs.ReadDir(ctx, "/d")
			if err != nil {
				tst.Fatalf("ReadDir failed: %v", err)
			}
			if !slices.Equal(entries, []string{"f"}) {
				tst.Errorf("Expected nothing deleted, got %v", entries)
			}

			if err := vfs.Unlink(ctx, "/d/f"); err != nil {
				tst.Fatalf("Unlink file failed: %v", err)
			}
			if exists, _ := vfs.Exists(ctx, "/d/f"); exists {
				tst.Errorf("Expected /d/f to be unlinked")
			}
		})
	}
}

func TestVirtualFileSystem_WorkDir(t *testing.T) {
	ctx := t.Context()
	vfs := newTestFileSystem(t, GetTestBackendFactories()["memory"], s3fs.WithWorkDir("/cache"))

	if err := vfs.WriteFile(ctx, "a.json", []byte("a")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := vfs.ReadFile(ctx, "/cache/a.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "a" {
		t.Errorf("Expected a, got %q", got)
	}

	if _, err := s3fs.New(ctx, memory.NewMemoryBackend(), s3fs.WithWorkDir("relative")); err == nil {
		t.Errorf("Expected error for relative work dir")
	}
}

type limitedBackend struct {
	*memory.MemoryBackend
}

func (b *limitedBackend) GetCapabilities() *backend.Capabilities {
	caps := b.MemoryBackend.GetCapabilities()
	return &backend.Capabilities{
		Capabilities:  caps.Capabilities,
		MaxObjectSize: 4,
	}
}

func TestVirtualFileSystem_MaxObjectSize(t *testing.T) {
	ctx := t.Context()
	vfs, err := s3fs.New(ctx, &limitedBackend{memory.NewMemoryBackend()})
	if err != nil {
		t.Fatalf("Failed to create file system: %v", err)
	}

	if err := vfs.WriteFile(ctx, "/ok", []byte("1234")); err != nil {
		t.Errorf("Expected write within limit to succeed, got %v", err)
	}
	if err := vfs.WriteFile(ctx, "/big", []byte("12345")); !stderrors.Is(err, errors.ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
}

func TestSyncFileSystem(t *testing.T) {
	vfs := newTestFileSystem(t, GetTestBackendFactories()["memory"])

	b := bridge.New(bridge.WithTimeout(time.Second))
	t.Cleanup(func() {
		b.Close()
	})

	sync := s3fs.NewSync(vfs, b)

	if err := sync.WriteFile("/cache/sync.json", []byte("sync")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := sync.ReadFile("/cache/sync.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	direct, err := vfs.ReadFile(t.Context(), "/cache/sync.json")
	if err != nil {
		t.Fatalf("Direct ReadFile failed: %v", err)
	}
	if !bytes.Equal(got, direct) {
		t.Errorf("Expected bridged result %q to equal direct result %q", got, direct)
	}

	if _, err := sync.Stat("/cache/missing.json"); !errors.IsNotExist(err) {
		t.Errorf("Expected ErrNotExist to pass the bridge unchanged, got %v", err)
	}

	if err := sync.Mkdir("/cache/dir"); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	entries, err := sync.ReadDir("/cache")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if !slices.Equal(entries, []string{"dir", "sync.json"}) {
		t.Errorf("Expected [dir sync.json], got %v", entries)
	}
	if err := sync.RemoveDir("/cache/dir"); err != nil {
		t.Errorf("RemoveDir failed: %v", err)
	}
	if err := sync.Unlink("/cache/sync.json"); err != nil {
		t.Errorf("Unlink failed: %v", err)
	}
	if exists, err := sync.Exists("/cache/sync.json"); err != nil || exists {
		t.Errorf("Expected file to be gone, got %v, %v", exists, err)
	}
}

type blockingFileSystem struct {
	s3fs.FileSystem
	release chan struct{}
}

func (b *blockingFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	<-b.release
	return nil, nil
}

func TestSyncFileSystem_Timeout(t *testing.T) {
	blocking := &blockingFileSystem{release: make(chan struct{})}
	b := bridge.New(bridge.WithTimeout(50 * time.Millisecond))
	t.Cleanup(func() {
		close(blocking.release)
		b.Close()
	})

	_, err := s3fs.NewSync(blocking, b).ReadFile("/cache/slow.json")

	var timeout *errors.TimeoutError
	if !stderrors.As(err, &timeout) {
		t.Fatalf("Expected *errors.TimeoutError, got %v", err)
	}
	if timeout.Op != "readFileSync" {
		t.Errorf("Expected op readFileSync, got %s", timeout.Op)
	}
}

func TestPromiseFileSystem(t *testing.T) {
	ctx := t.Context()
	vfs := newTestFileSystem(t, GetTestBackendFactories()["memory"])
	promises := s3fs.NewPromises(vfs)

	if _, err := promises.WriteFile(ctx, "/cache/p.json", []byte("p")).Await(ctx); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := promises.ReadFile(ctx, "/cache/p.json").Await(ctx)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "p" {
		t.Errorf("Expected p, got %q", got)
	}

	info, err := promises.Stat(ctx, "/cache/p.json").Await(ctx)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 1 {
		t.Errorf("Expected size 1, got %d", info.Size())
	}

	if _, err := promises.Remove(ctx, "/cache/p.json").Await(ctx); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	exists, err := promises.Exists(ctx, "/cache/p.json").Await(ctx)
	if err != nil || exists {
		t.Errorf("Expected file to be gone, got %v, %v", exists, err)
	}
}

func TestNativeFileSystem(t *testing.T) {
	ctx := t.Context()
	native := s3fs.NewNative(afero.NewMemMapFs())

	if err := native.Mkdir(ctx, "/d"); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	if err := native.WriteFile(ctx, "/d/f", []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := native.ReadDir(ctx, "/d")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if !slices.Equal(entries, []string{"f"}) {
		t.Errorf("Expected [f], got %v", entries)
	}

	if err := native.Remove(ctx, "/d"); !stderrors.Is(err, errors.ErrIsDirectory) {
		t.Errorf("Expected ErrIsDirectory, got %v", err)
	}
	if err := native.Unlink(ctx, "/d"); !stderrors.Is(err, errors.ErrPermission) {
		t.Errorf("Expected ErrPermission, got %v", err)
	}
	if err := native.RemoveDir(ctx, "/d"); !stderrors.Is(err, errors.ErrNotEmpty) {
		t.Errorf("Expected ErrNotEmpty, got %v", err)
	}

	if err := native.Unlink(ctx, "/d/f"); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if err := native.RemoveDir(ctx, "/d"); err != nil {
		t.Fatalf("RemoveDir failed: %v", err)
	}
	if exists, err := native.Exists(ctx, "/d"); err != nil || exists {
		t.Errorf("Expected /d to be gone, got %v, %v", exists, err)
	}

	if _, err := native.ReadFile(ctx, "/missing"); !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
	if err := native.RemoveDir(ctx, "/never/created"); !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist removing missing dir, got %v", err)
	}
	if err := native.Remove(ctx, "/never/created"); !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist removing missing file, got %v", err)
	}
}

var errUnavailable = stderrors.New("service unavailable")

type faultyBackend struct {
	*memory.MemoryBackend
	headErr error
	listErr error
}

func (b *faultyBackend) HeadObject(ctx context.Context, key string) (*data.ObjectStat, error) {
	if b.headErr != nil {
		return nil, b.headErr
	}
	return b.MemoryBackend.HeadObject(ctx, key)
}

func (b *faultyBackend) ListObjects(ctx context.Context, prefix, delimiter string) (*data.ObjectListing, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.MemoryBackend.ListObjects(ctx, prefix, delimiter)
}

func TestVirtualFileSystem_RemoveProbeFaults(t *testing.T) {
	ctx := t.Context()
	faulty := &faultyBackend{MemoryBackend: memory.NewMemoryBackend()}

	vfs, err := s3fs.New(ctx, faulty)
	if err != nil {
		t.Fatalf("Failed to create file system: %v", err)
	}
	if err := vfs.Mkdir(ctx, "/d"); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	// A failing object probe is never mistaken for a directory
	faulty.headErr = errUnavailable
	err = vfs.Remove(ctx, "/d")
	if !stderrors.Is(err, errUnavailable) {
		t.Errorf("Expected backend fault, got %v", err)
	}
	if stderrors.Is(err, errors.ErrIsDirectory) {
		t.Errorf("Expected no directory inference, got %v", err)
	}

	// Both probes failing reports both faults
	listErr := stderrors.New("listing throttled")
	faulty.listErr = listErr
	err = vfs.Unlink(ctx, "/d")
	if !stderrors.Is(err, errUnavailable) || !stderrors.Is(err, listErr) {
		t.Errorf("Expected both faults, got %v", err)
	}

	// The object probe is authoritative when it succeeds
	faulty.headErr, faulty.listErr = nil, nil
	if err := vfs.WriteFile(ctx, "/f", []byte("x")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	faulty.listErr = listErr
	if err := vfs.Remove(ctx, "/f"); err != nil {
		t.Errorf("Expected Remove to ignore the listing fault, got %v", err)
	}

	// Listing fault with missing object surfaces the listing fault
	err = vfs.Remove(ctx, "/f")
	if !stderrors.Is(err, listErr) {
		t.Errorf("Expected listing fault, got %v", err)
	}
}
