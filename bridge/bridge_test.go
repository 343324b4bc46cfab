package bridge

import (
	"context"
	stderrors "errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mwantia/s3fs/data/errors"
)

func newTestBridge(t *testing.T, timeout time.Duration) *Bridge {
	b := New(WithTimeout(timeout))
	t.Cleanup(func() {
		b.Close()
	})

	return b
}

func TestCall_Resolved(t *testing.T) {
	b := newTestBridge(t, time.Second)

	fn := func(ctx context.Context) ([]byte, error) {
		time.Sleep(20 * time.Millisecond)
		return []byte("payload"), nil
	}

	direct, err := fn(t.Context())
	if err != nil {
		t.Fatalf("Direct call failed: %v", err)
	}

	bridged, err := Call(b, "readFile", fn)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	if string(bridged) != string(direct) {
		t.Errorf("Expected %q, got %q", direct, bridged)
	}
}

func TestCall_Rejected(t *testing.T) {
	b := newTestBridge(t, time.Second)
	backendErr := stderrors.New("backend: connection reset")

	_, err := Call(b, "stat", func(ctx context.Context) (int, error) {
		return 0, backendErr
	})

	if err != backendErr {
		t.Errorf("Expected backend error unchanged, got %v", err)
	}
	if stderrors.Is(err, errors.ErrTimeout) {
		t.Errorf("Expected backend error not to be reported as timeout")
	}
}

func TestCall_Timeout(t *testing.T) {
	b := newTestBridge(t, 50*time.Millisecond)

	release := make(chan struct{})
	var finished atomic.Bool

	start := time.Now()
	_, err := Call(b, "readdir", func(ctx context.Context) ([]string, error) {
		<-release
		finished.Store(true)
		return []string{"late"}, nil
	})
	elapsed := time.Since(start)

	var timeoutErr *errors.TimeoutError
	if !stderrors.As(err, &timeoutErr) {
		t.Fatalf("Expected TimeoutError, got %v", err)
	}
	if timeoutErr.Op != "readdir" {
		t.Errorf("Expected timeout to name readdir, got %s", timeoutErr.Op)
	}
	if !stderrors.Is(err, errors.ErrTimeout) {
		t.Errorf("Expected error to wrap ErrTimeout")
	}
	if elapsed > time.Second {
		t.Errorf("Expected call to return near the ceiling, took %s", elapsed)
	}

	// The operation keeps running after the caller gave up
	close(release)
	deadline := time.Now().Add(time.Second)
	for !finished.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !finished.Load() {
		t.Errorf("Expected operation to finish in the background")
	}
}

func TestCall_AbandonedOperations(t *testing.T) {
	b := newTestBridge(t, 50*time.Millisecond)
	release := make(chan struct{})
	t.Cleanup(func() {
		close(release)
	})

	// Operations that never settle must not hold up later calls
	for range 4 {
		err := Do(b, "mkdir", func(ctx context.Context) error {
			<-release
			return nil
		})

		var timeoutErr *errors.TimeoutError
		if !stderrors.As(err, &timeoutErr) || timeoutErr.Op != "mkdir" {
			t.Fatalf("Expected mkdir timeout, got %v", err)
		}
	}

	got, err := Call(b, "readFile", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Expected call to settle, got %v", err)
	}
	if got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
}

func TestCall_Panic(t *testing.T) {
	b := newTestBridge(t, time.Second)

	_, err := Call(b, "writeFile", func(ctx context.Context) (int, error) {
		var counts map[string]int
		counts["key"]++
		return len(counts), nil
	})
	if !stderrors.Is(err, errors.ErrPanicked) {
		t.Fatalf("Expected ErrPanicked, got %v", err)
	}
	if !strings.Contains(err.Error(), "writeFile") {
		t.Errorf("Expected error to name writeFile, got %v", err)
	}

	// The bridge keeps serving after a panic
	if err := Do(b, "mkdir", func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("Expected call after panic to succeed, got %v", err)
	}
}

func TestCall_Closed(t *testing.T) {
	b := New()
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	err := Do(b, "rm", func(ctx context.Context) error {
		return nil
	})
	if !stderrors.Is(err, errors.ErrBridgeClosed) {
		t.Errorf("Expected ErrBridgeClosed, got %v", err)
	}
}

func TestCall_NilInterface(t *testing.T) {
	b := newTestBridge(t, time.Second)

	got, err := Call(b, "stat", func(ctx context.Context) (error, error) {
		return nil, nil
	})
	if err != nil || got != nil {
		t.Errorf("Expected zero value, got %v, %v", got, err)
	}
}

func TestFuture_Await(t *testing.T) {
	f := Go(t.Context(), func(ctx context.Context) (bool, error) {
		return true, nil
	})

	got, err := f.Await(t.Context())
	if err != nil || !got {
		t.Errorf("Expected true, got %v, %v", got, err)
	}

	select {
	case <-f.Done():
	default:
		t.Errorf("Expected future to be done")
	}
}

func TestFuture_AwaitContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := GoErr(t.Context(), func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
