package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"
)

// Standard errors returned by the object emulation and its backends.
// Filesystem-shaped sentinels wrap the matching io/fs error, so callers
// written against the native filesystem can keep using errors.Is(err, fs.ErrNotExist).
var (
	ErrNotExist    = fmt.Errorf("s3fs: %w", fs.ErrNotExist)
	ErrExist       = fmt.Errorf("s3fs: %w", fs.ErrExist)
	ErrPermission  = fmt.Errorf("s3fs: %w", fs.ErrPermission)
	ErrIsDirectory = errors.New("s3fs: is a directory")
	ErrNotEmpty    = errors.New("s3fs: directory not empty")
	ErrInvalidPath = errors.New("s3fs: invalid path detected")
	ErrTooLarge    = errors.New("s3fs: file too large")
	ErrReadOnly    = errors.New("s3fs: read-only filesystem")

	ErrTimeout      = errors.New("s3fs: operation timed out")
	ErrBridgeClosed = errors.New("s3fs: bridge already closed")
	ErrPanicked     = errors.New("s3fs: operation panicked")

	ErrMountFailed                   = errors.New("s3fs: backend initialization failed")
	ErrMissingBucket                 = errors.New("s3fs: no cache bucket configured")
	ErrMalformedBackendAddress       = errors.New("s3fs: malformed backend address")
	ErrUnknownBackendProtocolAddress = errors.New("s3fs: unknown backend protocol")
)

// PathError mirrors the error text of a conventional filesystem,
// e.g. "ENOENT: no such file or directory, stat 'cache/a.json'".
type PathError struct {
	Code string
	Desc string
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %s, %s '%s'", e.Code, e.Desc, e.Op, e.Path)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// NotExist reports that no object or prefix exists for path.
func NotExist(op, path string) error {
	return &PathError{Code: "ENOENT", Desc: "no such file or directory", Op: op, Path: path, Err: ErrNotExist}
}

func Exist(op, path string) error {
	return &PathError{Code: "EEXIST", Desc: "file already exists", Op: op, Path: path, Err: ErrExist}
}

// IsDirectory reports that a file operation targeted an emulated directory.
func IsDirectory(op, path string) error {
	return &PathError{Code: "EISDIR", Desc: "illegal operation on a directory", Op: op, Path: path, Err: ErrIsDirectory}
}

func NotEmpty(op, path string) error {
	return &PathError{Code: "ENOTEMPTY", Desc: "directory not empty", Op: op, Path: path, Err: ErrNotEmpty}
}

func Permission(op, path string) error {
	return &PathError{Code: "EPERM", Desc: "operation not permitted", Op: op, Path: path, Err: ErrPermission}
}

// TooLarge reports a payload exceeding the object size limit of the backend.
func TooLarge(op, path string) error {
	return &PathError{Code: "EFBIG", Desc: "file too large", Op: op, Path: path, Err: ErrTooLarge}
}

// TimeoutError is returned when a bridged operation did not settle in time.
// The operation itself is not cancelled.
type TimeoutError struct {
	Op    string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("s3fs: %s called timeout after %s", e.Op, e.After)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// IsNotExist reports whether err is, or wraps, a missing object.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist) || errors.Is(err, fs.ErrNotExist)
}

// Errors collects multiple failures and joins them.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	if len(e.errors) == 1 {
		return e.errors[0]
	}

	return errors.Join(e.errors...)
}
