package data

import (
	"path"
	"strings"

	"github.com/mwantia/s3fs/data/errors"
)

// Separator is the only path separator understood by object keys.
const Separator = "/"

// PathNormalizer canonicalizes virtual paths into object keys.
// Relative paths are resolved against WorkDir, which is a virtual working
// directory inside the store and defaults to the root.
type PathNormalizer struct {
	WorkDir string
}

func NewPathNormalizer(workDir string) (*PathNormalizer, error) {
	if workDir == "" {
		workDir = Separator
	}

	if !strings.HasPrefix(workDir, Separator) {
		return nil, errors.ErrInvalidPath
	}

	return &PathNormalizer{
		WorkDir: path.Clean(workDir),
	}, nil
}

// NormalizeFile returns the object key for p. The key never carries a
// leading or trailing separator; the root resolves to the empty key.
// A key is itself a relative path, so normalizing it again only yields the
// same key when the work dir is the root.
func (pn *PathNormalizer) NormalizeFile(p string) string {
	if !strings.HasPrefix(p, Separator) {
		p = path.Join(pn.workDir(), p)
	}

	return strings.TrimLeft(path.Clean(p), Separator)
}

// NormalizeDir returns the directory form of p: the file key with exactly one
// trailing separator. The root stays the empty key.
func (pn *PathNormalizer) NormalizeDir(p string) string {
	key := pn.NormalizeFile(p)
	if key == "" {
		return ""
	}

	return key + Separator
}

// IsRoot reports whether p resolves to the root of the store.
func (pn *PathNormalizer) IsRoot(p string) bool {
	return pn.NormalizeFile(p) == ""
}

func (pn *PathNormalizer) workDir() string {
	if pn == nil || pn.WorkDir == "" {
		return Separator
	}

	return pn.WorkDir
}

// ToRelativePath removes the prefix from key.
// It additionally removes any trailing separator.
func ToRelativePath(key, prefix string) string {
	if prefix == "" {
		return strings.TrimSuffix(key, Separator)
	}

	if key == prefix {
		return ""
	}

	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), Separator)
}
