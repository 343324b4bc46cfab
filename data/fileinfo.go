package data

import (
	"io/fs"
	"path"
	"time"
)

// Stats is the stat-like record carried by FileInfo.Sys().
// Object stores only know about size and modification time, everything else
// is left as a zero placeholder.
type Stats struct {
	Dev     uint64
	Ino     uint64
	Mode    fs.FileMode
	Nlink   uint64
	UID     uint32
	GID     uint32
	Rdev    uint64
	Blksize int64
	Blocks  int64
	Size    int64

	AccessTime time.Time
	ModifyTime time.Time
	ChangeTime time.Time
	BirthTime  time.Time
}

// FileInfo implements fs.FileInfo for objects of the store.
type FileInfo struct {
	Path  string
	Stats Stats
}

// NewFileInfo converts an ObjectStat into a FileInfo for the given path.
func NewFileInfo(p string, stat *ObjectStat) *FileInfo {
	info := &FileInfo{
		Path: p,
		Stats: Stats{
			Size:       stat.Size,
			AccessTime: stat.ModifyTime,
			ModifyTime: stat.ModifyTime,
			ChangeTime: stat.ModifyTime,
			BirthTime:  stat.ModifyTime,
		},
	}

	if stat.IsDirMarker() {
		info.Stats.Mode = fs.ModeDir
	}

	return info
}

// NewRootInfo returns the synthetic directory describing the store root.
func NewRootInfo() *FileInfo {
	now := time.Now()
	return &FileInfo{
		Path: Separator,
		Stats: Stats{
			Mode:       fs.ModeDir,
			AccessTime: now,
			ModifyTime: now,
			ChangeTime: now,
			BirthTime:  now,
		},
	}
}

func (fi *FileInfo) Name() string {
	return path.Base(fi.Path)
}

func (fi *FileInfo) Size() int64 {
	return fi.Stats.Size
}

func (fi *FileInfo) Mode() fs.FileMode {
	return fi.Stats.Mode
}

func (fi *FileInfo) ModTime() time.Time {
	return fi.Stats.ModifyTime
}

func (fi *FileInfo) IsDir() bool {
	return fi.Stats.Mode.IsDir()
}

// Sys returns the underlying *Stats.
func (fi *FileInfo) Sys() any {
	return &fi.Stats
}
