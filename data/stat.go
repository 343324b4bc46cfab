package data

import (
	"strings"
	"time"
)

// ObjectStat is the metadata a backend reports for a single object.
type ObjectStat struct {
	// Key of the object inside the bucket
	Key string `json:"key"`

	// Size in bytes (0 for directory markers)
	Size int64 `json:"size"`

	ModifyTime time.Time `json:"modify_time"`

	// Content MIME type, if tracked by the backend
	ContentType string `json:"content_type,omitempty"`

	ETag string `json:"etag,omitempty"`
}

// IsDirMarker reports whether the stat belongs to a directory marker object.
func (os *ObjectStat) IsDirMarker() bool {
	return strings.HasSuffix(os.Key, Separator) || os.ContentType == ContentTypeDirectory
}

// ObjectListing is the result of a single prefix and delimiter listing.
type ObjectListing struct {
	Prefix    string `json:"prefix"`
	Delimiter string `json:"delimiter"`

	// CommonPrefixes group all keys sharing a prefix up to the next delimiter.
	// Each entry still carries the full prefix and the trailing delimiter.
	CommonPrefixes []string `json:"common_prefixes"`

	// Keys matched directly at this level, including the directory marker
	// itself when one exists.
	Keys []string `json:"keys"`
}

// Empty reports whether the listing found neither prefixes nor keys.
func (ol *ObjectListing) Empty() bool {
	return len(ol.CommonPrefixes) == 0 && len(ol.Keys) == 0
}
