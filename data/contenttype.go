package data

import (
	"path"
	"strings"
)

const (
	ContentTypeDirectory   = "application/x-directory"
	ContentTypeOctetStream = "application/octet-stream"
)

// extensionToMIME covers the files a rendering cache typically writes.
var extensionToMIME = map[string]string{
	".json": "application/json",
	".html": "text/html",
	".txt":  "text/plain",
	".rsc":  "text/x-component",
	".body": ContentTypeOctetStream,
	".meta": "application/json",
	".js":   "text/javascript",
	".css":  "text/css",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
}

// ContentTypeOf returns the MIME type used when uploading key.
// Directory keys map to ContentTypeDirectory, unknown extensions to octet-stream.
func ContentTypeOf(key string) string {
	if strings.HasSuffix(key, Separator) {
		return ContentTypeDirectory
	}

	if mimeType, exists := extensionToMIME[strings.ToLower(path.Ext(key))]; exists {
		return mimeType
	}

	return ContentTypeOctetStream
}
