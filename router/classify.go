package router

import "strings"

// Classifier decides whether path belongs to the emulated store and
// returns the key the store serves it under.
type Classifier func(path string) (string, bool)

const (
	fetchCacheMarker = "cache/fetch-cache"
	imageCacheMarker = "cache/images"
	imageCacheRoot   = ".next/cache"
)

// FetchCache matches the data cache of fetch requests, e.g.
// ".next/cache/fetch-cache/0a1b2c" is served as "/0a1b2c".
func FetchCache(path string) (string, bool) {
	if !strings.Contains(path, fetchCacheMarker) {
		return "", false
	}

	return nonEmpty(strings.Split(path, fetchCacheMarker)[1])
}

// ImageCache matches the optimized image cache, e.g.
// ".next/cache/images/key/60.webp" is served as "/images/key/60.webp".
func ImageCache(path string) (string, bool) {
	if !strings.Contains(path, imageCacheMarker) {
		return "", false
	}

	parts := strings.Split(path, imageCacheRoot)
	if len(parts) < 2 {
		return "", false
	}

	return nonEmpty(parts[1])
}

func nonEmpty(key string) (string, bool) {
	return key, key != ""
}
