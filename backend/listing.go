package backend

import (
	"strings"

	"github.com/mwantia/s3fs/data"
)

// GroupKeys builds a listing from keys that all start with prefix.
// Keys containing delimiter after the prefix are folded into a common prefix,
// everything else is kept as a direct key. Keys already folded by the store,
// e.g. "a/b/" for prefix "a/", are recognised as common prefixes as well.
// An empty delimiter keeps every key as a direct key.
func GroupKeys(prefix, delimiter string, keys []string) *data.ObjectListing {
	listing := &data.ObjectListing{
		Prefix:         prefix,
		Delimiter:      delimiter,
		CommonPrefixes: make([]string, 0),
		Keys:           make([]string, 0),
	}

	seen := make(map[string]struct{})
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		rest := strings.TrimPrefix(key, prefix)
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				common := prefix + rest[:idx+len(delimiter)]
				if _, exists := seen[common]; !exists {
					seen[common] = struct{}{}
					listing.CommonPrefixes = append(listing.CommonPrefixes, common)
				}
				continue
			}
		}

		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		listing.Keys = append(listing.Keys, key)
	}

	return listing
}
