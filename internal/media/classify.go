package media

import "strings"

const dataImagePrefix = "data:image/"

// IsPersistedRef reports whether s references an image that already lives in storage.
func IsPersistedRef(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsInlineImage reports whether s is an inline data URI image payload.
func IsInlineImage(s string) bool {
	return strings.HasPrefix(s, dataImagePrefix)
}
