package mediatypes

import (
	"path/filepath"
	"strings"
)

// CacheControl is sent with every photo response. Photos are addressed by
// album and file name and are served for a year once fetched.
const CacheControl = "max-age=31536000"

// Ext returns the lowercased extension of name without the leading dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ContentType returns the Content-Type advertised for a photo file name:
// "image/" followed by the lowercased extension. The value is derived from
// the name only, so a ".jpg" file is served as "image/jpg".
func ContentType(name string) string {
	return "image/" + Ext(name)
}

// AltText returns the photo name without its extension.
func AltText(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
