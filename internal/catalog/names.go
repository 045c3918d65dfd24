package catalog

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DecodeName turns an album or photo identifier from a request path into the
// name used on disk and in cache keys. Standard percent-decoding is applied
// first, then any literal "%20" left over is turned into a space, so both
// "my%20photo.jpg" and "my%2520photo.jpg" resolve to "my photo.jpg".
func DecodeName(raw string) (string, error) {
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	name = strings.ReplaceAll(name, "%20", " ")

	if err := validateName(name); err != nil {
		return "", err
	}
	return name, nil
}

// EncodeName is the inverse used when building URLs for listings.
func EncodeName(name string) string {
	return url.PathEscape(name)
}

// validateName rejects names that would escape the album root or address
// more than one path component.
func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, '/'), strings.ContainsRune(name, filepath.Separator):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
