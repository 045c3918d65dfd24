// Package mediatypes holds the small, dependency-free helpers that turn a
// photo file name into HTTP metadata.
//
// The package imports only the standard library so it can be used from the
// gallery service and the HTTP handlers without creating import cycles.
//
// # Content types
//
// ContentType is derived from the file extension alone:
//
//	mediatypes.ContentType("beach.JPG") // "image/jpg"
//	mediatypes.ContentType("map.png")   // "image/png"
//
// The body served for a photo is always a JPEG variant, but the header
// mirrors the extension of the original file.
//
// # Alt text
//
// AltText strips the final extension, so "my photo.jpg" becomes "my photo".
package mediatypes
