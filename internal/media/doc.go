// Package media produces reduced-size JPEG variants of photos.
//
// Transform decodes any format registered with the image package (JPEG,
// PNG, GIF and WebP), applies EXIF orientation, scales the width down by
// Options.WidthDivisor while keeping the aspect ratio, and re-encodes the
// result as JPEG. When libvips has been initialised with InitVips and
// Options.UseVips is set, the work is done by libvips instead, falling back
// to the pure Go decoders for inputs libvips rejects.
package media
