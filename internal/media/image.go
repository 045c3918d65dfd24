package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// ErrDecode is returned when photo bytes are not a decodable raster image.
var ErrDecode = errors.New("unable to decode image")

// ErrEncode is returned when the resized variant cannot be encoded.
var ErrEncode = errors.New("unable to encode image")

// Options controls how variants are produced.
type Options struct {
	// WidthDivisor is the factor the source width is divided by.
	WidthDivisor int
	// Quality is the JPEG quality of the encoded variant (1-100).
	Quality int
	// UseVips selects libvips when it has been initialised.
	UseVips bool
}

// DefaultOptions returns a one-third width, quality 85 configuration.
func DefaultOptions() Options {
	return Options{
		WidthDivisor: 3,
		Quality:      85,
	}
}

// Dimensions holds image width and height
type Dimensions struct {
	Width  int
	Height int
}

// Engine turns original photo bytes into reduced JPEG variants. It holds
// only configuration and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine, replacing out-of-range options with defaults.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.WidthDivisor < 1 {
		opts.WidthDivisor = def.WidthDivisor
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		opts.Quality = def.Quality
	}
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Backend names the implementation Transform will use.
func (e *Engine) Backend() string {
	if e.opts.UseVips && IsVipsAvailable() {
		return "vips"
	}
	return "imaging"
}

// Decode parses photo bytes into a raster, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	metrics.DecodeByFormat.WithLabelValues(format).Inc()
	return img, nil
}

// ImageDimensions reads the pixel size from the image header without
// decoding the pixel data.
func ImageDimensions(data []byte) (Dimensions, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return Dimensions{Width: config.Width, Height: config.Height}, nil
}

// Dimensions is ImageDimensions exposed on the engine so callers can depend
// on a single interface.
func (e *Engine) Dimensions(data []byte) (Dimensions, error) {
	return ImageDimensions(data)
}

// TargetWidth returns the variant width for a source of the given width.
func (e *Engine) TargetWidth(width int) int {
	w := width / e.opts.WidthDivisor
	if w < 1 {
		w = 1
	}
	return w
}

// ResizeAndEncode scales img to TargetWidth, keeping the aspect ratio, and
// encodes the result as JPEG.
func (e *Engine) ResizeAndEncode(img image.Image) ([]byte, error) {
	start := time.Now()
	resized := imaging.Resize(img, e.TargetWidth(img.Bounds().Dx()), 0, imaging.Lanczos)
	metrics.TransformPhaseDuration.WithLabelValues("resize").Observe(time.Since(start).Seconds())

	start = time.Now()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(e.opts.Quality)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	metrics.TransformPhaseDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())

	return buf.Bytes(), nil
}

// Transform decodes data, resizes it and returns the encoded JPEG variant.
// The same input always produces a variant of the same dimensions.
func (e *Engine) Transform(data []byte) (out []byte, err error) {
	backend := e.Backend()
	metrics.TransformsInProgress.Inc()
	defer func() {
		metrics.TransformsInProgress.Dec()
		metrics.TransformsTotal.WithLabelValues(backend, transformStatus(err)).Inc()
	}()

	if backend == "vips" {
		out, err = e.transformWithVips(data)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrDecode) {
			return nil, err
		}
		// libvips and the Go decoders don't accept the same set of formats
		logging.Debug("vips could not decode image, falling back to imaging: %v", err)
		backend = "imaging"
	}

	start := time.Now()
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	metrics.TransformPhaseDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	return e.ResizeAndEncode(img)
}

func transformStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrDecode):
		return "error_decode"
	default:
		return "error_encode"
	}
}
