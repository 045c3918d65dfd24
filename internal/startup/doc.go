// Package startup loads configuration and writes the startup and shutdown
// log sections.
//
// # Configuration
//
// All configuration comes from environment variables via [LoadConfig]:
//
//   - ALBUM_DIR: Root directory holding one subdirectory per album (default: /photos)
//   - PORT: HTTP server port (default: 3001)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - LISTING_DIMENSIONS: Report width and height in album listings (default: true)
//   - RESIZE_DIVISOR: Variant width is the original width divided by this (default: 3)
//   - JPEG_QUALITY: Quality of served variants, 1-100 (default: 85)
//   - VIPS_ENABLED: Transform with libvips instead of pure Go (default: false)
//   - TRANSFORM_WORKERS: Concurrent transforms (default: GOMAXPROCS)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log browser asset requests such as /favicon.ico (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//   - MEMORY_LIMIT: Container memory limit in bytes, usually from the Kubernetes
//     Downward API (default: none)
//   - MEMORY_RATIO: Share of MEMORY_LIMIT given to the Go heap, 0.0-1.0 (default: 0.85)
//   - GOMEMLIMIT: Standard Go variable; when set it wins over MEMORY_LIMIT
//   - MEMORY_MAX_WAIT: Longest a transform waits for memory before the request
//     gets 503 (default: 30s)
//
// Invalid values are logged and replaced by the default. A missing album
// directory is only a warning: the server starts and /readyz reports it.
//
// # Build Information
//
// Version, Commit and BuildTime are injected with -ldflags and exposed via
// [GetBuildInfo] and the /version endpoint.
package startup
