// Package main provides the entry point for the photo gallery server.
//
// The server exposes a directory of albums over HTTP. Each subdirectory of
// ALBUM_DIR is an album; each file inside it is a photo. Photos are served
// as JPEG variants at a third of their original width, computed on first
// request and kept in memory for the life of the process.
//
// # Application Lifecycle
//
//  1. Memory configuration: GOMEMLIMIT from MEMORY_LIMIT or GOMEMLIMIT
//  2. Configuration loading from the environment
//  3. Metrics registration and filesystem observer wiring
//  4. Optional libvips start-up when VIPS_ENABLED is set
//  5. Memory monitor, variant cache and gallery service
//  6. Router, middleware chain and HTTP servers (application and metrics)
//  7. Graceful shutdown on SIGINT or SIGTERM
//
// # Routes
//
//	GET /list                     album names, newest first
//	GET /album/{name}             photo descriptors for one album
//	GET /photo/{album}/{photo}    reduced JPEG variant
//	GET /health /healthz /livez /readyz /version
//	GET anything else             echoes the caller's User-Agent
//
// Metrics are served on METRICS_PORT at /metrics.
package main
