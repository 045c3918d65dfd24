// Package handlers provides the HTTP handlers for the photo gallery.
//
// It includes handlers for:
//   - Album listing (/list) and album contents (/album/{name})
//   - Photo variants (/photo/{album}/{photo})
//   - The User-Agent echo fallback for unmatched paths
//   - Health, readiness, liveness and version endpoints
//
// Path variables arrive still percent-encoded; the gallery service decodes
// them. Errors are mapped to 400, 404 or 500 and returned as short JSON
// messages without filesystem paths.
package handlers
