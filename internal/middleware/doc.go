// Package middleware provides the HTTP middleware wrapped around the gallery
// router.
//
// The chain, outermost first, is:
//   - CORS headers on every response and 204 for OPTIONS preflights
//   - X-Request-ID assignment (github.com/google/uuid)
//   - Access logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//   - gzip compression of JSON and text responses
package middleware
