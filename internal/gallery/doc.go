// Package gallery implements album listings and photo serving on top of the
// catalog, the transform engine and the variant cache.
//
// Listings always read the filesystem. Photo variants are computed once per
// album and photo name and then served from the cache. Transforms are
// limited to a fixed number of concurrent workers and, when a memory
// monitor is configured, wait while the heap is near its limit.
package gallery
