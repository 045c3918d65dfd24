// Package cache holds encoded photo variants in memory.
//
// A variant is computed at most once per key for the life of the process,
// even when many requests for the same photo arrive together: concurrent
// misses for one key are collapsed onto a single computation with
// golang.org/x/sync/singleflight and every caller receives the same bytes.
// Requests for different keys never wait on each other.
//
// There is no eviction and no invalidation. A photo replaced on disk keeps
// being served from its cached variant until restart.
package cache
