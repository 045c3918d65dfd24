// Package metrics provides Prometheus instrumentation for the photo gallery.
//
// All metrics are prefixed with "photo_gallery_" and registered on the
// default registry through promauto. They fall into these groups:
//
//   - HTTP: request counts, durations and in-flight requests per route
//   - Catalog: album/photo listing and photo read outcomes
//   - Transform: per-backend transform outcomes and decode/resize/encode phase timings
//   - Variant cache: hits, misses, shared in-flight waits, and occupancy gauges.
//     The cache never evicts, so the entries and bytes gauges only grow.
//   - Filesystem: operation timings and NFS stale handle retries
//   - Memory: Go runtime heap usage, GOMEMLIMIT and backpressure state
//
// Expose them with promhttp.Handler():
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// The [Collector] refreshes gauges that have to be sampled, such as cache
// occupancy and runtime memory:
//
//	collector := metrics.NewCollector(provider, 30*time.Second)
//	collector.Start()
//	defer collector.Stop()
//
// Cache hit rate:
//
//	rate(photo_gallery_variant_cache_hits_total[5m]) /
//	(rate(photo_gallery_variant_cache_hits_total[5m]) + rate(photo_gallery_variant_cache_misses_total[5m]))
package metrics
