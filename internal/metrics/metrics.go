package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog metrics
var (
	CatalogOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_catalog_operations_total",
			Help: "Total number of catalog operations",
		},
		[]string{"operation", "status"},
	)

	CatalogOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_catalog_operation_duration_seconds",
			Help:    "Catalog operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	CatalogItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_catalog_items_returned",
			Help:    "Number of entries returned by catalog listings",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"operation"},
	)
)

// Transform metrics
var (
	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_transforms_total",
			Help: "Total number of photo transforms by backend and status",
		},
		[]string{"backend", "status"},
	)

	TransformPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_transform_phase_duration_seconds",
			Help:    "Duration of each transform phase (decode, resize, encode) in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"phase"},
	)

	TransformsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_transforms_in_progress",
			Help: "Number of transforms currently holding a worker slot",
		},
	)

	DecodeByFormat = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_decode_by_format_total",
			Help: "Successful image decodes by detected format",
		},
		[]string{"format"},
	)
)

// Variant cache metrics
var (
	VariantCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_variant_cache_hits_total",
			Help: "Total number of variant cache hits",
		},
	)

	VariantCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_variant_cache_misses_total",
			Help: "Total number of variant cache misses",
		},
	)

	VariantCacheSharedWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_variant_cache_shared_waits_total",
			Help: "Callers that received the result of another caller's in-flight computation",
		},
	)

	VariantCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_variant_cache_entries",
			Help: "Number of cached variants (the cache is unbounded)",
		},
	)

	VariantCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_variant_cache_bytes",
			Help: "Total payload bytes held by the variant cache",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_filesystem_operation_errors_total",
			Help: "Filesystem operations that returned an error",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_filesystem_retry_attempts_total",
			Help: "Retries performed after NFS stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_filesystem_retry_success_total",
			Help: "Operations that succeeded after at least one retry",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_filesystem_retry_failures_total",
			Help: "Operations that still failed after exhausting retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_filesystem_stale_errors_total",
			Help: "NFS stale file handle errors observed",
		},
		[]string{"operation"},
	)
)

// Memory metrics
var (
	GoMemLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_go_memlimit_bytes",
			Help: "Configured GOMEMLIMIT in bytes (0 if unset)",
		},
	)

	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_go_memory_alloc_bytes",
			Help: "Current heap allocation in bytes",
		},
	)

	GoMemSysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_go_memory_sys_bytes",
			Help: "Total memory obtained from the OS in bytes",
		},
	)

	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_memory_usage_ratio",
			Help: "Working heap (heap minus cached variants) as a ratio of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_memory_paused",
			Help: "Whether transforms are paused due to memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_memory_gc_pauses_total",
			Help: "Total number of times transforms were paused for memory pressure",
		},
	)

	MemoryWaitTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_memory_wait_timeouts_total",
			Help: "Total number of transforms refused after waiting too long for memory",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_gallery_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
