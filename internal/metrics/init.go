package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, op := range []string{"list_albums", "list_photos", "read_photo"} {
		CatalogOperationsTotal.WithLabelValues(op, "success")
		CatalogOperationsTotal.WithLabelValues(op, "not_found")
		CatalogOperationsTotal.WithLabelValues(op, "error")
		CatalogOperationDuration.WithLabelValues(op)
	}
	for _, op := range []string{"list_albums", "list_photos"} {
		CatalogItemsReturned.WithLabelValues(op)
	}

	for _, backend := range []string{"imaging", "vips"} {
		for _, status := range []string{"success", "error_decode", "error_encode"} {
			TransformsTotal.WithLabelValues(backend, status)
		}
	}

	for _, phase := range []string{"decode", "resize", "encode"} {
		TransformPhaseDuration.WithLabelValues(phase)
	}

	for _, format := range []string{"jpeg", "png", "gif", "webp", "bmp", "tiff", "unknown"} {
		DecodeByFormat.WithLabelValues(format)
	}

	for _, op := range []string{"stat", "open", "readdir", "readfile"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
