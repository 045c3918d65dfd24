package handlers

import (
	"errors"
	"io"
	"net/http"
	"runtime"
	"time"

	"photo-gallery/internal/filesystem"
	"photo-gallery/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	AlbumDirReady bool   `json:"albumDirReady"`
	AlbumDirError string `json:"albumDirError,omitempty"`

	CachedVariants int   `json:"cachedVariants"`
	CachedBytes    int64 `json:"cachedBytes"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// albumDirStatus reports whether the album root can be listed.
func (h *Handlers) albumDirStatus() error {
	f, err := filesystem.OpenWithRetry(h.albumDir, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if err := h.albumDirStatus(); err != nil {
		response.Status = statusDegraded
		response.AlbumDirError = "album directory is not readable"
	} else {
		response.AlbumDirReady = true
	}

	if h.cache != nil {
		stats := h.cache.CacheStats()
		response.CachedVariants = stats.Entries
		response.CachedBytes = stats.Bytes
	}

	w.Header().Set("Content-Type", "application/json")
	if response.AlbumDirReady {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, response)
}

// LivenessCheck always returns 200 while the server is running
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONStatus(w, "alive", http.StatusOK)
}

// ReadinessCheck returns 200 only when the album directory can be read.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if err := h.albumDirStatus(); err != nil {
		writeJSONStatus(w, "not_ready", http.StatusServiceUnavailable)
		return
	}
	writeJSONStatus(w, "ready", http.StatusOK)
}
