package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/memory"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"status": status})
}

// statusForError maps gallery errors onto HTTP status codes. Undecodable
// photos are a server-side problem and map to 500 like I/O failures.
// Transforms refused for memory pressure or shutdown are retryable.
func statusForError(err error) int {
	switch {
	case errors.Is(err, memory.ErrPressure), errors.Is(err, memory.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, catalog.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
