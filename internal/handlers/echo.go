package handlers

import (
	"net/http"

	"photo-gallery/internal/logging"
)

// Echo answers any path no other route matched with the caller's
// User-Agent. It is a diagnostic fallback, not an error page.
func (h *Handlers) Echo(w http.ResponseWriter, r *http.Request) {
	ua := r.Header.Get("User-Agent")
	if ua == "" {
		ua = "Unknown"
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("Your user-agent is:\n\n" + ua)); err != nil {
		logging.Debug("writing echo response: %v", err)
	}
}
