package handlers

import (
	"net/http"
	"strconv"

	"photo-gallery/internal/logging"
	"photo-gallery/internal/middleware"

	"github.com/gorilla/mux"
)

// retryAfterSeconds is sent with 503 responses.
const retryAfterSeconds = "5"

// ListAlbums handles GET /list.
func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.gallery.ListAlbums()
	if err != nil {
		logging.Error("listing albums failed [%s]: %v", middleware.RequestIDFromContext(r.Context()), err)
		writeJSONError(w, "unable to list albums", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, albums)
}

// GetAlbum handles GET /album/{name}.
func (h *Handlers) GetAlbum(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		writeJSONError(w, "album name is required", http.StatusBadRequest)
		return
	}

	photos, err := h.gallery.ListPhotos(name)
	if err != nil {
		h.writeLookupError(w, r, err, "no album with that name")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, photos)
}

// GetPhoto handles GET /photo/{album}/{photo}.
func (h *Handlers) GetPhoto(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	album, photo := vars["album"], vars["photo"]
	if album == "" || photo == "" {
		writeJSONError(w, "album and photo are required", http.StatusBadRequest)
		return
	}

	result, err := h.gallery.GetPhoto(r.Context(), album, photo)
	if err != nil {
		h.writeLookupError(w, r, err, "no photo with that name")
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Cache-Control", result.CacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(result.Data); err != nil {
		logging.Debug("writing photo response: %v", err)
	}
}

// MissingName answers routes where a required path segment is absent,
// such as /album/ or /photo/{album}/.
func (h *Handlers) MissingName(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, "missing album or photo name", http.StatusBadRequest)
}

// writeLookupError maps a gallery error onto a status and logs failures
// that are not the client's fault.
func (h *Handlers) writeLookupError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	status := statusForError(err)
	switch status {
	case http.StatusBadRequest:
		writeJSONError(w, "invalid album or photo name", status)
	case http.StatusNotFound:
		writeJSONError(w, notFound, status)
	case http.StatusServiceUnavailable:
		logging.Warn("%s %s refused [%s]: %v", r.Method, r.URL.EscapedPath(), middleware.RequestIDFromContext(r.Context()), err)
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSONError(w, "server busy, try again later", status)
	default:
		logging.Error("%s %s failed [%s]: %v", r.Method, r.URL.EscapedPath(), middleware.RequestIDFromContext(r.Context()), err)
		writeJSONError(w, http.StatusText(status), status)
	}
}
