package handlers

import (
	"context"
	"time"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/startup"
)

// Gallery is the service the application routes are served from.
type Gallery interface {
	ListAlbums() ([]string, error)
	ListPhotos(album string) ([]gallery.Photo, error)
	GetPhoto(ctx context.Context, album, photo string) (*gallery.PhotoResult, error)
}

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	gallery   Gallery
	cache     metrics.StatsProvider
	albumDir  string
	startTime time.Time
}

// New creates the handler set. cache may be nil when no cache statistics
// should be reported.
func New(g Gallery, cache metrics.StatsProvider, config *startup.Config) *Handlers {
	return &Handlers{
		gallery:   g,
		cache:     cache,
		albumDir:  config.AlbumDir,
		startTime: time.Now(),
	}
}
