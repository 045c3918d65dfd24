package gallery

import (
	"context"
	"time"

	"photo-gallery/internal/cache"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/media"
	"photo-gallery/internal/workers"

	"golang.org/x/sync/semaphore"
)

// Store is the read side of the album tree.
type Store interface {
	ListAlbumEntries() ([]catalog.AlbumEntry, error)
	ListPhotoEntries(album string) ([]string, error)
	ReadPhotoBytes(album, photo string) ([]byte, error)
	IsSkipped(name string) bool
}

// Transformer produces variants and reads image dimensions.
type Transformer interface {
	Transform(data []byte) ([]byte, error)
	Dimensions(data []byte) (media.Dimensions, error)
}

// Backpressure holds back transforms while the process is short of memory.
type Backpressure interface {
	Wait(ctx context.Context) error
}

// Service answers album listings and serves photo variants.
type Service struct {
	store      Store
	engine     Transformer
	cache      cache.VariantCache
	dimensions bool
	ioWorkers  int
	transforms *semaphore.Weighted
	memory     Backpressure
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithDimensions enables width and height in album listings.
func WithDimensions(enabled bool) ServiceOption {
	return func(s *Service) {
		s.dimensions = enabled
	}
}

// WithTransformWorkers bounds the number of concurrent transforms.
func WithTransformWorkers(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.transforms = semaphore.NewWeighted(int64(n))
		}
	}
}

// WithListingWorkers bounds the number of files read in parallel when a
// listing reports dimensions.
func WithListingWorkers(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.ioWorkers = n
		}
	}
}

// WithBackpressure makes transforms wait on b before running.
func WithBackpressure(b Backpressure) ServiceOption {
	return func(s *Service) {
		s.memory = b
	}
}

// NewService wires a Service. Listings report dimensions by default.
func NewService(store Store, engine Transformer, variants cache.VariantCache, opts ...ServiceOption) *Service {
	s := &Service{
		store:      store,
		engine:     engine,
		cache:      variants,
		dimensions: true,
		ioWorkers:  workers.ForIO(16),
		transforms: semaphore.NewWeighted(int64(workers.ForCPU(0))),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
