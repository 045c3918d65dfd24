package gallery

import (
	"context"
	"fmt"
	"time"

	"photo-gallery/internal/cache"
	"photo-gallery/internal/catalog"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/mediatypes"
)

// PhotoResult is a served photo variant.
type PhotoResult struct {
	Data         []byte
	ContentType  string
	CacheControl string
}

// GetPhoto returns the reduced variant of a photo, computing it on first
// request. album and photo are raw identifiers from the request path. The
// first successful result for a photo is served for the life of the
// process, even if the file changes on disk.
//
// ctx only carries request values. Cancelling it does not abort a
// computation other requests may be waiting on.
func (s *Service) GetPhoto(ctx context.Context, album, photo string) (*PhotoResult, error) {
	albumName, err := catalog.DecodeName(album)
	if err != nil {
		return nil, err
	}
	photoName, err := catalog.DecodeName(photo)
	if err != nil {
		return nil, err
	}

	key := cache.Key(albumName, photoName)
	data, err := s.cache.GetOrCompute(key, func() ([]byte, error) {
		return s.render(context.WithoutCancel(ctx), albumName, photoName)
	})
	if err != nil {
		return nil, err
	}

	return &PhotoResult{
		Data:         data,
		ContentType:  mediatypes.ContentType(photoName),
		CacheControl: mediatypes.CacheControl,
	}, nil
}

// render reads the original and transforms it, holding a transform slot
// for the duration.
func (s *Service) render(ctx context.Context, album, photo string) ([]byte, error) {
	if s.memory != nil {
		if err := s.memory.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for memory: %w", err)
		}
	}

	original, err := s.store.ReadPhotoBytes(album, photo)
	if err != nil {
		return nil, err
	}

	if err := s.transforms.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.transforms.Release(1)

	start := time.Now()
	variant, err := s.engine.Transform(original)
	if err != nil {
		return nil, fmt.Errorf("photo %q: %w", photo, err)
	}

	logging.Debug("Rendered %s/%s: %d -> %d bytes in %v", album, photo, len(original), len(variant), since(start))
	return variant, nil
}
