package gallery

import (
	"fmt"
	"sort"
	"time"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/mediatypes"

	"golang.org/x/sync/errgroup"
)

// Photo is an entry in an album listing.
type Photo struct {
	Name   string `json:"name"`
	Alt    string `json:"alt"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ListAlbums returns album names, newest first. Albums with the same
// creation time keep the order the store returned them in.
func (s *Service) ListAlbums() ([]string, error) {
	entries, err := s.store.ListAlbumEntries()
	if err != nil {
		return nil, err
	}

	visible := entries[:0:0]
	for _, e := range entries {
		if !s.store.IsSkipped(e.Name) {
			visible = append(visible, e)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	names := make([]string, len(visible))
	for i, e := range visible {
		names[i] = e.Name
	}
	return names, nil
}

// ListPhotos returns the photos of an album in directory order. album is
// the raw identifier from the request path. When dimensions are enabled
// every photo is read and its header parsed, and the first failure fails
// the whole listing.
func (s *Service) ListPhotos(album string) ([]Photo, error) {
	name, err := catalog.DecodeName(album)
	if err != nil {
		return nil, err
	}

	files, err := s.store.ListPhotoEntries(name)
	if err != nil {
		return nil, err
	}

	photos := make([]Photo, len(files))
	for i, f := range files {
		photos[i] = Photo{
			Name: f,
			Alt:  mediatypes.AltText(f),
			URL:  PhotoURL(name, f),
		}
	}

	if !s.dimensions || len(photos) == 0 {
		return photos, nil
	}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(s.ioWorkers)
	for i := range photos {
		g.Go(func() error {
			data, err := s.store.ReadPhotoBytes(name, photos[i].Name)
			if err != nil {
				return err
			}
			dims, err := s.engine.Dimensions(data)
			if err != nil {
				return fmt.Errorf("photo %q: %w", photos[i].Name, err)
			}
			photos[i].Width = dims.Width
			photos[i].Height = dims.Height
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.Debug("Read dimensions for %d photos in album %q in %v", len(photos), name, since(start))
	return photos, nil
}

// PhotoURL returns the request path that serves a photo.
func PhotoURL(album, photo string) string {
	return "/photo/" + catalog.EncodeName(album) + "/" + catalog.EncodeName(photo)
}
