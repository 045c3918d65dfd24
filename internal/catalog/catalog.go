package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"photo-gallery/internal/filesystem"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
)

var (
	// ErrNotFound is returned when the album root, an album, or a photo does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIO is returned for storage failures other than a missing path.
	ErrIO = errors.New("storage error")
	// ErrInvalidName is returned for names that cannot be used as a single path component.
	ErrInvalidName = errors.New("invalid name")
)

// DefaultSkipList holds sync-tool and OS metadata entries that are never
// exposed as albums or photos.
var DefaultSkipList = []string{".DS_Store", ".stfolder", ".stfolder/", ".jpg.gz"}

// AlbumEntry is an album directory as seen on disk.
type AlbumEntry struct {
	Name      string
	CreatedAt time.Time
}

// Catalog lists albums and photos under a root directory. It holds no
// state between calls; every listing reads the filesystem afresh.
type Catalog struct {
	root      string
	skip      map[string]bool
	retry     filesystem.RetryConfig
	birthTime func(path string) (time.Time, bool)
	now       func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSkipList replaces the default skip-list.
func WithSkipList(names []string) Option {
	return func(c *Catalog) {
		c.skip = toSet(names)
	}
}

// WithRetryConfig sets the NFS retry behaviour for filesystem calls.
func WithRetryConfig(cfg filesystem.RetryConfig) Option {
	return func(c *Catalog) {
		c.retry = cfg
	}
}

// WithBirthTimeFunc replaces the birth time source.
func WithBirthTimeFunc(fn func(path string) (time.Time, bool)) Option {
	return func(c *Catalog) {
		c.birthTime = fn
	}
}

// WithClock sets the clock used when no birth time is available.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New creates a Catalog rooted at root.
func New(root string, opts ...Option) *Catalog {
	c := &Catalog{
		root:      root,
		skip:      toSet(DefaultSkipList),
		retry:     filesystem.DefaultRetryConfig(),
		birthTime: filesystem.BirthTime,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsSkipped reports whether name is on the skip-list.
func (c *Catalog) IsSkipped(name string) bool {
	return c.skip[name]
}

// ListAlbumEntries returns the immediate children of the album root, minus
// skip-listed names, in directory order.
func (c *Catalog) ListAlbumEntries() (albums []AlbumEntry, err error) {
	defer observe("list_albums", time.Now(), &err)

	entries, err := filesystem.ReadDirWithRetry(c.root, c.retry)
	if err != nil {
		return nil, classify(err, "album root")
	}

	albums = make([]AlbumEntry, 0, len(entries))
	for _, entry := range entries {
		if c.IsSkipped(entry.Name()) {
			continue
		}
		albums = append(albums, AlbumEntry{
			Name:      entry.Name(),
			CreatedAt: c.createdAt(filepath.Join(c.root, entry.Name())),
		})
	}

	metrics.CatalogItemsReturned.WithLabelValues("list_albums").Observe(float64(len(albums)))
	return albums, nil
}

// ListPhotoEntries returns the file names inside album, minus skip-listed
// names, in directory order.
func (c *Catalog) ListPhotoEntries(album string) (photos []string, err error) {
	defer observe("list_photos", time.Now(), &err)

	if err := validateName(album); err != nil {
		return nil, err
	}

	entries, err := filesystem.ReadDirWithRetry(filepath.Join(c.root, album), c.retry)
	if err != nil {
		return nil, classify(err, "album")
	}

	photos = make([]string, 0, len(entries))
	for _, entry := range entries {
		if c.IsSkipped(entry.Name()) {
			continue
		}
		photos = append(photos, entry.Name())
	}

	metrics.CatalogItemsReturned.WithLabelValues("list_photos").Observe(float64(len(photos)))
	return photos, nil
}

// ReadPhotoBytes returns the full contents of a photo file.
func (c *Catalog) ReadPhotoBytes(album, photo string) (data []byte, err error) {
	defer observe("read_photo", time.Now(), &err)

	if err := validateName(album); err != nil {
		return nil, err
	}
	if err := validateName(photo); err != nil {
		return nil, err
	}

	data, err = filesystem.ReadFileWithRetry(filepath.Join(c.root, album, photo), c.retry)
	if err != nil {
		return nil, classify(err, "photo")
	}
	return data, nil
}

func (c *Catalog) createdAt(path string) time.Time {
	if t, ok := c.birthTime(path); ok {
		return t
	}
	logging.Debug("No birth time for %s, using current time", path)
	return c.now()
}

// classify maps a filesystem error onto ErrNotFound or ErrIO. The
// underlying error is kept in the chain for logging but the message does
// not include the filesystem path.
func classify(err error, what string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", what, ErrIO, unwrapPath(err))
}

// unwrapPath strips the *fs.PathError wrapper so the absolute path does not
// end up in error messages.
func unwrapPath(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

func observe(operation string, start time.Time, errp *error) {
	status := "success"
	switch {
	case *errp == nil:
	case errors.Is(*errp, ErrNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	metrics.CatalogOperationsTotal.WithLabelValues(operation, status).Inc()
	metrics.CatalogOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
