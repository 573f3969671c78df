package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/DukeRupert/folio/internal/metrics"
	"github.com/DukeRupert/folio/internal/storage"
)

// MaxImageSize caps a single published image.
const MaxImageSize = 20 << 20

// publishCacheControl is set on uploaded objects. Image names are stable, so
// caches revalidate daily rather than treating objects as immutable.
const publishCacheControl = "public, max-age=86400"

// Asset is a published image.
type Asset struct {
	Name         string // path relative to the images directory
	URL          string
	ThumbnailURL string // empty when no thumbnail could be generated
	Width        int
	Height       int
}

// DefaultConcurrency is the number of images processed at once when none is
// configured.
const DefaultConcurrency = 4

// Library publishes images from the content directory to storage and
// resolves image names to their public URLs.
type Library struct {
	store       storage.Storage
	thumbs      ThumbnailProcessor
	concurrency int
	maxSize     int64
	logger      *slog.Logger

	mu     sync.RWMutex
	assets map[string]Asset
}

// NewLibrary creates an empty Library that processes up to concurrency
// images in parallel.
func NewLibrary(store storage.Storage, thumbs ThumbnailProcessor, concurrency int, logger *slog.Logger) *Library {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Library{
		store:       store,
		thumbs:      thumbs,
		concurrency: concurrency,
		maxSize:     MaxImageSize,
		logger:      logger,
		assets:      make(map[string]Asset),
	}
}

// Publish uploads every allowed image under dir in fsys, along with a
// thumbnail, and makes the result the library's asset set. Images published
// by an earlier run that are no longer present are removed from storage.
//
// A missing dir publishes nothing. Files that are not images, and images over
// MaxImageSize, are skipped; an image that cannot be thumbnailed is still
// published without one. The first upload error cancels the rest and leaves
// the previous asset set in place.
func (l *Library) Publish(ctx context.Context, fsys fs.FS, dir string) (int, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return ctx.Err()
	})
	if err != nil {
		return 0, fmt.Errorf("publish %s: %w", dir, err)
	}

	var (
		mu        sync.Mutex
		published = make(map[string]Asset, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, p := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := relName(dir, p)
			asset, ok, err := l.publishOne(gctx, fsys, p, name)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			if ok {
				mu.Lock()
				published[name] = asset
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("publish %s: %w", dir, err)
	}

	l.mu.Lock()
	previous := l.assets
	l.assets = published
	l.mu.Unlock()

	removed := l.removeStale(ctx, previous, published)

	l.logger.Info("media published",
		"dir", dir,
		"count", len(published),
		"removed", removed,
		"concurrency", l.concurrency,
	)
	return len(published), nil
}

// removeStale deletes the objects of assets in previous that are missing from
// current. Thumbnail keys still used by a current asset are kept. Delete
// failures are logged and leave the object behind.
func (l *Library) removeStale(ctx context.Context, previous, current map[string]Asset) int {
	live := make(map[string]bool, len(current))
	for name, asset := range current {
		if asset.ThumbnailURL != "" {
			live[storage.ThumbnailKey(name)] = true
		}
	}

	removed := 0
	for name, asset := range previous {
		if _, ok := current[name]; ok {
			continue
		}

		keys := []string{storage.ImageKey(name)}
		if thumbKey := storage.ThumbnailKey(name); asset.ThumbnailURL != "" && !live[thumbKey] {
			keys = append(keys, thumbKey)
		}
		for _, key := range keys {
			if err := l.store.Delete(ctx, key); err != nil {
				l.logger.Warn("failed to remove stale media", "key", key, "error", err)
				continue
			}
			l.logger.Debug("removed stale media", "key", key)
		}
		metrics.AssetsPublished.WithLabelValues("removed").Inc()
		removed++
	}
	return removed
}

func (l *Library) publishOne(ctx context.Context, fsys fs.FS, p, name string) (Asset, bool, error) {
	contentType := storage.DetectContentType("", p, nil)
	if !storage.IsAllowedImageType(contentType) {
		l.logger.Debug("skipping non-image file", "path", p, "content_type", contentType)
		return Asset{}, false, nil
	}

	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Asset{}, false, err
	}

	key := storage.ImageKey(name)
	err = l.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType:  contentType,
		MaxSize:      l.maxSize,
		Overwrite:    true,
		Public:       true,
		CacheControl: publishCacheControl,
	})
	if storage.IsTooLarge(err) {
		metrics.AssetsPublished.WithLabelValues("skipped").Inc()
		l.logger.Warn("skipping oversized image", "path", p, "max_bytes", l.maxSize)
		return Asset{}, false, nil
	}
	if err != nil {
		metrics.AssetsPublished.WithLabelValues("failed").Inc()
		return Asset{}, false, err
	}
	metrics.AssetsPublished.WithLabelValues("published").Inc()

	asset := Asset{Name: name}
	if asset.URL, err = l.store.URL(ctx, key, 0); err != nil {
		return Asset{}, false, err
	}

	thumb, width, height, err := l.thumbs.GenerateThumbnail(bytes.NewReader(data), ThumbnailMaxWidth, ThumbnailMaxHeight)
	if err != nil {
		metrics.ThumbnailsFailed.Inc()
		l.logger.Warn("thumbnail generation failed", "path", p, "error", err)
		return asset, true, nil
	}
	asset.Width, asset.Height = width, height

	thumbKey := storage.ThumbnailKey(name)
	err = l.store.Put(ctx, thumbKey, bytes.NewReader(thumb), storage.PutOptions{
		ContentType:  "image/jpeg",
		Overwrite:    true,
		Public:       true,
		CacheControl: publishCacheControl,
	})
	if err != nil {
		return Asset{}, false, err
	}
	if asset.ThumbnailURL, err = l.store.URL(ctx, thumbKey, 0); err != nil {
		return Asset{}, false, err
	}

	return asset, true, nil
}

// Asset returns the published image with the given name.
func (l *Library) Asset(name string) (Asset, bool) {
	if name == "" {
		return Asset{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assets[path.Clean(name)]
	return a, ok
}

// Names returns the names of all published images, sorted.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.assets))
	for name := range l.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func relName(dir, p string) string {
	if dir == "." || dir == "" {
		return p
	}
	rel := p[len(dir):]
	for len(rel) > 0 && rel[0] == '/' {
		rel = rel[1:]
	}
	return rel
}
