// Package assets downloads images referenced by test results and keeps
// them in on-disk cache keyed by resource id.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"trexport/config"
)

// maxSafeIDLen keeps cache file names well under file system limits.
const maxSafeIDLen = 64

// ErrNotImage is reported for assets which could not be rendered as image.
var ErrNotImage = errors.New("asset is not an image")

// Source downloads binary resource relative to TestRail base.
type Source interface {
	Download(ctx context.Context, path string) ([]byte, string, error)
}

// Asset is downloaded resource. Data must not be modified, it may be shared
// between callers.
type Asset struct {
	ID          string
	Data        []byte
	ContentType string
	IsImage     bool
	// Cached is set when asset was served from cache without network.
	Cached bool
}

// Fetcher downloads assets. It is safe for concurrent use, simultaneous
// requests for the same id result in a single download.
type Fetcher struct {
	src   Source
	dir   string
	reuse bool
	idx   *index
	group singleflight.Group
	log   *zap.Logger

	downloaded atomic.Int64
	reused     atomic.Int64
}

// NewFetcher creates fetcher. Empty cache directory disables caching.
func NewFetcher(src Source, cfg *config.CacheConfig, log *zap.Logger) (*Fetcher, error) {
	f := &Fetcher{
		src:   src,
		dir:   cfg.Directory,
		reuse: cfg.Reuse,
		log:   log.Named("assets"),
	}
	if f.dir == "" {
		return f, nil
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}
	idx, err := openIndex(filepath.Join(f.dir, IndexName))
	if err != nil {
		return nil, err
	}
	f.idx = idx
	return f, nil
}

// Fetch returns asset for ref. Network failures are returned as is (see
// testrail.FetchError), cache failures are only logged.
func (f *Fetcher) Fetch(ctx context.Context, ref Ref) (*Asset, error) {
	if ref.ID == "" {
		return nil, fmt.Errorf("%s: empty resource id", ref)
	}
	v, err, shared := f.group.Do(ref.ID, func() (any, error) {
		return f.fetch(ctx, ref)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		f.log.Debug("Shared download", zap.Stringer("ref", ref))
	}
	return v.(*Asset), nil
}

func (f *Fetcher) fetch(ctx context.Context, ref Ref) (*Asset, error) {
	if f.reuse && f.idx != nil {
		if a := f.fromCache(ref); a != nil {
			f.reused.Add(1)
			return a, nil
		}
	}

	data, declared, err := f.src.Download(ctx, ref.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	f.downloaded.Add(1)

	ct, ext, isImage := classify(data, declared)
	a := &Asset{ID: ref.ID, Data: data, ContentType: ct, IsImage: isImage}

	if f.idx != nil {
		if err := f.store(a, ext); err != nil {
			f.log.Warn("Unable to cache asset", zap.Stringer("ref", ref), zap.Error(err))
		}
	}
	return a, nil
}

func (f *Fetcher) fromCache(ref Ref) *Asset {
	e, err := f.idx.lookup(ref.ID)
	if err != nil {
		f.log.Warn("Cache lookup failed", zap.Stringer("ref", ref), zap.Error(err))
		return nil
	}
	if e == nil {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(f.dir, e.File))
	if err != nil || int64(len(data)) != e.Size {
		f.log.Debug("Stale cache entry", zap.Stringer("ref", ref), zap.String("file", e.File), zap.Error(err))
		return nil
	}
	ct, _, isImage := classify(data, e.ContentType)
	return &Asset{ID: ref.ID, Data: data, ContentType: ct, IsImage: isImage, Cached: true}
}

func (f *Fetcher) store(a *Asset, ext string) error {
	name := CacheFileName(a.ID, ext)

	tmp, err := os.CreateTemp(f.dir, ".fetch-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(a.Data)
	err = multierr.Append(err, tmp.Close())
	if err == nil {
		err = os.Rename(tmp.Name(), filepath.Join(f.dir, name))
	}
	if err != nil {
		return multierr.Append(err, os.Remove(tmp.Name()))
	}

	return f.idx.record(&Entry{
		ID:          a.ID,
		File:        name,
		ContentType: a.ContentType,
		Size:        int64(len(a.Data)),
		FetchedAt:   time.Now(),
	})
}

// Stats returns number of network downloads and cache hits so far.
func (f *Fetcher) Stats() (downloaded, reused int64) {
	return f.downloaded.Load(), f.reused.Load()
}

// Close releases cache index.
func (f *Fetcher) Close() error {
	if f.idx == nil {
		return nil
	}
	return f.idx.close()
}

// CacheFileName returns "<sanitized id>.<ext>". When sanitizing changes
// the id short hash of the original id is appended, so different ids never
// share a file.
func CacheFileName(id, ext string) string {
	if id == "" {
		return "unknown." + ext
	}
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
	if safe != id {
		sum := sha256.Sum256([]byte(id))
		safe = safe[:min(len(safe), maxSafeIDLen)] + "-" + hex.EncodeToString(sum[:4])
	}
	return safe + "." + ext
}
