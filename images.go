package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/time/rate"
)

// errSheetTooLarge is returned for sheets that could never fit the cache.
var errSheetTooLarge = errors.New("sheet larger than cache")

// sheetStore serves tile sheets to the backdrop. Misses start a background
// fetch and report "not loaded"; when the fetch lands the backdrop is asked
// to redraw. Failed sheets are retried at most once per retry interval.
type sheetStore struct {
	ctx context.Context

	cache   *ristretto.Cache[string, backdrop.Image]
	maxCost int64

	locate  func(id string) string
	load    func(ctx context.Context, loc string) (image.Image, error)
	convert func(image.Image) backdrop.Image
	onLoad  func(id string)

	workers  sizedwaitgroup.SizedWaitGroup
	inflight sync.WaitGroup
	retry    time.Duration

	mu      sync.Mutex
	pending map[string]bool
	failed  map[string]*rate.Limiter
	sizes   map[string]int64

	loaded atomic.Int64
	bytes  atomic.Int64
}

type sheetStoreConfig struct {
	CacheBytes int64
	Workers    int
	Retry      time.Duration
	Locate     func(id string) string
	Load       func(ctx context.Context, loc string) (image.Image, error)
	Convert    func(image.Image) backdrop.Image
	OnLoad     func(id string)
}

func newSheetStore(ctx context.Context, cfg sheetStoreConfig) (*sheetStore, error) {
	if cfg.CacheBytes <= 0 {
		cfg.CacheBytes = int64(gsdef.SheetCacheMB) << 20
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Retry <= 0 {
		cfg.Retry = time.Duration(gsdef.RetryIntervalMS) * time.Millisecond
	}
	if cfg.Load == nil {
		cfg.Load = loadSheetImage
	}
	if cfg.Convert == nil {
		cfg.Convert = func(img image.Image) backdrop.Image { return newImageFromImage(img) }
	}
	if cfg.Locate == nil {
		cfg.Locate = func(id string) string { return id }
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, backdrop.Image]{
		NumCounters: 10000,
		MaxCost:     cfg.CacheBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("sheet cache: %w", err)
	}
	return &sheetStore{
		ctx:     ctx,
		cache:   cache,
		maxCost: cfg.CacheBytes,
		locate:  cfg.Locate,
		load:    cfg.Load,
		convert: cfg.Convert,
		onLoad:  cfg.OnLoad,
		workers: sizedwaitgroup.New(cfg.Workers),
		retry:   cfg.Retry,
		pending: make(map[string]bool),
		failed:  make(map[string]*rate.Limiter),
		sizes:   make(map[string]int64),
	}, nil
}

// Sheet implements backdrop.Sheets.
func (s *sheetStore) Sheet(id string) (backdrop.Image, bool) {
	if img, ok := s.cache.Get(id); ok {
		return img, true
	}
	s.request(id)
	return nil, false
}

// request starts a fetch of id unless one is running or the sheet failed
// too recently.
func (s *sheetStore) request(id string) {
	s.mu.Lock()
	if s.pending[id] {
		s.mu.Unlock()
		return
	}
	if lim, ok := s.failed[id]; ok && !lim.Allow() {
		s.mu.Unlock()
		return
	}
	s.pending[id] = true
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		s.workers.Add()
		defer s.workers.Done()
		defer s.inflight.Done()
		s.fetch(id)
	}()
}

func (s *sheetStore) fetch(id string) {
	loc := s.locate(id)
	cost, err := s.fetchInto(id, loc)

	s.mu.Lock()
	delete(s.pending, id)
	if err != nil {
		if _, ok := s.failed[id]; !ok {
			lim := rate.NewLimiter(rate.Every(s.retry), 1)
			lim.Allow()
			s.failed[id] = lim
		}
	} else {
		delete(s.failed, id)
		s.sizes[id] = cost
	}
	s.mu.Unlock()

	if err != nil {
		logWarn("sheet %s (%s): %v", id, loc, err)
		return
	}
	s.loaded.Add(1)
	s.bytes.Add(cost)
	logDebug("loaded sheet %s from %s (%s)", id, loc, humanize.Bytes(uint64(cost)))
	if s.onLoad != nil {
		s.onLoad(id)
	}
}

func (s *sheetStore) fetchInto(id, loc string) (int64, error) {
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := s.load(ctx, loc)
	if err != nil {
		return 0, err
	}
	b := src.Bounds()
	cost := int64(b.Dx()) * int64(b.Dy()) * 4
	if cost > s.maxCost {
		return 0, fmt.Errorf("%w: %s", errSheetTooLarge, humanize.Bytes(uint64(cost)))
	}
	img := s.convert(src)
	if !s.cache.Set(id, img, cost) {
		return 0, fmt.Errorf("cache rejected %s", humanize.Bytes(uint64(cost)))
	}
	s.cache.Wait()
	return cost, nil
}

// Wait blocks until every started fetch has finished.
func (s *sheetStore) Wait() { s.inflight.Wait() }

// Clear drops every cached sheet and forgets past failures.
func (s *sheetStore) Clear() {
	s.cache.Clear()
	s.mu.Lock()
	s.failed = make(map[string]*rate.Limiter)
	s.sizes = make(map[string]int64)
	s.mu.Unlock()
	s.bytes.Store(0)
}

// Usage reports how many sheets were loaded and their decoded size. Evicted
// sheets are still counted until the next Clear.
func (s *sheetStore) Usage() (sheets int, bytes uint64) {
	s.mu.Lock()
	n := len(s.sizes)
	s.mu.Unlock()
	return n, uint64(s.bytes.Load())
}

func (s *sheetStore) Close() {
	s.Wait()
	s.cache.Close()
}

func isURL(loc string) bool {
	return strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://")
}

// sheetLocator maps a sheet id to a file path or URL. Registry entries win;
// unknown ids fall back to sheets/<id>.png in the data directory.
func sheetLocator(reg *tileset.Registry, dataDir, baseURL string) func(string) string {
	return func(id string) string {
		loc, ok := "", false
		if reg != nil {
			loc, ok = reg.SheetLocation(id)
		}
		if !ok {
			if isURL(id) {
				return id
			}
			return filepath.Join(dataDir, "sheets", id+".png")
		}
		if isURL(loc) || filepath.IsAbs(loc) {
			return loc
		}
		if baseURL != "" {
			return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(filepath.ToSlash(loc), "/")
		}
		return filepath.Join(dataDir, loc)
	}
}

// loadSheetImage decodes a sheet from disk or over HTTP.
func loadSheetImage(ctx context.Context, loc string) (image.Image, error) {
	var r io.ReadCloser
	if isURL(loc) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("GET %v: %v", loc, resp.Status)
		}
		if resp.ContentLength > 0 {
			logDebug("fetching %v (%s)", loc, humanize.Bytes(uint64(resp.ContentLength)))
		}
		r = resp.Body
	} else {
		f, err := os.Open(loc)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", loc, err)
	}
	return img, nil
}
