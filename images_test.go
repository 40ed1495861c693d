package main

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{0xff, 0, 0, 0xff})
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

type storeCounters struct {
	mu     sync.Mutex
	loaded []string
	loads  atomic.Int32
}

func newTestStore(t *testing.T, dir string, cacheBytes int64, retry time.Duration) (*sheetStore, *storeCounters) {
	t.Helper()
	p := &storeCounters{}
	s, err := newSheetStore(context.Background(), sheetStoreConfig{
		CacheBytes: cacheBytes,
		Workers:    2,
		Retry:      retry,
		Locate:     func(id string) string { return filepath.Join(dir, id+".png") },
		Load: func(ctx context.Context, loc string) (image.Image, error) {
			p.loads.Add(1)
			return loadSheetImage(ctx, loc)
		},
		Convert: func(img image.Image) backdrop.Image { return img },
		OnLoad: func(id string) {
			p.mu.Lock()
			p.loaded = append(p.loaded, id)
			p.mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("newSheetStore: %v", err)
	}
	t.Cleanup(s.Close)
	return s, p
}

func TestSheetStoreLoadsOnMiss(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "0.png"), 64, 32)
	s, p := newTestStore(t, dir, 1<<20, time.Hour)

	if _, ok := s.Sheet("0"); ok {
		t.Fatalf("first lookup should miss")
	}
	s.Sheet("0")
	s.Wait()
	img, ok := s.Sheet("0")
	if !ok {
		t.Fatalf("sheet not cached after load")
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
	if n := p.loads.Load(); n != 1 {
		t.Fatalf("loads = %d, want 1", n)
	}
	if len(p.loaded) != 1 || p.loaded[0] != "0" {
		t.Fatalf("onLoad calls = %v", p.loaded)
	}
	if n, size := s.Usage(); n != 1 || size != 64*32*4 {
		t.Fatalf("usage = %d, %d", n, size)
	}
}

func TestSheetStoreRetryLimit(t *testing.T) {
	dir := t.TempDir()
	s, p := newTestStore(t, dir, 1<<20, time.Hour)

	s.Sheet("gone")
	s.Wait()
	for i := 0; i < 5; i++ {
		if _, ok := s.Sheet("gone"); ok {
			t.Fatalf("missing sheet reported as loaded")
		}
	}
	s.Wait()
	if n := p.loads.Load(); n != 1 {
		t.Fatalf("loads = %d, want 1 within the retry interval", n)
	}
	if len(p.loaded) != 0 {
		t.Fatalf("onLoad called for a failed sheet")
	}
}

func TestSheetStoreZeroRetryUsesDefault(t *testing.T) {
	dir := t.TempDir()
	s, p := newTestStore(t, dir, 1<<20, 0)

	for i := 0; i < 10; i++ {
		s.Sheet("gone")
		s.Wait()
	}
	if n := p.loads.Load(); n != 1 {
		t.Fatalf("loads = %d over 10 frames, want 1", n)
	}
}

func TestSheetStoreRetriesAfterInterval(t *testing.T) {
	dir := t.TempDir()
	s, p := newTestStore(t, dir, 1<<20, 10*time.Millisecond)

	s.Sheet("late")
	s.Wait()
	writePNG(t, filepath.Join(dir, "late.png"), 16, 16)
	time.Sleep(30 * time.Millisecond)
	s.Sheet("late")
	s.Wait()
	if _, ok := s.Sheet("late"); !ok {
		t.Fatalf("sheet not loaded on retry")
	}
	if n := p.loads.Load(); n != 2 {
		t.Fatalf("loads = %d, want 2", n)
	}
}

func TestSheetStoreTooLarge(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "big.png"), 64, 64)
	s, _ := newTestStore(t, dir, 1024, time.Hour)
	loc := s.locate("big")
	if _, err := s.fetchInto("big", loc); !errors.Is(err, errSheetTooLarge) {
		t.Fatalf("err = %v, want errSheetTooLarge", err)
	}
}

func TestSheetStoreClear(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "0.png"), 16, 16)
	s, p := newTestStore(t, dir, 1<<20, time.Hour)
	s.Sheet("0")
	s.Wait()
	s.Clear()
	if _, ok := s.Sheet("0"); ok {
		t.Fatalf("sheet survived Clear")
	}
	s.Wait()
	if n := p.loads.Load(); n != 2 {
		t.Fatalf("loads = %d, want a refetch after Clear", n)
	}
}

func TestPrecacheSheets(t *testing.T) {
	dir := t.TempDir()
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		writePNG(t, filepath.Join(dir, id+".png"), 16, 16)
	}
	s, p := newTestStore(t, dir, 1<<20, time.Hour)
	precacheSheets(s, ids, 2)
	for _, id := range ids {
		if _, ok := s.Sheet(id); !ok {
			t.Fatalf("sheet %s not precached", id)
		}
	}
	if n := p.loads.Load(); n != 4 {
		t.Fatalf("loads = %d", n)
	}
}

func TestSheetLocator(t *testing.T) {
	reg := tileset.NewRegistry()
	reg.AddSheet("town", "sheets/town.png")
	reg.AddSheet("remote", "https://example.com/remote.png")
	reg.AddSheet("abs", filepath.Join(string(filepath.Separator), "srv", "abs.png"))

	loc := sheetLocator(reg, "/data", "")
	tests := []struct {
		id, want string
	}{
		{"town", filepath.Join("/data", "sheets/town.png")},
		{"remote", "https://example.com/remote.png"},
		{"abs", filepath.Join(string(filepath.Separator), "srv", "abs.png")},
		{"0", filepath.Join("/data", "sheets", "0.png")},
		{"https://example.com/x.png", "https://example.com/x.png"},
	}
	for _, tt := range tests {
		if got := loc(tt.id); got != tt.want {
			t.Errorf("locate(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}

	web := sheetLocator(reg, "/data", "https://tiles.example.com/")
	if got := web("town"); got != "https://tiles.example.com/sheets/town.png" {
		t.Errorf("base url locate = %q", got)
	}
}

func TestLoadSheetImageHTTP(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "tiles.png"), 32, 16)
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	img, err := loadSheetImage(context.Background(), srv.URL+"/tiles.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("bounds = %v", b)
	}
	if _, err := loadSheetImage(context.Background(), srv.URL+"/nope.png"); err == nil {
		t.Fatalf("404 should fail")
	}
}

func TestMissingGlyph(t *testing.T) {
	img := missingGlyph()
	if b := img.Bounds(); b.Dx() != tileset.TileSize || b.Dy() != tileset.TileSize {
		t.Fatalf("bounds = %v", b)
	}
	if img.RGBAAt(0, 0) != missingBG {
		t.Fatalf("corner = %v", img.RGBAAt(0, 0))
	}
	fg := 0
	for y := 0; y < tileset.TileSize; y++ {
		for x := 0; x < tileset.TileSize; x++ {
			if img.RGBAAt(x, y) != missingBG {
				fg++
			}
		}
	}
	if fg == 0 {
		t.Fatalf("question mark not drawn")
	}
}
