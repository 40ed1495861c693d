package backdrop

import (
	"image"
	"sync"
	"sync/atomic"

	"tilemaptown/tileset"
	"tilemaptown/townmap"
)

const (
	DefaultZoneSize = 8
	DefaultEdgeFade = 4

	// minEdgeAlpha is how dim a linked map gets far from the seam.
	minEdgeAlpha = 0.25
)

// Missing is the placeholder drawn for cells whose sheet has not loaded.
type Missing struct {
	Sheet Image
	Rect  image.Rectangle
}

// Config wires a Backdrop to its collaborators.
type Config struct {
	// ZoneSize is the zone edge length in tiles.
	ZoneSize int
	// EdgeFade is how many tiles past a seam a linked map takes to fade to
	// its dimmest. Zero disables fading.
	EdgeFade int

	Resolver tileset.Resolver
	Maps     Maps
	Sheets   Sheets
	Missing  Missing

	// NewCanvas allocates the offscreen zone cache.
	NewCanvas func(w, h int) Canvas
}

// OverDraw is a cell deferred until after entities are drawn.
type OverDraw struct {
	// X and Y are the tile position in the current map's space.
	X, Y   int
	Atom   *tileset.Atom
	Map    *townmap.Map
	MapX   int
	MapY   int
	Object bool
	Alpha  float32
}

type zone struct {
	level    Level
	animated bool
	owned    bool
	owner    image.Point
	over     []OverDraw
}

// Backdrop is the zone cache for one viewport. All methods except
// RequestRerender must be called from the render goroutine; Render drops
// calls that overlap a pass in progress. Changes requested from inside a
// pass (from the Entities callback) are applied when the pass ends.
type Backdrop struct {
	mu  sync.Mutex
	cfg Config

	inPass  atomic.Bool
	pendMu  sync.Mutex
	pending []func()

	m     *townmap.Map
	viewW int
	viewH int
	cols  int
	rows  int
	zones []zone
	cache Canvas

	scrollX, scrollY int

	rerenderAll bool
	drawAll     bool
	requested   atomic.Bool

	lastCam Camera
	haveCam bool
}

// New returns a backdrop with no map and no viewport. Call Resize and SetMap
// before the first Render.
func New(cfg Config) *Backdrop {
	if cfg.ZoneSize <= 0 {
		cfg.ZoneSize = DefaultZoneSize
	}
	if cfg.EdgeFade < 0 {
		cfg.EdgeFade = 0
	}
	if cfg.Resolver == nil {
		cfg.Resolver = tileset.ResolverFunc(func(r tileset.Ref) *tileset.Atom { return r.Atom })
	}
	return &Backdrop{cfg: cfg}
}

// ZoneSize returns the zone edge length in tiles.
func (b *Backdrop) ZoneSize() int { return b.cfg.ZoneSize }

func (b *Backdrop) zonePixels() int { return b.cfg.ZoneSize * tileset.TileSize }

// Grid returns the zone grid dimensions.
func (b *Backdrop) Grid() (cols, rows int) { return b.cols, b.rows }

// Map returns the map being drawn.
func (b *Backdrop) Map() *townmap.Map { return b.m }

// Resize rebuilds the zone grid for a w×h pixel viewport. Every zone becomes
// dirty.
func (b *Backdrop) Resize(w, h int) {
	b.locked(func() { b.resizeLocked(w, h) })
}

func (b *Backdrop) resizeLocked(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	zp := b.zonePixels()
	cols := (w+zp-1)/zp + 1
	rows := (h+zp-1)/zp + 1
	b.viewW, b.viewH = w, h
	if cols != b.cols || rows != b.rows || b.cache == nil {
		b.cols, b.rows = cols, rows
		b.zones = make([]zone, cols*rows)
		if b.cfg.NewCanvas != nil {
			b.cache = b.cfg.NewCanvas(cols*zp, rows*zp)
		}
	}
	b.resetLocked()
}

// SetMap switches to m. Every zone becomes dirty.
func (b *Backdrop) SetMap(m *townmap.Map) {
	b.locked(func() {
		b.m = m
		b.resetLocked()
	})
}

func (b *Backdrop) resetLocked() {
	for i := range b.zones {
		b.zones[i] = zone{level: Render, over: b.zones[i].over[:0]}
	}
	b.rerenderAll = true
	b.drawAll = true
}

// RerenderAll forces every visible zone to be redrawn on the next pass.
func (b *Backdrop) RerenderAll() {
	b.locked(func() {
		b.rerenderAll = true
		b.drawAll = true
	})
}

// locked runs f holding b.mu. Inside a pass the mutex is already held by
// Render, so f is queued and run by finishPass instead.
func (b *Backdrop) locked(f func()) {
	if b.inPass.Load() {
		b.pendMu.Lock()
		b.pending = append(b.pending, f)
		b.pendMu.Unlock()
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	f()
}

// finishPass ends a pass and applies everything queued during it. b.mu must
// be held.
func (b *Backdrop) finishPass() {
	b.inPass.Store(false)
	b.pendMu.Lock()
	queued := b.pending
	b.pending = nil
	b.pendMu.Unlock()
	for _, f := range queued {
		f()
	}
}

// RequestRerender is RerenderAll for other goroutines, such as image loaders.
// The request is picked up by the next Render.
func (b *Backdrop) RequestRerender() {
	b.requested.Store(true)
}

// ZoneIndex wraps zone coordinates into the grid and returns the slot index.
func (b *Backdrop) ZoneIndex(zx, zy int) int {
	if b.cols == 0 || b.rows == 0 {
		return -1
	}
	return floorMod(zy, b.rows)*b.cols + floorMod(zx, b.cols)
}

// Level returns the pending level of the slot holding zone (zx,zy).
func (b *Backdrop) Level(zx, zy int) Level {
	i := b.ZoneIndex(zx, zy)
	if i < 0 {
		return Skip
	}
	return b.zones[i].level
}

// Scroll returns the zone coordinates of the top-left visible zone.
func (b *Backdrop) Scroll() (zx, zy int) { return b.scrollX, b.scrollY }

// MarkRegionDirty lowers the level of every visible zone touching the w×h
// tile rectangle at (x,y) of m. m may be the current map or any map linked
// from one of its edges; other maps are ignored.
func (b *Backdrop) MarkRegionDirty(m *townmap.Map, x, y, w, h int, level Level) {
	if m == nil || w <= 0 || h <= 0 || level > Skip {
		return
	}
	b.locked(func() { b.markRegionLocked(m, x, y, w, h, level) })
}

func (b *Backdrop) markRegionLocked(m *townmap.Map, x, y, w, h int, level Level) {
	if b.m == nil || len(b.zones) == 0 {
		return
	}
	if m.ID == b.m.ID {
		b.markLocked(x, y, w, h, level)
	}
	for dir, link := range b.m.Info.EdgeLinks {
		if link != m.ID {
			continue
		}
		sx, sy := b.m.Shift(dir, m.Width, m.Height)
		b.markLocked(x+sx, y+sy, w, h, level)
	}
}

func (b *Backdrop) markLocked(x, y, w, h int, level Level) {
	zs := b.cfg.ZoneSize
	zx0 := max(floorDiv(x, zs), b.scrollX)
	zy0 := max(floorDiv(y, zs), b.scrollY)
	zx1 := min(floorDiv(x+w-1, zs), b.scrollX+b.cols-1)
	zy1 := min(floorDiv(y+h-1, zs), b.scrollY+b.rows-1)
	for zy := zy0; zy <= zy1; zy++ {
		for zx := zx0; zx <= zx1; zx++ {
			z := &b.zones[b.ZoneIndex(zx, zy)]
			if level < z.level {
				z.level = level
			}
		}
	}
}

// MarkAroundPoint asks for the square of the given tile radius around pos to
// be blitted again, typically after an entity moved. A nil pos is ignored.
func (b *Backdrop) MarkAroundPoint(m *townmap.Map, pos *image.Point, radius int) {
	if pos == nil {
		return
	}
	if radius < 0 {
		radius = 0
	}
	b.MarkRegionDirty(m, pos.X-radius, pos.Y-radius, radius*2+1, radius*2+1, Redraw)
}

// MarkAnimated lowers every zone that held animated cells when it was last
// rendered to Animated. Call it on each animation tick.
func (b *Backdrop) MarkAnimated() {
	b.locked(func() {
		for i := range b.zones {
			z := &b.zones[i]
			if z.animated && z.level > Animated {
				z.level = Animated
			}
		}
	})
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
