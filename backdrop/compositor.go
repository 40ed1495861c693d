package backdrop

import (
	"image"
	"math"

	"tilemaptown/autotile"
	"tilemaptown/tileset"
	"tilemaptown/townmap"
)

// RenderOptions are the per-frame inputs of Render.
type RenderOptions struct {
	// Timer drives tile animation.
	Timer int
	// ForceRedraw blits every visible zone, e.g. after dst was cleared.
	ForceRedraw bool
	// Entities draws everything that belongs between the terrain and the
	// over cells.
	Entities func(dst Canvas, fs *FrameState)
}

// FrameState records what one Render pass did. It is only valid until the
// next pass.
type FrameState struct {
	Camera           Camera
	ScrollX, ScrollY int
	Cols, Rows       int

	// Per-slot flags and the level each slot had when the pass started.
	Composited []bool
	Blitted    []bool
	Levels     []Level

	Rendered     int
	Blits        int
	OverDraws    int
	CellFailures int
	// Dropped is set when the pass was skipped because another was running.
	Dropped bool
}

// Render draws the visible part of the current map onto dst, re-rendering
// only the zones that need it.
func (b *Backdrop) Render(dst Canvas, cam Camera, opts RenderOptions) *FrameState {
	if !b.mu.TryLock() {
		return &FrameState{Camera: cam, Dropped: true}
	}
	defer b.mu.Unlock()
	b.inPass.Store(true)
	defer b.finishPass()

	n := len(b.zones)
	fs := &FrameState{
		Camera:     cam,
		Cols:       b.cols,
		Rows:       b.rows,
		Composited: make([]bool, n),
		Blitted:    make([]bool, n),
		Levels:     make([]Level, n),
	}
	if b.m == nil || b.cache == nil || n == 0 || dst == nil {
		return fs
	}
	if b.requested.Swap(false) {
		b.rerenderAll = true
		b.drawAll = true
	}

	zp := b.zonePixels()
	px := int(math.Floor(cam.X))
	py := int(math.Floor(cam.Y))
	b.scrollX, b.scrollY = floorDiv(px, zp), floorDiv(py, zp)
	fs.ScrollX, fs.ScrollY = b.scrollX, b.scrollY
	if !b.haveCam || cam != b.lastCam {
		b.drawAll = true
	}

	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.cols; col++ {
			zx, zy := b.scrollX+col, b.scrollY+row
			i := b.ZoneIndex(zx, zy)
			if fs.Composited[i] {
				continue
			}
			fs.Composited[i] = true
			z := &b.zones[i]
			level := z.level
			if !z.owned || z.owner != image.Pt(zx, zy) {
				level = Render
			}
			fs.Levels[i] = level

			if level <= Animated || b.rerenderAll {
				b.renderZone(i, zx, zy, opts.Timer, fs)
				fs.Rendered++
			}
			if b.drawAll || opts.ForceRedraw || level != Skip {
				dst.DrawImage(b.cache, b.slotRect(i), float64(zx*zp)-cam.X, float64(zy*zp)-cam.Y, 1)
				fs.Blitted[i] = true
				fs.Blits++
			}
			z.level = Skip
		}
	}

	if opts.Entities != nil {
		opts.Entities(dst, fs)
	}
	for i, blitted := range fs.Blitted {
		if !blitted {
			continue
		}
		for _, o := range b.zones[i].over {
			b.drawOver(dst, o, cam, opts.Timer, fs)
		}
	}

	b.rerenderAll = false
	b.drawAll = false
	b.lastCam, b.haveCam = cam, true
	return fs
}

func (b *Backdrop) slotRect(i int) image.Rectangle {
	zp := b.zonePixels()
	x := (i % b.cols) * zp
	y := (i / b.cols) * zp
	return image.Rect(x, y, x+zp, y+zp)
}

func (b *Backdrop) renderZone(i, zx, zy, timer int, fs *FrameState) {
	z := &b.zones[i]
	z.over = z.over[:0]
	z.animated = false
	z.owned = true
	z.owner = image.Pt(zx, zy)

	r := b.slotRect(i)
	b.cache.Clear(r)
	zs := b.cfg.ZoneSize
	for ty := 0; ty < zs; ty++ {
		for tx := 0; tx < zs; tx++ {
			dx := float64(r.Min.X + tx*tileset.TileSize)
			dy := float64(r.Min.Y + ty*tileset.TileSize)
			if !b.renderCell(z, zx*zs+tx, zy*zs+ty, dx, dy, timer) {
				fs.CellFailures++
			}
		}
	}
}

// renderCell draws tile (x,y) of the current map into the cache at (dx,dy).
// It reports false if drawing the cell panicked; the cell is left partly
// drawn and the rest of the zone carries on.
func (b *Backdrop) renderCell(z *zone, x, y int, dx, dy float64, timer int) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	src, mx, my, dist, found := locate(b.m, b.cfg.Maps, x, y)
	if !found {
		return true
	}
	alpha := b.fade(dist)
	res := b.cfg.Resolver

	if turf := res.Resolve(src.Turf(mx, my)); turf != nil {
		z.animated = z.animated || turf.Animated()
		if turf.Over {
			z.over = append(z.over, OverDraw{X: x, Y: y, Atom: turf, Map: src, MapX: mx, MapY: my, Alpha: alpha})
		} else {
			b.drawAtom(b.cache, turf, src.TurfLayer(res), mx, my, dx, dy, alpha, timer)
		}
	}
	if wp := src.Info.Wallpaper; wp != nil && (wp.OverTurf || src.IsDefaultTurf(mx, my)) {
		b.drawWallpaper(wp, mx, my, dx, dy, alpha)
	}
	objs := src.Objs(mx, my)
	if len(objs) == 0 {
		return true
	}
	layer := src.ObjLayer(res)
	for _, ref := range objs {
		a := res.Resolve(ref)
		if a == nil {
			continue
		}
		z.animated = z.animated || a.Animated()
		if a.Over {
			z.over = append(z.over, OverDraw{X: x, Y: y, Atom: a, Map: src, MapX: mx, MapY: my, Object: true, Alpha: alpha})
			continue
		}
		b.drawAtom(b.cache, a, layer, mx, my, dx, dy, alpha, timer)
	}
	return true
}

// fade returns the alpha for a tile dist tiles past the current map's edge.
func (b *Backdrop) fade(dist int) float32 {
	if dist <= 0 || b.cfg.EdgeFade <= 0 {
		return 1
	}
	a := 1 - float32(dist)/float32(b.cfg.EdgeFade+1)
	if a < minEdgeAlpha {
		a = minEdgeAlpha
	}
	return a
}

func (b *Backdrop) drawAtom(dst Canvas, a *tileset.Atom, l autotile.Layer, mx, my int, dx, dy float64, alpha float32, timer int) {
	src, ok := autotile.Resolve(a, l, mx, my, a.Frame(timer))
	if !ok {
		return
	}
	var img Image
	if b.cfg.Sheets != nil {
		img, ok = b.cfg.Sheets.Sheet(src.Sheet)
	} else {
		ok = false
	}
	if !ok {
		if miss := b.cfg.Missing; miss.Sheet != nil {
			dst.DrawImage(miss.Sheet, miss.Rect, dx, dy, alpha)
		}
		return
	}
	src.Each(func(r image.Rectangle, ox, oy int) {
		dst.DrawImage(img, r, dx+float64(ox), dy+float64(oy), alpha)
	})
}

func (b *Backdrop) drawWallpaper(wp *townmap.Wallpaper, mx, my int, dx, dy float64, alpha float32) {
	if b.cfg.Sheets == nil {
		return
	}
	img, ok := b.cfg.Sheets.Sheet(wp.Sheet)
	if !ok {
		return
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}
	const ts = tileset.TileSize
	u := mx*ts - wp.OffsetX
	v := my*ts - wp.OffsetY
	if !wp.Repeat {
		part := image.Rect(u, v, u+ts, v+ts).Intersect(image.Rect(0, 0, w, h))
		if part.Empty() {
			return
		}
		b.cache.DrawImage(img, part.Add(bounds.Min), dx+float64(part.Min.X-u), dy+float64(part.Min.Y-v), alpha)
		return
	}
	for y := v; y < v+ts; {
		sy := floorMod(y, h)
		sh := min(h-sy, v+ts-y)
		for x := u; x < u+ts; {
			sx := floorMod(x, w)
			sw := min(w-sx, u+ts-x)
			sr := image.Rect(sx, sy, sx+sw, sy+sh).Add(bounds.Min)
			b.cache.DrawImage(img, sr, dx+float64(x-u), dy+float64(y-v), alpha)
			x += sw
		}
		y += sh
	}
}

func (b *Backdrop) drawOver(dst Canvas, o OverDraw, cam Camera, timer int, fs *FrameState) {
	defer func() {
		if recover() != nil {
			fs.CellFailures++
		}
	}()
	l := o.Map.TurfLayer(b.cfg.Resolver)
	if o.Object {
		l = o.Map.ObjLayer(b.cfg.Resolver)
	}
	dx := float64(o.X*tileset.TileSize) - cam.X
	dy := float64(o.Y*tileset.TileSize) - cam.Y
	b.drawAtom(dst, o.Atom, l, o.MapX, o.MapY, dx, dy, o.Alpha, timer)
	fs.OverDraws++
}
