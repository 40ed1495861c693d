package main

import (
	"context"
	"image"
	"image/color"
	"log"
	"math"
	"strings"
	"time"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"
	"tilemaptown/townmap"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	initialWindowW = 1024
	initialWindowH = 768
)

// worldRT holds the unscaled world. It is never cleared between frames;
// the backdrop only blits zones that changed.
var worldRT *ebiten.Image

var markerColor = color.RGBA{0xff, 0xd0, 0x20, 0xff}

// Game is the viewer state driven by ebiten.
type Game struct {
	ctx    context.Context
	world  *townmap.World
	reg    *tileset.Registry
	sheets *sheetStore
	bd     *backdrop.Backdrop

	m      *townmap.Map
	cam    backdrop.Camera
	marker image.Point

	timer    int
	lastTick time.Time

	viewW, viewH int
	forceRedraw  bool

	lastFS  *backdrop.FrameState
	overlay rectBatch
}

func newGame(ctx context.Context, world *townmap.World, start *townmap.Map, reg *tileset.Registry, sheets *sheetStore, bd *backdrop.Backdrop) *Game {
	g := &Game{
		ctx:    ctx,
		world:  world,
		reg:    reg,
		sheets: sheets,
		bd:     bd,
		m:      start,
		marker: image.Pt(start.Width/2, start.Height/2),
	}
	bd.SetMap(start)
	return g
}

// ensureWorldRT grows worldRT to at least w×h.
func ensureWorldRT(w, h int) bool {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if worldRT == nil || worldRT.Bounds().Dx() < w || worldRT.Bounds().Dy() < h {
		worldRT = newImage(w, h)
		return true
	}
	return false
}

func (g *Game) Update() error {
	if g.ctx != nil && g.ctx.Err() != nil {
		return ebiten.Termination
	}
	g.scroll()
	g.moveMarker()
	g.tick(time.Now())

	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		gs.ShowZones = !gs.ShowZones
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		gs.ShowHUD = !gs.ShowHUD
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		clearCaches(g)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.bd.RerenderAll()
	}
	return nil
}

func (g *Game) scroll() {
	dx, dy := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy++
	}
	speed := gs.ScrollSpeed
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		speed *= 4
	}
	g.cam.X += dx * speed
	g.cam.Y += dy * speed
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.centerOnMarker()
	}
}

func (g *Game) centerOnMarker() {
	const ts = tileset.TileSize
	g.cam.X = float64(g.marker.X*ts+ts/2) - float64(g.viewW)/2
	g.cam.Y = float64(g.marker.Y*ts+ts/2) - float64(g.viewH)/2
}

func (g *Game) moveMarker() {
	dx, dy := 0, 0
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		dx = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		dx = 1
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		dy = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		dy = 1
	default:
		return
	}
	g.step(dx, dy)
}

// step moves the marker one tile, crossing into a linked map when it walks
// off the edge. Moves onto dense tiles or unlinked edges are refused.
func (g *Game) step(dx, dy int) bool {
	old := g.marker
	next := old.Add(image.Pt(dx, dy))
	if !g.m.InBounds(next.X, next.Y) {
		return g.cross(next)
	}
	if g.dense(g.m, next.X, next.Y) {
		return false
	}
	g.marker = next
	g.bd.MarkAroundPoint(g.m, &old, 1)
	g.bd.MarkAroundPoint(g.m, &g.marker, 1)
	return true
}

func (g *Game) cross(next image.Point) bool {
	dir := edgeToward(next, g.m.Width, g.m.Height)
	if dir < 0 {
		return false
	}
	id, ok := g.m.Link(dir)
	if !ok {
		return false
	}
	nb := g.world.Map(id)
	if nb == nil {
		logDebug("edge link %s from %s is not loaded", id, g.m.ID)
		return false
	}
	sx, sy := g.m.Shift(dir, nb.Width, nb.Height)
	local := next.Sub(image.Pt(sx, sy))
	if !nb.InBounds(local.X, local.Y) || g.dense(nb, local.X, local.Y) {
		return false
	}
	logDebug("crossing from %s to %s at %v", g.m.ID, nb.ID, local)
	g.m = nb
	g.marker = local
	g.cam.X -= float64(sx * tileset.TileSize)
	g.cam.Y -= float64(sy * tileset.TileSize)
	g.bd.SetMap(nb)
	return true
}

func (g *Game) dense(m *townmap.Map, x, y int) bool {
	if a := g.reg.Resolve(m.Turf(x, y)); a != nil && a.Density {
		return true
	}
	for _, r := range m.Objs(x, y) {
		if a := g.reg.Resolve(r); a != nil && a.Density {
			return true
		}
	}
	return false
}

// edgeToward returns the edge slot whose direction matches the side(s) of a
// w×h map that p lies beyond, or -1.
func edgeToward(p image.Point, w, h int) int {
	var d townmap.EdgeDir
	switch {
	case p.X < 0:
		d.DX = -1
	case p.X >= w:
		d.DX = 1
	}
	switch {
	case p.Y < 0:
		d.DY = -1
	case p.Y >= h:
		d.DY = 1
	}
	if d == (townmap.EdgeDir{}) {
		return -1
	}
	for dir, e := range townmap.EdgeDirs {
		if e == d {
			return dir
		}
	}
	return -1
}

// tick advances the animation timer once per AnimTickMS and flags animated
// zones.
func (g *Game) tick(now time.Time) {
	if g.lastTick.IsZero() {
		g.lastTick = now
		return
	}
	step := gs.animTick()
	advanced := false
	for now.Sub(g.lastTick) >= step {
		g.lastTick = g.lastTick.Add(step)
		g.timer++
		advanced = true
	}
	if advanced {
		g.bd.MarkAnimated()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if ensureWorldRT(g.viewW, g.viewH) {
		g.forceRedraw = true
	}
	rt := worldRT.SubImage(image.Rect(0, 0, g.viewW, g.viewH)).(*ebiten.Image)
	fs := g.bd.Render(&backdrop.EbitenCanvas{Img: rt}, g.cam, backdrop.RenderOptions{
		Timer:       g.timer,
		ForceRedraw: g.forceRedraw,
		Entities:    g.drawEntities,
	})
	if fs.CellFailures > 0 {
		logDebug("frame had %d failed cells", fs.CellFailures)
	}
	if !fs.Dropped {
		g.forceRedraw = false
		g.lastFS = fs
	}
	statFrame(fs)

	screen.Clear()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest, DisableMipmaps: true}
	op.GeoM.Scale(gs.GameScale, gs.GameScale)
	screen.DrawImage(rt, op)

	if gs.ShowZones {
		addZoneOverlay(&g.overlay, g.bd, g.lastFS, gs.GameScale)
		g.overlay.Draw(screen)
	}
	if gs.ShowHUD {
		g.drawHUD(screen)
	}
}

// drawEntities draws the marker between the terrain and the over tiles. The
// marker is only drawn when its zone was blitted this pass, otherwise it
// would land on top of over tiles that were not redrawn.
func (g *Game) drawEntities(dst backdrop.Canvas, fs *backdrop.FrameState) {
	c, ok := dst.(*backdrop.EbitenCanvas)
	if !ok {
		return
	}
	zs := g.bd.ZoneSize()
	i := g.bd.ZoneIndex(g.marker.X/zs, g.marker.Y/zs)
	if i < 0 || i >= len(fs.Blitted) || !fs.Blitted[i] {
		return
	}
	const ts = tileset.TileSize
	x := float64(g.marker.X*ts) - fs.Camera.X
	y := float64(g.marker.Y*ts) - fs.Camera.Y
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest, DisableMipmaps: true}
	op.GeoM.Scale(ts-4, ts-4)
	op.GeoM.Translate(math.Floor(x)+2, math.Floor(y)+2)
	op.ColorScale.ScaleWithColor(markerColor)
	c.Img.DrawImage(whiteImage, op)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	if hudFace == nil {
		return
	}
	n, size := 0, uint64(0)
	if g.sheets != nil {
		n, size = g.sheets.Usage()
	}
	statsMu.Lock()
	lines := stats.hudLines(size, n)
	statsMu.Unlock()
	lines = append([]string{g.m.ID + " " + g.marker.String()}, lines...)

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.LineSpacing = gs.HUDFontSize * 1.3
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, strings.Join(lines, "\n"), hudFace, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth >= 320 && outsideHeight >= 240 {
		if gs.WindowWidth != outsideWidth || gs.WindowHeight != outsideHeight {
			gs.WindowWidth = outsideWidth
			gs.WindowHeight = outsideHeight
			settingsDirty = true
		}
	}
	g.resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// resize keeps the backdrop viewport in world pixels.
func (g *Game) resize(w, h int) {
	vw := int(math.Ceil(float64(w) / gs.GameScale))
	vh := int(math.Ceil(float64(h) / gs.GameScale))
	if vw == g.viewW && vh == g.viewH {
		return
	}
	g.viewW, g.viewH = vw, vh
	g.bd.Resize(vw, vh)
	g.forceRedraw = true
}

func runGame(ctx context.Context, g *Game) {
	ebiten.SetWindowTitle("Tilemap Town viewer - " + g.m.Info.Name)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	g.resize(gs.WindowWidth, gs.WindowHeight)
	g.centerOnMarker()

	op := &ebiten.RunGameOptions{ScreenTransparent: false}
	if err := ebiten.RunGameWithOptions(g, op); err != nil {
		log.Printf("ebiten: %v", err)
	}
	if settingsDirty {
		saveSettings()
	}
}
