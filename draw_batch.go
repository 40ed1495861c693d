package main

import (
	"image/color"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"

	"github.com/hajimehoshi/ebiten/v2"
)

// rectBatch batches solid rectangle draws into a single DrawTriangles call.
type rectBatch struct {
	vs []ebiten.Vertex
	is []uint16
}

// Add appends a rectangle at the given destination coordinates and size using
// the provided RGBA color.
func (b *rectBatch) Add(x, y, w, h float32, clr color.RGBA) {
	start := uint16(len(b.vs))
	r, g, bcol, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	b.vs = append(b.vs,
		ebiten.Vertex{DstX: x, DstY: y, SrcX: 0, SrcY: 0, ColorR: r, ColorG: g, ColorB: bcol, ColorA: a},
		ebiten.Vertex{DstX: x + w, DstY: y, SrcX: 1, SrcY: 0, ColorR: r, ColorG: g, ColorB: bcol, ColorA: a},
		ebiten.Vertex{DstX: x, DstY: y + h, SrcX: 0, SrcY: 1, ColorR: r, ColorG: g, ColorB: bcol, ColorA: a},
		ebiten.Vertex{DstX: x + w, DstY: y + h, SrcX: 1, SrcY: 1, ColorR: r, ColorG: g, ColorB: bcol, ColorA: a},
	)
	b.is = append(b.is, start, start+1, start+2, start+1, start+3, start+2)
}

// Outline appends the four edges of a rectangle of thickness t.
func (b *rectBatch) Outline(x, y, w, h, t float32, clr color.RGBA) {
	b.Add(x, y, w, t, clr)
	b.Add(x, y+h-t, w, t, clr)
	b.Add(x, y+t, t, h-2*t, clr)
	b.Add(x+w-t, y+t, t, h-2*t, clr)
}

// Len returns the number of queued rectangles.
func (b *rectBatch) Len() int { return len(b.vs) / 4 }

// Draw flushes the accumulated rectangles onto dst and resets the batch.
func (b *rectBatch) Draw(dst *ebiten.Image) {
	if len(b.is) == 0 {
		return
	}
	dst.DrawTriangles(b.vs, b.is, whiteImage, nil)
	b.vs = b.vs[:0]
	b.is = b.is[:0]
}

// zoneColors is indexed by the level a zone had when the pass started.
var zoneColors = [...]color.RGBA{
	backdrop.Render:   {0xe0, 0x30, 0x30, 0xff},
	backdrop.Animated: {0x30, 0x90, 0xe0, 0xff},
	backdrop.Redraw:   {0xe0, 0xc0, 0x30, 0xff},
	backdrop.Skip:     {0x30, 0x30, 0x30, 0x80},
}

func zoneColor(l backdrop.Level) color.RGBA {
	if int(l) < len(zoneColors) {
		return zoneColors[l]
	}
	return color.RGBA{0xff, 0, 0xff, 0xff}
}

// addZoneOverlay outlines every visible zone of the last pass, coloured by
// the level it had before rendering. Zones that were redrawn get a faint fill.
func addZoneOverlay(batch *rectBatch, bd *backdrop.Backdrop, fs *backdrop.FrameState, scale float64) {
	if fs == nil || fs.Dropped || fs.Cols == 0 {
		return
	}
	zp := float64(bd.ZoneSize() * tileset.TileSize)
	size := float32(zp * scale)
	for row := 0; row < fs.Rows; row++ {
		for col := 0; col < fs.Cols; col++ {
			zx, zy := fs.ScrollX+col, fs.ScrollY+row
			i := bd.ZoneIndex(zx, zy)
			if i < 0 || i >= len(fs.Levels) {
				continue
			}
			x := float32((float64(zx)*zp - fs.Camera.X) * scale)
			y := float32((float64(zy)*zp - fs.Camera.Y) * scale)
			clr := zoneColor(fs.Levels[i])
			if fs.Blitted[i] && fs.Levels[i] != backdrop.Skip {
				fill := clr
				fill.A = 0x30
				batch.Add(x, y, size, size, fill)
			}
			batch.Outline(x, y, size, size, 1, clr)
		}
	}
}
