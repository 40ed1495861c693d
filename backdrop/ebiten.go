package backdrop

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenCanvas draws onto an ebiten image.
type EbitenCanvas struct {
	Img *ebiten.Image
}

// NewEbitenCanvas allocates an unmanaged w×h canvas. It fits Config.NewCanvas.
func NewEbitenCanvas(w, h int) Canvas {
	img := ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true})
	return &EbitenCanvas{Img: img}
}

func (c *EbitenCanvas) Bounds() image.Rectangle { return c.Img.Bounds() }

func (c *EbitenCanvas) Clear(r image.Rectangle) {
	r = r.Intersect(c.Img.Bounds())
	if r.Empty() {
		return
	}
	c.Img.SubImage(r).(*ebiten.Image).Fill(color.Black)
}

func (c *EbitenCanvas) DrawImage(src Image, sr image.Rectangle, x, y float64, alpha float32) {
	var img *ebiten.Image
	switch s := src.(type) {
	case *ebiten.Image:
		img = s
	case *EbitenCanvas:
		img = s.Img
	default:
		return
	}
	if img == nil || sr.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest, DisableMipmaps: true}
	op.GeoM.Translate(x, y)
	if alpha < 1 {
		op.ColorScale.ScaleAlpha(alpha)
	}
	c.Img.DrawImage(img.SubImage(sr).(*ebiten.Image), op)
}
