package main

import (
	"image"
	"image/color"
	"image/draw"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// whiteImage is a reusable 1x1 white pixel for solid rectangles.
var whiteImage *ebiten.Image

func init() {
	whiteImage = newImage(1, 1)
	whiteImage.Fill(color.White)
}

func newImage(w, h int) *ebiten.Image {
	return ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true})
}

func newImageFromImage(src image.Image) *ebiten.Image {
	return ebiten.NewImageFromImageWithOptions(src, &ebiten.NewImageFromImageOptions{Unmanaged: true})
}

var (
	missingBG = color.RGBA{0x50, 0x10, 0x50, 0xff}
	missingFG = color.RGBA{0xff, 0x80, 0xff, 0xff}
)

// missingGlyph draws the one-tile placeholder shown while a sheet loads: a
// dark square with a question mark.
func missingGlyph() *image.RGBA {
	const ts = tileset.TileSize
	img := image.NewRGBA(image.Rect(0, 0, ts, ts))
	draw.Draw(img, img.Bounds(), image.NewUniform(missingBG), image.Point{}, draw.Src)
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(missingFG),
		Face: face,
	}
	w := d.MeasureString("?")
	d.Dot = fixed.Point26_6{
		X: (fixed.I(ts) - w) / 2,
		Y: fixed.I(face.Ascent + (ts-face.Height)/2),
	}
	d.DrawString("?")
	return img
}

func newMissing() backdrop.Missing {
	img := missingGlyph()
	return backdrop.Missing{Sheet: newImageFromImage(img), Rect: img.Bounds()}
}
