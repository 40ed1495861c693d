package main

import (
	"image/color"
	"testing"

	"tilemaptown/backdrop"
)

func TestRectBatchAdd(t *testing.T) {
	var b rectBatch
	b.Add(1, 2, 3, 4, color.RGBA{0xff, 0, 0, 0xff})
	if len(b.vs) != 4 || len(b.is) != 6 {
		t.Fatalf("vs %d is %d", len(b.vs), len(b.is))
	}
	if v := b.vs[3]; v.DstX != 4 || v.DstY != 6 || v.ColorR != 1 || v.ColorG != 0 {
		t.Fatalf("corner vertex = %+v", v)
	}
	b.Outline(0, 0, 10, 10, 1, color.RGBA{A: 0xff})
	if b.Len() != 5 {
		t.Fatalf("Len = %d", b.Len())
	}
	if b.is[6] != 4 {
		t.Fatalf("second rect indices start at %d", b.is[6])
	}
}

func TestZoneColor(t *testing.T) {
	if zoneColor(backdrop.Render) == zoneColor(backdrop.Skip) {
		t.Fatalf("render and skip share a colour")
	}
	if c := zoneColor(backdrop.Level(9)); c != (color.RGBA{0xff, 0, 0xff, 0xff}) {
		t.Fatalf("invalid level colour = %v", c)
	}
}

func TestZoneOverlay(t *testing.T) {
	bd := backdrop.New(backdrop.Config{ZoneSize: 8})
	bd.Resize(128, 128)
	cols, rows := bd.Grid()
	if cols != 2 || rows != 2 {
		t.Fatalf("grid %dx%d", cols, rows)
	}
	n := cols * rows
	fs := &backdrop.FrameState{
		Camera:  backdrop.Camera{X: 10, Y: 0},
		Cols:    cols,
		Rows:    rows,
		Levels:  make([]backdrop.Level, n),
		Blitted: make([]bool, n),
	}
	for i := range fs.Levels {
		fs.Levels[i] = backdrop.Skip
	}
	fs.Levels[0] = backdrop.Render
	fs.Blitted[0] = true

	var b rectBatch
	addZoneOverlay(&b, bd, fs, 2)
	// Four outlines plus one fill for the rendered zone.
	if b.Len() != 4*4+1 {
		t.Fatalf("rects = %d", b.Len())
	}
	if b.vs[0].DstX != -20 || b.vs[1].DstX != -20+256 {
		t.Fatalf("fill spans %v..%v", b.vs[0].DstX, b.vs[1].DstX)
	}

	var none rectBatch
	addZoneOverlay(&none, bd, &backdrop.FrameState{Dropped: true}, 2)
	addZoneOverlay(&none, bd, nil, 2)
	if none.Len() != 0 {
		t.Fatalf("overlay drawn for an empty pass")
	}
}
