package main

import (
	"image"
	"testing"
	"time"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"
	"tilemaptown/townmap"
)

func TestEdgeToward(t *testing.T) {
	tests := []struct {
		p    image.Point
		want int
	}{
		{image.Pt(2, 2), -1},
		{image.Pt(4, 1), townmap.EdgeEast},
		{image.Pt(-1, 1), townmap.EdgeWest},
		{image.Pt(1, -1), townmap.EdgeNorth},
		{image.Pt(1, 4), townmap.EdgeSouth},
		{image.Pt(4, 4), townmap.EdgeSouthEast},
		{image.Pt(-1, -1), townmap.EdgeNorthWest},
		{image.Pt(4, -1), townmap.EdgeNorthEast},
		{image.Pt(-1, 4), townmap.EdgeSouthWest},
	}
	for _, tt := range tests {
		if got := edgeToward(tt.p, 4, 4); got != tt.want {
			t.Errorf("edgeToward(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func testGame(t *testing.T) *Game {
	t.Helper()
	reg := tileset.NewRegistry()
	reg.Add(&tileset.Atom{Name: "grass", Pic: &tileset.Pic{Sheet: "0"}})
	reg.Add(&tileset.Atom{Name: "wall", Pic: &tileset.Pic{Sheet: "0", Col: 1}, Density: true})

	a := townmap.New("a", 4, 4, tileset.Named("grass"))
	b := townmap.New("b", 3, 4, tileset.Named("grass"))
	a.Info.EdgeLinks[townmap.EdgeEast] = "b"
	b.Info.EdgeLinks[townmap.EdgeWest] = "a"
	b.SetTurf(0, 2, tileset.Named("wall"))
	a.AddObj(1, 1, tileset.Named("wall"))

	w := townmap.NewWorld()
	w.Add(a)
	w.Add(b)
	bd := backdrop.New(backdrop.Config{Resolver: reg, Maps: w})
	bd.Resize(64, 64)
	return newGame(nil, w, a, reg, nil, bd)
}

func TestStepWithinMap(t *testing.T) {
	g := testGame(t)
	g.marker = image.Pt(2, 1)
	if !g.step(0, 1) || g.marker != image.Pt(2, 2) {
		t.Fatalf("marker = %v", g.marker)
	}
	if g.step(-1, -1) {
		t.Fatalf("stepped onto a dense object")
	}
	if g.marker != image.Pt(2, 2) {
		t.Fatalf("refused step moved the marker to %v", g.marker)
	}
}

func TestStepCrossesEdgeLink(t *testing.T) {
	g := testGame(t)
	g.marker = image.Pt(3, 1)
	g.cam = backdrop.Camera{X: 100, Y: 10}
	if !g.step(1, 0) {
		t.Fatalf("crossing refused")
	}
	if g.m.ID != "b" || g.marker != image.Pt(0, 1) {
		t.Fatalf("now on %s at %v", g.m.ID, g.marker)
	}
	if g.cam.X != 100-4*tileset.TileSize || g.cam.Y != 10 {
		t.Fatalf("camera = %+v", g.cam)
	}
	if g.bd.Map() != g.m {
		t.Fatalf("backdrop still on %s", g.bd.Map().ID)
	}

	// West goes back; south has no link.
	g.marker = image.Pt(0, 3)
	if g.step(0, 1) {
		t.Fatalf("crossed an unlinked edge")
	}
	if !g.step(-1, 0) || g.m.ID != "a" || g.marker != image.Pt(3, 3) {
		t.Fatalf("back on %s at %v", g.m.ID, g.marker)
	}
}

func TestStepIntoDenseNeighbour(t *testing.T) {
	g := testGame(t)
	g.marker = image.Pt(3, 2)
	if g.step(1, 0) {
		t.Fatalf("crossed onto a wall")
	}
	if g.m.ID != "a" {
		t.Fatalf("map switched to %s", g.m.ID)
	}
}

func TestTickAdvancesTimer(t *testing.T) {
	g := testGame(t)
	old := gs
	t.Cleanup(func() { gs = old })
	gs.AnimTickMS = 100

	t0 := time.Unix(1000, 0)
	g.tick(t0)
	if g.timer != 0 {
		t.Fatalf("first tick advanced the timer")
	}
	g.tick(t0.Add(250 * time.Millisecond))
	if g.timer != 2 {
		t.Fatalf("timer = %d, want 2", g.timer)
	}
	g.tick(t0.Add(299 * time.Millisecond))
	if g.timer != 2 {
		t.Fatalf("timer = %d after a short wait", g.timer)
	}
	g.tick(t0.Add(300 * time.Millisecond))
	if g.timer != 3 {
		t.Fatalf("timer = %d, want 3", g.timer)
	}
}

func TestResizeTracksScale(t *testing.T) {
	g := testGame(t)
	old := gs
	t.Cleanup(func() { gs = old })
	gs.GameScale = 2
	g.resize(641, 480)
	if g.viewW != 321 || g.viewH != 240 {
		t.Fatalf("view = %dx%d", g.viewW, g.viewH)
	}
	if !g.forceRedraw {
		t.Fatalf("resize should force a redraw")
	}
}
