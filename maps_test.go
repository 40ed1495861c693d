package main

import (
	"path/filepath"
	"testing"

	"tilemaptown/tileset"
	"tilemaptown/townmap"
)

func TestLoadWorldFollowsLinks(t *testing.T) {
	dir := t.TempDir()
	a := townmap.New("a", 4, 4, tileset.Named("grass"))
	a.Info.EdgeLinks[townmap.EdgeEast] = "b"
	a.Info.EdgeLinks[townmap.EdgeNorth] = "nowhere"
	b := townmap.New("b", 3, 4, tileset.Named("stone"))
	b.Info.EdgeLinks[townmap.EdgeWest] = "a"
	b.Info.EdgeLinks[townmap.EdgeSouth] = "c"
	c := townmap.New("c", 3, 2, tileset.Named("water"))

	for path, m := range map[string]*townmap.Map{
		"a.json":     a,
		"b.json.zst": b,
		"c.json":     c,
	} {
		if err := townmap.SaveFile(filepath.Join(dir, path), m); err != nil {
			t.Fatalf("save %s: %v", path, err)
		}
	}

	w, start, err := loadWorld(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("loadWorld: %v", err)
	}
	if start.ID != "a" {
		t.Fatalf("start = %s", start.ID)
	}
	ids := w.IDs()
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("ids = %v", ids)
	}
	if got := w.Map("b").Turf(0, 0).Name; got != "stone" {
		t.Fatalf("b turf = %q", got)
	}
}

func TestLoadWorldMissingStart(t *testing.T) {
	if _, _, err := loadWorld(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadLinkedRejectsPaths(t *testing.T) {
	for _, id := range []string{"../a", "x/y", ".."} {
		if _, err := loadLinked(t.TempDir(), id); err == nil {
			t.Errorf("id %q accepted", id)
		}
	}
}
