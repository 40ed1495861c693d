package tileset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleRegistry = `
sheets:
  "0": tiles/potluck.png
  "-1": https://example.invalid/extra.png
atoms:
  grass:
    pic: [0, 1, 1]
    autotile_class: grass
    autotile_layout: 1
  water:
    pic: [0, 4, 0]
    anim_frames: 4
    anim_speed: 2
    anim_mode: 2
  fence:
    name: wood fence
    pic: ["-1", 0, 3]
    autotile_layout: 6
    density: true
    over: true
`

func TestParseRegistry(t *testing.T) {
	r, err := ParseRegistry([]byte(sampleRegistry))
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if got := r.Names(); !reflect.DeepEqual(got, []string{"fence", "grass", "water"}) {
		t.Fatalf("names = %v", got)
	}
	g, err := r.Lookup("grass")
	if err != nil {
		t.Fatalf("Lookup grass: %v", err)
	}
	if g.Name != "grass" || *g.Pic != (Pic{Sheet: "0", Col: 1, Row: 1}) || g.AutotileLayout != 1 {
		t.Fatalf("grass = %+v", g)
	}
	f, _ := r.Lookup("fence")
	if f.Name != "wood fence" || !f.Over || !f.Density || f.Pic.Sheet != "-1" {
		t.Fatalf("fence = %+v", f)
	}
	w, _ := r.Lookup("water")
	if w.AnimMode != AnimPingPong || !w.Animated() {
		t.Fatalf("water = %+v", w)
	}
	if loc, ok := r.SheetLocation("0"); !ok || loc != "tiles/potluck.png" {
		t.Fatalf("sheet 0 = %q %v", loc, ok)
	}
	if got := r.SheetIDs(); !reflect.DeepEqual(got, []string{"-1", "0"}) {
		t.Fatalf("sheet ids = %v", got)
	}
}

func TestParseRegistryRejectsBadLayout(t *testing.T) {
	_, err := ParseRegistry([]byte("atoms:\n  bad:\n    pic: [0, 0, 0]\n    autotile_layout: 16\n"))
	if err == nil {
		t.Fatalf("expected error for layout 16")
	}
	_, err = ParseRegistry([]byte("atoms:\n  bad:\n    pic: [0, 0]\n"))
	if err == nil {
		t.Fatalf("expected error for short pic")
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atoms.yaml")
	if err := os.WriteFile(path, []byte(sampleRegistry), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, err := r.Lookup("missing"); !errors.Is(err, ErrUnknownAtom) {
		t.Fatalf("Lookup missing err = %v", err)
	}
}

func TestResolve(t *testing.T) {
	r := NewRegistry()
	grass := &Atom{Name: "grass"}
	r.Add(grass)
	inline := &Atom{Name: "inline"}
	tests := []struct {
		ref  Ref
		want *Atom
	}{
		{Named("grass"), grass},
		{Inline(inline), inline},
		{Named("nope"), nil},
		{Ref{}, nil},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.ref); got != tt.want {
			t.Errorf("Resolve(%+v) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestRefJSON(t *testing.T) {
	var refs []Ref
	data := `["grass", {"name": "sign", "pic": [5, 2, 3], "type": "sign"}]`
	if err := json.Unmarshal([]byte(data), &refs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if refs[0].Name != "grass" || refs[0].Atom != nil {
		t.Fatalf("refs[0] = %+v", refs[0])
	}
	a := refs[1].Atom
	if a == nil || a.Type != "sign" || *a.Pic != (Pic{Sheet: "5", Col: 2, Row: 3}) {
		t.Fatalf("refs[1] = %+v", a)
	}
}

func TestPicRect(t *testing.T) {
	p := Pic{Col: 2, Row: 1}
	got := p.Rect(1, -1)
	if got.Min.X != 48 || got.Min.Y != 0 || got.Dx() != TileSize || got.Dy() != TileSize {
		t.Fatalf("Rect = %v", got)
	}
}

func TestAtomEqual(t *testing.T) {
	a := &Atom{Name: "sand", Pic: &Pic{Sheet: "0", Col: 3}}
	tests := []struct {
		name string
		o    *Atom
		want bool
	}{
		{"same pointer", a, true},
		{"same value", &Atom{Name: "sand", Pic: &Pic{Sheet: "0", Col: 3}}, true},
		{"other pic", &Atom{Name: "sand", Pic: &Pic{Sheet: "0", Col: 4}}, false},
		{"no pic", &Atom{Name: "sand"}, false},
		{"other field", &Atom{Name: "sand", Pic: &Pic{Sheet: "0", Col: 3}, Density: true}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		if got := a.Equal(tt.o); got != tt.want {
			t.Fatalf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
	var n *Atom
	if !n.Equal(nil) {
		t.Fatalf("nil atoms should be equal")
	}
}
