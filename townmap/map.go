package townmap

import (
	"tilemaptown/tileset"
)

// Edge link directions, clockwise from east.
const (
	EdgeEast = iota
	EdgeSouthEast
	EdgeSouth
	EdgeSouthWest
	EdgeWest
	EdgeNorthWest
	EdgeNorth
	EdgeNorthEast
	NumEdges
)

// EdgeDir is the sign of the x and y shift towards a linked map.
type EdgeDir struct {
	DX, DY int
}

// EdgeDirs holds the direction of each edge link slot.
var EdgeDirs = [NumEdges]EdgeDir{
	EdgeEast:      {1, 0},
	EdgeSouthEast: {1, 1},
	EdgeSouth:     {0, 1},
	EdgeSouthWest: {-1, 1},
	EdgeWest:      {-1, 0},
	EdgeNorthWest: {-1, -1},
	EdgeNorth:     {0, -1},
	EdgeNorthEast: {1, -1},
}

// Wallpaper is an image drawn under (or over) the map's default turf.
type Wallpaper struct {
	Sheet    string `json:"sheet"`
	OffsetX  int    `json:"offset_x,omitempty"`
	OffsetY  int    `json:"offset_y,omitempty"`
	Repeat   bool   `json:"repeat,omitempty"`
	OverTurf bool   `json:"over_turf,omitempty"`
}

// Info holds map-wide settings.
type Info struct {
	Name        string
	DefaultTurf tileset.Ref
	EdgeLinks   [NumEdges]string
	Wallpaper   *Wallpaper
}

// Map is a rectangular grid of turfs with object stacks per cell.
type Map struct {
	ID     string
	Width  int
	Height int
	Info   Info

	turfs []tileset.Ref
	objs  [][]tileset.Ref
}

// New returns a w×h map filled with the default turf.
func New(id string, w, h int, def tileset.Ref) *Map {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	m := &Map{
		ID:     id,
		Width:  w,
		Height: h,
		turfs:  make([]tileset.Ref, w*h),
		objs:   make([][]tileset.Ref, w*h),
	}
	m.Info.DefaultTurf = def
	for i := range m.turfs {
		m.turfs[i] = def
	}
	return m
}

// InBounds reports whether (x,y) is a cell of the map.
func (m *Map) InBounds(x, y int) bool {
	return m != nil && x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Turf returns the turf reference at (x,y), or the zero Ref off-map.
func (m *Map) Turf(x, y int) tileset.Ref {
	if !m.InBounds(x, y) {
		return tileset.Ref{}
	}
	return m.turfs[y*m.Width+x]
}

// SetTurf replaces the turf at (x,y). Off-map writes are ignored.
func (m *Map) SetTurf(x, y int, r tileset.Ref) {
	if m.InBounds(x, y) {
		m.turfs[y*m.Width+x] = r
	}
}

// Objs returns the object stack at (x,y), bottom first. The slice must not be
// modified.
func (m *Map) Objs(x, y int) []tileset.Ref {
	if !m.InBounds(x, y) {
		return nil
	}
	return m.objs[y*m.Width+x]
}

// AddObj pushes r on top of the object stack at (x,y).
func (m *Map) AddObj(x, y int, r tileset.Ref) {
	if m.InBounds(x, y) {
		i := y*m.Width + x
		m.objs[i] = append(m.objs[i], r)
	}
}

// SetObjs replaces the object stack at (x,y).
func (m *Map) SetObjs(x, y int, refs []tileset.Ref) {
	if m.InBounds(x, y) {
		m.objs[y*m.Width+x] = refs
	}
}

// IsDefaultTurf reports whether the cell holds the map's default turf.
func (m *Map) IsDefaultTurf(x, y int) bool {
	t := m.Turf(x, y)
	d := m.Info.DefaultTurf
	if t.IsZero() {
		return false
	}
	if t.Atom != nil || d.Atom != nil {
		return t.Atom.Equal(d.Atom)
	}
	return t.Name == d.Name
}

// Link returns the id of the map linked in direction dir.
func (m *Map) Link(dir int) (string, bool) {
	if m == nil || dir < 0 || dir >= NumEdges {
		return "", false
	}
	id := m.Info.EdgeLinks[dir]
	return id, id != ""
}

// LinkTo returns the first edge slot linking to map id.
func (m *Map) LinkTo(id string) (int, bool) {
	if m == nil || id == "" {
		return -1, false
	}
	for dir, link := range m.Info.EdgeLinks {
		if link == id {
			return dir, true
		}
	}
	return -1, false
}

// Shift returns how far the origin of a map of size (w,h) linked in dir sits
// from this map's origin, in tiles.
func (m *Map) Shift(dir int, w, h int) (int, int) {
	d := EdgeDirs[dir]
	var sx, sy int
	switch {
	case d.DX > 0:
		sx = m.Width
	case d.DX < 0:
		sx = -w
	}
	switch {
	case d.DY > 0:
		sy = m.Height
	case d.DY < 0:
		sy = -h
	}
	return sx, sy
}
