package autotile

import (
	"image"

	"tilemaptown/tileset"
)

// Layout identifies how an atom's sheet block is arranged.
type Layout int

const (
	LayoutNone Layout = iota
	LayoutNine
	LayoutNineStrips
	LayoutNineStripsSingle
	LayoutEightWay
	LayoutEightWaySingle
	LayoutHorizontal
	LayoutHorizontalAlone
	LayoutHorizontalSingle
	LayoutVertical
	LayoutVerticalAlone
	LayoutVerticalSingle
	LayoutQuarter16
	LayoutQuarter16Full
	LayoutQuarter8
	LayoutQuarter8Fill
	NumLayouts
)

const quarterSize = tileset.TileSize / 2

type offset struct{ X, Y int }

// layoutDef describes one layout. Layouts with an inner tile are drawn as four
// quadrants; the rest as one tile.
type layoutDef struct {
	stride int         // columns per animation frame
	tiles  *[16]offset // whole tile by Index4
	kinds  *[4]offset  // per-quadrant tile by outer/horizontal/vertical/fill
	inner  *offset     // inner turn tile
}

var layouts = [NumLayouts]layoutDef{
	LayoutNone:             {stride: 1},
	LayoutNine:             {stride: 3, tiles: &nineTile},
	LayoutNineStrips:       {stride: 4, tiles: &stripsCenter},
	LayoutNineStripsSingle: {stride: 4, tiles: &stripsSingle},
	LayoutEightWay:         {stride: 4, tiles: &stripsCenter, inner: &offset{-1, 3}},
	LayoutEightWaySingle:   {stride: 4, tiles: &stripsSingle, inner: &offset{-3, 1}},
	LayoutHorizontal:       {stride: 3, tiles: &horizontal},
	LayoutHorizontalAlone:  {stride: 4, tiles: &horizontalAlone},
	LayoutHorizontalSingle: {stride: 4, tiles: &horizontalSingle},
	LayoutVertical:         {stride: 1, tiles: &vertical},
	LayoutVerticalAlone:    {stride: 1, tiles: &verticalAlone},
	LayoutVerticalSingle:   {stride: 1, tiles: &verticalSingle},
	LayoutQuarter16:        {stride: 4, tiles: &quarter16, inner: &offset{0, 4}},
	LayoutQuarter16Full:    {stride: 4, tiles: &quarter16Full, inner: &offset{-3, 1}},
	LayoutQuarter8:         {stride: 4, kinds: &quarter8, inner: &offset{0, 1}},
	LayoutQuarter8Fill:     {stride: 4, kinds: &quarter8Fill, inner: &offset{-3, 1}},
}

// Split reports whether the layout composes cells from four quadrants.
func (l Layout) Split() bool {
	return l.valid() && layouts[l].inner != nil
}

// Stride returns how many sheet columns one animation frame occupies.
func (l Layout) Stride() int {
	if !l.valid() {
		return 1
	}
	return layouts[l].stride
}

func (l Layout) valid() bool { return l >= 0 && l < NumLayouts }

// Quadrant order of Source.Quads.
const (
	QuadNW = iota
	QuadNE
	QuadSW
	QuadSE
)

// quadrant neighbor checks: the horizontal and vertical neighbor bits and the
// diagonal direction that borders each quadrant.
var quadSides = [4]struct {
	h, v   int
	dx, dy int
}{
	QuadNW: {MatchWest, MatchNorth, -1, -1},
	QuadNE: {MatchEast, MatchNorth, 1, -1},
	QuadSW: {MatchWest, MatchSouth, -1, 1},
	QuadSE: {MatchEast, MatchSouth, 1, 1},
}

// Source is what to copy from a sheet for one cell: either one whole tile or
// four quarter tiles.
type Source struct {
	Sheet string
	Split bool
	Whole image.Rectangle
	Quads [4]image.Rectangle
}

// Each calls fn for every rectangle to copy with its offset inside the cell.
func (s Source) Each(fn func(src image.Rectangle, dx, dy int)) {
	if !s.Split {
		fn(s.Whole, 0, 0)
		return
	}
	for q, r := range s.Quads {
		fn(r, (q%2)*quarterSize, (q/2)*quarterSize)
	}
}

// Resolve picks the sheet rectangles for atom a at (x,y) on l, showing
// animation frame frame. It returns false when the atom has no pic.
func Resolve(a *tileset.Atom, l Layer, x, y, frame int) (Source, bool) {
	if a == nil || a.Pic == nil {
		return Source{}, false
	}
	layout := Layout(a.AutotileLayout)
	if !layout.valid() {
		layout = LayoutNone
	}
	def := &layouts[layout]
	shift := frame * def.stride
	src := Source{Sheet: a.Pic.Sheet}

	if def.inner == nil {
		var off offset
		if def.tiles != nil {
			off = def.tiles[Index4(a, l, x, y)]
		}
		src.Whole = a.Pic.Rect(off.X+shift, off.Y)
		return src, true
	}

	idx := Index4(a, l, x, y)
	src.Split = true
	for q, side := range quadSides {
		h := idx&side.h != 0
		v := idx&side.v != 0
		var off offset
		switch {
		case h && v && !Matches(a, l, x+side.dx, y+side.dy):
			off = *def.inner
		case def.tiles != nil:
			off = def.tiles[idx]
		default:
			kind := 0
			if h {
				kind |= 1
			}
			if v {
				kind |= 2
			}
			off = def.kinds[kind]
		}
		src.Quads[q] = quadrant(a.Pic.Rect(off.X+shift, off.Y), q)
	}
	return src, true
}

func quadrant(tile image.Rectangle, q int) image.Rectangle {
	x := tile.Min.X + (q%2)*quarterSize
	y := tile.Min.Y + (q/2)*quarterSize
	return image.Rect(x, y, x+quarterSize, y+quarterSize)
}
