package backdrop

import "tilemaptown/townmap"

// Out-of-bounds signature bits.
const (
	offLeft = 1 << iota
	offRight
	offAbove
	offBelow
)

// edgeSlots maps an out-of-bounds signature to the edge link to follow.
// Signatures that are both left and right (or above and below) are -1.
var edgeSlots = [16]int{
	-1,                    // on the map
	townmap.EdgeWest,      // left
	townmap.EdgeEast,      // right
	-1,                    // left+right
	townmap.EdgeNorth,     // above
	townmap.EdgeNorthWest, // above+left
	townmap.EdgeNorthEast, // above+right
	-1,                    // above+left+right
	townmap.EdgeSouth,     // below
	townmap.EdgeSouthWest, // below+left
	townmap.EdgeSouthEast, // below+right
	-1,                    // below+left+right
	-1,                    // below+above
	-1,
	-1,
	-1,
}

// edgeSlot returns which edge link covers tile (x,y) relative to a w×h map,
// or -1 when the tile is on the map or the signature is invalid.
func edgeSlot(x, y, w, h int) int {
	sig := 0
	if x < 0 {
		sig |= offLeft
	}
	if x >= w {
		sig |= offRight
	}
	if y < 0 {
		sig |= offAbove
	}
	if y >= h {
		sig |= offBelow
	}
	return edgeSlots[sig]
}

// locate finds the map and local coordinates that supply tile (x,y) of m.
// dist is how many tiles past m's border the tile lies, 0 on m itself.
func locate(m *townmap.Map, maps Maps, x, y int) (src *townmap.Map, mx, my, dist int, ok bool) {
	if m.InBounds(x, y) {
		return m, x, y, 0, true
	}
	dir := edgeSlot(x, y, m.Width, m.Height)
	if dir < 0 || maps == nil {
		return nil, 0, 0, 0, false
	}
	id, linked := m.Link(dir)
	if !linked {
		return nil, 0, 0, 0, false
	}
	nb := maps.Map(id)
	if nb == nil {
		return nil, 0, 0, 0, false
	}
	sx, sy := m.Shift(dir, nb.Width, nb.Height)
	mx, my = x-sx, y-sy
	if !nb.InBounds(mx, my) {
		return nil, 0, 0, 0, false
	}
	return nb, mx, my, seamDistance(x, y, m.Width, m.Height), true
}

func seamDistance(x, y, w, h int) int {
	d := 0
	switch {
	case x < 0:
		d = -x
	case x >= w:
		d = x - w + 1
	}
	switch {
	case y < 0:
		d = max(d, -y)
	case y >= h:
		d = max(d, y-h+1)
	}
	return d
}
