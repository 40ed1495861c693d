package autotile

import "tilemaptown/tileset"

// Neighbor bits of an Index4 value. The layout tables depend on this order.
const (
	MatchWest = 1 << iota
	MatchEast
	MatchNorth
	MatchSouth
)

// Index4 packs the cardinal neighbor matches of (x,y) into [0,15].
func Index4(a *tileset.Atom, l Layer, x, y int) int {
	idx := 0
	if Matches(a, l, x-1, y) {
		idx |= MatchWest
	}
	if Matches(a, l, x+1, y) {
		idx |= MatchEast
	}
	if Matches(a, l, x, y-1) {
		idx |= MatchNorth
	}
	if Matches(a, l, x, y+1) {
		idx |= MatchSouth
	}
	return idx
}
