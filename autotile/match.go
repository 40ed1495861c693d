// Package autotile picks the sub-tile a cell should draw from the cells
// around it.
package autotile

import "tilemaptown/tileset"

// Layer is the read-only view of one map layer the autotiler inspects.
// Len reports how many atoms are stacked at a cell; turf layers always hold
// one, object layers zero or more.
type Layer interface {
	InBounds(x, y int) bool
	Len(x, y int) int
	At(x, y, i int) *tileset.Atom
}

// Matches reports whether the cell at (x,y) continues subject. Cells off the
// layer count as a match so map borders never show a seam.
func Matches(subject *tileset.Atom, l Layer, x, y int) bool {
	if !l.InBounds(x, y) {
		return true
	}
	for i, n := 0, l.Len(x, y); i < n; i++ {
		if Same(subject, l.At(x, y, i)) {
			return true
		}
	}
	return false
}

// Same applies the autotile grouping rules to a pair of atoms.
func Same(subject, other *tileset.Atom) bool {
	if subject == nil || other == nil {
		return false
	}
	if subject.AutotileClass != "" && other.AutotileClassEdge == subject.AutotileClass {
		return true
	}
	if subject.Name != "" && other.AutotileClassEdge == subject.Name {
		return true
	}
	if subject.AutotileClass != "" {
		return other.AutotileClass == subject.AutotileClass
	}
	if subject.Name != "" {
		return other.Name == subject.Name
	}
	return false
}
