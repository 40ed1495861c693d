package townmap

import "tilemaptown/tileset"

// Layer is a read-only view of one map layer with references resolved to
// atoms. It satisfies autotile.Layer.
type Layer struct {
	m       *Map
	r       tileset.Resolver
	objects bool
}

// TurfLayer views the turf of each cell.
func (m *Map) TurfLayer(r tileset.Resolver) Layer {
	return Layer{m: m, r: r}
}

// ObjLayer views the object stack of each cell.
func (m *Map) ObjLayer(r tileset.Resolver) Layer {
	return Layer{m: m, r: r, objects: true}
}

func (l Layer) InBounds(x, y int) bool { return l.m.InBounds(x, y) }

// Len returns how many atoms sit at (x,y).
func (l Layer) Len(x, y int) int {
	if !l.m.InBounds(x, y) {
		return 0
	}
	if l.objects {
		return len(l.m.objs[y*l.m.Width+x])
	}
	return 1
}

// At returns the i-th atom at (x,y), nil if unresolved.
func (l Layer) At(x, y, i int) *tileset.Atom {
	if !l.m.InBounds(x, y) {
		return nil
	}
	if l.objects {
		stack := l.m.objs[y*l.m.Width+x]
		if i < 0 || i >= len(stack) {
			return nil
		}
		return l.r.Resolve(stack[i])
	}
	if i != 0 {
		return nil
	}
	return l.r.Resolve(l.m.turfs[y*l.m.Width+x])
}
