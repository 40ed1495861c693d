package townmap

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMap is returned for map ids that were never loaded.
var ErrUnknownMap = errors.New("unknown map")

// World holds every loaded map by id.
type World struct {
	maps map[string]*Map
}

func NewWorld() *World {
	return &World{maps: make(map[string]*Map)}
}

// Add stores m, replacing any map with the same id.
func (w *World) Add(m *Map) {
	w.maps[m.ID] = m
}

// Map returns the map with the given id, or nil.
func (w *World) Map(id string) *Map {
	if w == nil {
		return nil
	}
	return w.maps[id]
}

// Get is Map with an error for missing ids.
func (w *World) Get(id string) (*Map, error) {
	if m := w.Map(id); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMap, id)
}

// IDs lists loaded map ids in sorted order.
func (w *World) IDs() []string {
	ids := make([]string, 0, len(w.maps))
	for id := range w.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
