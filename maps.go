package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tilemaptown/townmap"
)

// mapExts are tried in order when looking for a linked map next to the
// starting one.
var mapExts = []string{".json", ".json.zst"}

// loadWorld loads the map at path and every map reachable through edge
// links that has a file in the same directory. Missing neighbours are
// logged and skipped; the backdrop treats them as empty.
func loadWorld(path string) (*townmap.World, *townmap.Map, error) {
	start, err := townmap.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	w := townmap.NewWorld()
	w.Add(start)

	dir := filepath.Dir(path)
	queue := []*townmap.Map{start}
	tried := map[string]bool{start.ID: true}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		for _, id := range m.Info.EdgeLinks {
			if id == "" || tried[id] {
				continue
			}
			tried[id] = true
			nb, err := loadLinked(dir, id)
			if err != nil {
				logWarn("map %s links to %s: %v", m.ID, id, err)
				continue
			}
			if nb.ID != id {
				logWarn("map file for %s has id %s", id, nb.ID)
				nb.ID = id
			}
			w.Add(nb)
			queue = append(queue, nb)
		}
	}
	logDebug("loaded %d maps: %s", len(w.IDs()), strings.Join(w.IDs(), ", "))
	return w, start, nil
}

func loadLinked(dir, id string) (*townmap.Map, error) {
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("bad map id %q", id)
	}
	for _, ext := range mapExts {
		p := filepath.Join(dir, id+ext)
		m, err := townmap.LoadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return m, err
	}
	return nil, fmt.Errorf("%w: no file in %s", os.ErrNotExist, dir)
}
