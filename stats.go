package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"tilemaptown/backdrop"

	"github.com/dustin/go-humanize"
)

const statsFile = "stats.json"

// dataDirPath holds the absolute path to the directory containing settings,
// sheets and maps. On macOS the path resolves to the app's container
// directory. On other platforms the path is resolved relative to the
// executable so data is found regardless of the current working directory.
var dataDirPath = func() string {
	if runtime.GOOS == "darwin" {
		if home, err := os.UserHomeDir(); err == nil {
			if filepath.Base(home) == "Data" && filepath.Base(filepath.Dir(home)) == "com.tilemaptown.viewer" {
				home = filepath.Dir(home)
			} else {
				home = filepath.Join(home, "Library", "Containers", "com.tilemaptown.viewer")
			}
			_ = os.MkdirAll(home, 0o755)
			return home
		}
	}
	if exe, err := os.Executable(); err == nil {
		if dir, err := filepath.Abs(filepath.Dir(exe)); err == nil {
			return filepath.Join(dir, "data")
		}
	}
	// Fallback to relative path.
	return "data"
}()

// renderStats accumulates compositor counters across frames.
type renderStats struct {
	Frames       int `json:"frames"`
	Rendered     int `json:"zones_rendered"`
	Blits        int `json:"zones_blitted"`
	OverDraws    int `json:"over_draws"`
	CellFailures int `json:"cell_failures"`
	Dropped      int `json:"dropped"`

	// last holds the counters of the most recent frame.
	last backdrop.FrameState
}

var (
	stats   renderStats
	statsMu sync.Mutex
)

func (s *renderStats) add(fs *backdrop.FrameState) {
	if fs == nil {
		return
	}
	s.Frames++
	if fs.Dropped {
		s.Dropped++
		return
	}
	s.Rendered += fs.Rendered
	s.Blits += fs.Blits
	s.OverDraws += fs.OverDraws
	s.CellFailures += fs.CellFailures
	s.last = backdrop.FrameState{
		Rendered:     fs.Rendered,
		Blits:        fs.Blits,
		OverDraws:    fs.OverDraws,
		CellFailures: fs.CellFailures,
	}
}

func statFrame(fs *backdrop.FrameState) {
	statsMu.Lock()
	stats.add(fs)
	statsMu.Unlock()
}

// hudLines formats the counters for the on-screen HUD.
func (s *renderStats) hudLines(cacheBytes uint64, sheets int) []string {
	return []string{
		fmt.Sprintf("zones: %d rendered, %d blitted, %d over", s.last.Rendered, s.last.Blits, s.last.OverDraws),
		fmt.Sprintf("total: %s rendered, %s failed cells, %s dropped",
			humanize.Comma(int64(s.Rendered)), humanize.Comma(int64(s.CellFailures)), humanize.Comma(int64(s.Dropped))),
		fmt.Sprintf("sheets: %d cached, %s", sheets, humanize.Bytes(cacheBytes)),
	}
}

func saveStats() {
	statsMu.Lock()
	data, err := json.MarshalIndent(stats, "", "  ")
	statsMu.Unlock()
	if err != nil {
		log.Printf("save stats: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, statsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("save stats: %v", err)
	}
}
