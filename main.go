package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tilemaptown/backdrop"
	"tilemaptown/tileset"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	mapPath   string
	atomsPath string
	doDebug   bool
	precache  bool
)

func main() {
	flag.StringVar(&mapPath, "map", "", "map file to view (.json or .json.zst)")
	flag.StringVar(&atomsPath, "atoms", "", "atom registry (YAML); defaults to atoms.yaml in the data dir")
	flag.StringVar(&dataDirPath, "data", dataDirPath, "data directory holding settings, sheets and maps")
	zone := flag.Int("zone", 0, "zone size in tiles (overrides settings)")
	scale := flag.Float64("scale", 0, "world zoom (overrides settings)")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	zones := flag.Bool("zones", false, "show the zone overlay")
	flag.BoolVar(&precache, "precache", false, "load every registered sheet before the first frame")
	flag.Parse()

	setupLogging(doDebug)
	loadSettings()
	if *zone > 0 {
		gs.ZoneSize = *zone
	}
	if *scale > 0 {
		gs.GameScale = *scale
	}
	if *zones {
		gs.ShowZones = true
	}
	clampSettings()
	applySettings()
	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)

	if mapPath == "" {
		mapPath = flag.Arg(0)
	}
	if mapPath == "" {
		logError("no map given; use -map path/to/map.json")
		os.Exit(2)
	}
	if atomsPath == "" {
		atomsPath = filepath.Join(dataDirPath, "atoms.yaml")
	}

	reg, err := tileset.LoadRegistry(atomsPath)
	if err != nil {
		logError("load atoms: %v", err)
		os.Exit(1)
	}
	world, start, err := loadWorld(mapPath)
	if err != nil {
		logError("load map: %v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var bd *backdrop.Backdrop
	sheets, err := newSheetStore(ctx, sheetStoreConfig{
		CacheBytes: int64(gs.SheetCacheMB) << 20,
		Workers:    gs.FetchWorkers,
		Retry:      gs.retryInterval(),
		Locate:     sheetLocator(reg, dataDirPath, gs.SheetBaseURL),
		OnLoad: func(string) {
			if bd != nil {
				bd.RequestRerender()
			}
		},
	})
	if err != nil {
		logError("%v", err)
		os.Exit(1)
	}
	defer sheets.Close()

	bd = backdrop.New(backdrop.Config{
		ZoneSize:  gs.ZoneSize,
		EdgeFade:  gs.EdgeFade,
		Resolver:  reg,
		Maps:      world,
		Sheets:    sheets,
		Missing:   newMissing(),
		NewCanvas: backdrop.NewEbitenCanvas,
	})

	if precache {
		precacheSheets(sheets, reg.SheetIDs(), gs.FetchWorkers)
	}

	defer saveStats()
	runGame(ctx, newGame(ctx, world, start, reg, sheets, bd))
}
