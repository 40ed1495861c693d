package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"tilemaptown/backdrop"

	"github.com/hajimehoshi/ebiten/v2"
)

const SETTINGS_VERSION = 1

var gs settings = gsdef

// settingsLoaded reports whether settings were successfully loaded from disk.
var settingsLoaded bool

// settingsDirty is set whenever gs changes and should be written back.
var settingsDirty bool

var gsdef settings = settings{
	Version: SETTINGS_VERSION,

	WindowWidth:     initialWindowW,
	WindowHeight:    initialWindowH,
	ZoneSize:        backdrop.DefaultZoneSize,
	EdgeFade:        backdrop.DefaultEdgeFade,
	GameScale:       2,
	ScrollSpeed:     4,
	AnimTickMS:      100,
	SheetCacheMB:    64,
	FetchWorkers:    4,
	RetryIntervalMS: 5000,
	HUDFontSize:     12,
	ShowHUD:         true,
	ShowZones:       false,
	vsync:           true,
}

type settings struct {
	Version int

	WindowWidth  int
	WindowHeight int
	Fullscreen   bool

	// ZoneSize is the backdrop zone edge in tiles.
	ZoneSize int
	// EdgeFade is how many tiles linked maps take to fade out.
	EdgeFade int
	// GameScale is the integer-ish zoom applied to the world image.
	GameScale float64
	// ScrollSpeed is camera movement in world pixels per tick.
	ScrollSpeed float64
	// AnimTickMS is how often the animation timer advances.
	AnimTickMS int

	SheetCacheMB    int
	FetchWorkers    int
	RetryIntervalMS int
	// SheetBaseURL is prepended to relative sheet locations when set.
	SheetBaseURL string

	HUDFontSize float64
	ShowHUD     bool
	ShowZones   bool

	vsync bool
}

const settingsFile = "settings.json"

func loadSettings() bool {
	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		logWarn("load settings: %v", err)
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != SETTINGS_VERSION {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	gs = tmp
	gs.vsync = gsdef.vsync
	clampSettings()
	settingsLoaded = true
	return true
}

// clampSettings replaces out of range values with their defaults.
func clampSettings() {
	if gs.ZoneSize < 1 || gs.ZoneSize > 64 {
		gs.ZoneSize = gsdef.ZoneSize
	}
	if gs.EdgeFade < 0 || gs.EdgeFade > 32 {
		gs.EdgeFade = gsdef.EdgeFade
	}
	if gs.GameScale < 1 || gs.GameScale > 8 {
		gs.GameScale = gsdef.GameScale
	}
	if gs.ScrollSpeed <= 0 {
		gs.ScrollSpeed = gsdef.ScrollSpeed
	}
	if gs.AnimTickMS < 10 {
		gs.AnimTickMS = gsdef.AnimTickMS
	}
	if gs.SheetCacheMB < 1 {
		gs.SheetCacheMB = gsdef.SheetCacheMB
	}
	if gs.FetchWorkers < 1 {
		gs.FetchWorkers = gsdef.FetchWorkers
	}
	if gs.RetryIntervalMS <= 0 {
		gs.RetryIntervalMS = gsdef.RetryIntervalMS
	}
	if gs.HUDFontSize <= 0 {
		gs.HUDFontSize = gsdef.HUDFontSize
	}
	if gs.WindowWidth < 320 {
		gs.WindowWidth = gsdef.WindowWidth
	}
	if gs.WindowHeight < 240 {
		gs.WindowHeight = gsdef.WindowHeight
	}
}

func applySettings() {
	ebiten.SetVsyncEnabled(gs.vsync)
	ebiten.SetFullscreen(gs.Fullscreen)
	initFont()
}

func (s settings) retryInterval() time.Duration {
	return time.Duration(s.RetryIntervalMS) * time.Millisecond
}

func (s settings) animTick() time.Duration {
	return time.Duration(s.AnimTickMS) * time.Millisecond
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.MkdirAll(dataDirPath, 0o755); err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.Rename(path+".tmp", path); err != nil {
		logError("save settings: %v", err)
		return
	}
	settingsDirty = false
}
