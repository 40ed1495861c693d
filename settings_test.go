package main

import (
	"os"
	"path/filepath"
	"testing"
)

func withDataDir(t *testing.T) string {
	t.Helper()
	old := dataDirPath
	dataDirPath = t.TempDir()
	oldGS := gs
	t.Cleanup(func() {
		dataDirPath = old
		gs = oldGS
	})
	return dataDirPath
}

func TestLoadSettingsMissingFile(t *testing.T) {
	withDataDir(t)
	gs.ZoneSize = 99
	if loadSettings() {
		t.Fatalf("loadSettings reported success without a file")
	}
	if gs.ZoneSize != gsdef.ZoneSize {
		t.Fatalf("ZoneSize = %d, want default", gs.ZoneSize)
	}
}

func TestSaveLoadSettings(t *testing.T) {
	dir := withDataDir(t)
	gs = gsdef
	gs.ZoneSize = 12
	gs.ShowZones = true
	gs.SheetBaseURL = "https://example.com/tiles/"
	saveSettings()

	if _, err := os.Stat(filepath.Join(dir, settingsFile+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("temporary settings file left behind")
	}
	gs = gsdef
	if !loadSettings() {
		t.Fatalf("loadSettings failed")
	}
	if gs.ZoneSize != 12 || !gs.ShowZones || gs.SheetBaseURL != "https://example.com/tiles/" {
		t.Fatalf("settings not restored: %+v", gs)
	}
	if !gs.vsync {
		t.Fatalf("unexported fields should keep their defaults")
	}
}

func TestLoadSettingsVersionMismatch(t *testing.T) {
	dir := withDataDir(t)
	data := []byte(`{"Version": 0, "ZoneSize": 3}`)
	if err := os.WriteFile(filepath.Join(dir, settingsFile), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if loadSettings() {
		t.Fatalf("old settings version accepted")
	}
	if gs.ZoneSize != gsdef.ZoneSize {
		t.Fatalf("ZoneSize = %d", gs.ZoneSize)
	}
}

func TestLoadSettingsFillsMissingFields(t *testing.T) {
	dir := withDataDir(t)
	data := []byte(`{"Version": 1, "ScrollSpeed": 9}`)
	if err := os.WriteFile(filepath.Join(dir, settingsFile), data, 0o644); err != nil {
		t.Fatal(err)
	}
	if !loadSettings() {
		t.Fatalf("loadSettings failed")
	}
	if gs.ScrollSpeed != 9 || gs.AnimTickMS != gsdef.AnimTickMS {
		t.Fatalf("got %+v", gs)
	}
}

func TestClampSettings(t *testing.T) {
	withDataDir(t)
	gs = gsdef
	gs.ZoneSize = 0
	gs.EdgeFade = -1
	gs.GameScale = 100
	gs.AnimTickMS = 1
	gs.FetchWorkers = 0
	gs.SheetCacheMB = -5
	gs.WindowWidth = 10
	gs.RetryIntervalMS = 0
	clampSettings()
	if gs.ZoneSize != gsdef.ZoneSize || gs.EdgeFade != gsdef.EdgeFade ||
		gs.GameScale != gsdef.GameScale || gs.AnimTickMS != gsdef.AnimTickMS ||
		gs.FetchWorkers != gsdef.FetchWorkers || gs.SheetCacheMB != gsdef.SheetCacheMB ||
		gs.WindowWidth != gsdef.WindowWidth || gs.RetryIntervalMS != gsdef.RetryIntervalMS {
		t.Fatalf("clamp left bad values: %+v", gs)
	}
}
