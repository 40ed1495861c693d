package main

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
)

// clearCaches drops every decoded sheet and asks the backdrop to redraw,
// which refetches whatever is still on screen.
func clearCaches(g *Game) {
	if g.sheets != nil {
		g.sheets.Clear()
	}
	if g.bd != nil {
		g.bd.RerenderAll()
	}
}

// precacheSheets fetches every sheet the registry names before the first
// frame needs them.
func precacheSheets(store *sheetStore, ids []string, workers int) {
	if store == nil || len(ids) == 0 {
		return
	}
	start := time.Now()
	logDebug("precaching %d sheets", len(ids))

	wg := sizedwaitgroup.New(max(workers, 1))
	for _, id := range ids {
		wg.Add()
		go func(id string) {
			defer wg.Done()
			store.request(id)
		}(id)
	}
	wg.Wait()
	store.Wait()

	n, size := store.Usage()
	logDebug("precached %d of %d sheets (%s) in %v", n, len(ids), humanize.Bytes(size), time.Since(start).Round(time.Millisecond))
}
