// Package backdrop caches rendered map terrain in zones and redraws only the
// zones that changed.
package backdrop

// Level says how much work a zone needs on the next pass. Lower values are
// more urgent; a stored level only ever decreases until a pass consumes it.
type Level uint8

const (
	// Render redraws every cell of the zone and blits it.
	Render Level = iota
	// Animated redraws the zone because it holds animated cells.
	Animated
	// Redraw blits the cached zone without redrawing it.
	Redraw
	// Skip leaves the zone alone.
	Skip
)

func (l Level) String() string {
	switch l {
	case Render:
		return "render"
	case Animated:
		return "animated"
	case Redraw:
		return "redraw"
	case Skip:
		return "skip"
	}
	return "invalid"
}
