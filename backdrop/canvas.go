package backdrop

import (
	"image"

	"tilemaptown/townmap"
)

// Image is anything a Canvas can copy pixels from.
type Image interface {
	Bounds() image.Rectangle
}

// Canvas is a drawing surface. A Canvas is also an Image so the zone cache can
// be copied onto the screen.
type Canvas interface {
	Image
	// Clear fills r with opaque black.
	Clear(r image.Rectangle)
	// DrawImage copies sr of src to (x,y) scaled by alpha.
	DrawImage(src Image, sr image.Rectangle, x, y float64, alpha float32)
}

// Sheets hands out loaded sheet images. A false result means the image is
// not available yet; implementations start fetching it in the background.
type Sheets interface {
	Sheet(id string) (Image, bool)
}

// Maps looks up linked maps by id.
type Maps interface {
	Map(id string) *townmap.Map
}

// Camera is the viewport's top-left corner in the current map's pixel space.
type Camera struct {
	X, Y float64
}
