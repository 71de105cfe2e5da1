package components

import (
	"image"
	"time"
)

// LayoutComponent is the geometric state of a run in world pixels. It holds
// copies so rendering never aliases generator state.
type LayoutComponent struct {
	TileSize   int
	Cells      []image.Rectangle
	Rooms      []image.Rectangle
	Corridors  []image.Rectangle
	ExtraRooms []image.Rectangle
	// Edges join room centers, MST edges first then loops
	Edges    [][2]image.Point
	MSTEdges int
	Start    image.Point
	HasStart bool
	// Selected is the highlighted extra room, -1 for none
	Selected int
}

// NewLayoutComponent creates an empty layout
func NewLayoutComponent(tileSize int) *LayoutComponent {
	return &LayoutComponent{TileSize: tileSize, Selected: -1}
}

// Bounds returns the box around every cell and corridor
func (l *LayoutComponent) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, set := range [][]image.Rectangle{l.Cells, l.Corridors} {
		for _, c := range set {
			r = r.Union(c)
		}
	}
	return r
}

// SelectNext moves the extra room highlight forward, wrapping around
func (l *LayoutComponent) SelectNext() {
	if len(l.ExtraRooms) == 0 {
		l.Selected = -1
		return
	}
	l.Selected = (l.Selected + 1) % len(l.ExtraRooms)
}

// TileMapComponent carries the rasterized dungeon and its dual grid atlas
// coordinates. Atlas[y][x] is the display tile at (AtlasOriginX+x, AtlasOriginY+y).
type TileMapComponent struct {
	Grid         *TileGrid
	Atlas        [][]image.Point
	AtlasOriginX int
	AtlasOriginY int
}

// ProgressComponent tracks where the current run is in the pipeline
type ProgressComponent struct {
	RunID   string
	Seed    int64
	Stage   string
	Step    int
	Elapsed time.Duration
	Rooms   int
	// Err is the last pipeline error, empty when the run succeeded
	Err string
}

// Separating reports whether cells are still being pushed apart
func (p *ProgressComponent) Separating() bool {
	return p.Stage == "scattered" || p.Stage == "separating"
}

// CameraComponent tracks the viewport position in world pixels
type CameraComponent struct {
	X, Y float64
	// Zoom is screen pixels per world pixel
	Zoom float64
	// AutoFit keeps the active layout framed until the user pans or zooms
	AutoFit bool
}

// NewCameraComponent creates a camera at the origin that frames the layout
func NewCameraComponent(zoom float64) *CameraComponent {
	return &CameraComponent{Zoom: zoom, AutoFit: true}
}

// WorldToScreen converts world pixels to screen pixels
func (c *CameraComponent) WorldToScreen(x, y float64) (float64, float64) {
	return (x - c.X) * c.Zoom, (y - c.Y) * c.Zoom
}

// ScreenToWorld converts screen pixels to world pixels
func (c *CameraComponent) ScreenToWorld(x, y float64) (float64, float64) {
	return x/c.Zoom + c.X, y/c.Zoom + c.Y
}

// CenterOn moves the camera so (x, y) sits in the middle of a w by h screen
func (c *CameraComponent) CenterOn(x, y float64, w, h int) {
	c.X = x - float64(w)/(2*c.Zoom)
	c.Y = y - float64(h)/(2*c.Zoom)
}

// FitTo picks the zoom that shows r on a w by h screen and centers on it
func (c *CameraComponent) FitTo(r image.Rectangle, w, h int) {
	if r.Empty() || w <= 0 || h <= 0 {
		return
	}
	zx := float64(w) / float64(r.Dx())
	zy := float64(h) / float64(r.Dy())
	c.Zoom = min(zx, zy) * 0.9
	center := r.Min.Add(r.Max).Div(2)
	c.CenterOn(float64(center.X), float64(center.Y), w, h)
}

// IsVisible reports whether world rectangle r intersects a w by h screen
func (c *CameraComponent) IsVisible(r image.Rectangle, w, h int) bool {
	x0, y0 := c.WorldToScreen(float64(r.Min.X), float64(r.Min.Y))
	x1, y1 := c.WorldToScreen(float64(r.Max.X), float64(r.Max.Y))
	return x1 >= 0 && y1 >= 0 && x0 < float64(w) && y0 < float64(h)
}
