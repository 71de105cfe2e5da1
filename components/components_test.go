package components

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileGrid(t *testing.T) {
	g := NewTileGrid(-2, 3, 4, 2)

	assert.True(t, g.InBounds(-2, 3))
	assert.True(t, g.InBounds(1, 4))
	assert.False(t, g.InBounds(2, 4))
	assert.False(t, g.InBounds(-2, 2))

	g.Set(-1, 3, Tile{Type: TileFloor})
	g.Set(0, 4, Tile{Type: TileWall})
	g.Set(10, 10, Tile{Type: TileWall})

	assert.True(t, g.IsFloor(-1, 3))
	assert.True(t, g.IsWall(0, 4))
	assert.Equal(t, TileNone, g.TypeAt(10, 10))
	assert.Equal(t, 1, g.Count(TileFloor))
	assert.Equal(t, 1, g.Count(TileWall))
	assert.Equal(t, 6, g.Count(TileNone))

	var visited []image.Point
	g.Each(func(x, y int, _ Tile) { visited = append(visited, image.Pt(x, y)) })
	require.Len(t, visited, 8)
	assert.Equal(t, image.Pt(-2, 3), visited[0])
	assert.Equal(t, image.Pt(-1, 3), visited[1])
	assert.Equal(t, image.Pt(1, 4), visited[7])

	c := g.Clone()
	c.Set(-1, 3, Tile{Type: TileWall})
	assert.True(t, g.IsFloor(-1, 3))
	assert.Nil(t, (*TileGrid)(nil).Clone())
}

func TestTileMappingLookup(t *testing.T) {
	m := NewTileMappingComponent()

	for _, tc := range []struct {
		name  string
		tile  Tile
		glyph rune
	}{
		{"empty", Tile{}, ' '},
		{"open floor", Tile{Type: TileFloor, Variant: FloorOpen}, '.'},
		{"corner wall", Tile{Type: TileWall, Variant: WallTopLeft}, '┌'},
		{"cross", Tile{Type: TileWall, Variant: WallCross}, '┼'},
		{"opening", Tile{Type: TileFloor, Variant: FloorEdgeN, Opening: true}, '+'},
		{"corridor", Tile{Type: TileFloor, Variant: FloorEdgeN, Corridor: true}, m.Corridor.Glyph},
		{"solid", Tile{Type: TileWall}, m.Solid.Glyph},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.glyph, m.Lookup(tc.tile).Glyph)
		})
	}

	assert.Equal(t, '?', m.GetTileDefinition(-5).Glyph)
}

func TestCamera(t *testing.T) {
	c := NewCameraComponent(2)
	c.X, c.Y = 10, 20

	sx, sy := c.WorldToScreen(15, 30)
	assert.Equal(t, 10.0, sx)
	assert.Equal(t, 20.0, sy)

	wx, wy := c.ScreenToWorld(sx, sy)
	assert.Equal(t, 15.0, wx)
	assert.Equal(t, 30.0, wy)

	c.CenterOn(100, 100, 200, 100)
	assert.Equal(t, 50.0, c.X)
	assert.Equal(t, 75.0, c.Y)

	assert.True(t, c.IsVisible(image.Rect(90, 90, 110, 110), 200, 100))
	assert.False(t, c.IsVisible(image.Rect(0, 0, 10, 10), 200, 100))

	c.FitTo(image.Rect(0, 0, 400, 100), 200, 100)
	assert.InDelta(t, 0.45, c.Zoom, 1e-9)
	cx, cy := c.WorldToScreen(200, 50)
	assert.InDelta(t, 100, cx, 1e-9)
	assert.InDelta(t, 50, cy, 1e-9)
}

func TestLayout(t *testing.T) {
	l := NewLayoutComponent(16)
	assert.Equal(t, -1, l.Selected)
	l.SelectNext()
	assert.Equal(t, -1, l.Selected)

	l.Cells = []image.Rectangle{image.Rect(0, 0, 32, 32), image.Rect(64, -16, 96, 16)}
	l.Corridors = []image.Rectangle{image.Rect(32, 0, 48, 16)}
	assert.Equal(t, image.Rect(0, -16, 96, 32), l.Bounds())

	l.ExtraRooms = []image.Rectangle{image.Rect(0, 0, 1, 1), image.Rect(2, 2, 3, 3)}
	l.SelectNext()
	assert.Equal(t, 0, l.Selected)
	l.SelectNext()
	l.SelectNext()
	assert.Equal(t, 0, l.Selected)

	p := &ProgressComponent{Stage: "separating"}
	assert.True(t, p.Separating())
	p.Stage = "rasterized"
	assert.False(t, p.Separating())
}
