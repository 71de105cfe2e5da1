package generation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sideBySide() ([]Cell, []Point) {
	rooms := []Cell{
		{X: 0, Y: 0, Width: 160, Height: 160},
		{X: 320, Y: 0, Width: 160, Height: 160},
	}
	return rooms, []Point{rooms[0].Center(16), rooms[1].Center(16)}
}

func TestCarveStraightCorridor(t *testing.T) {
	rooms, centers := sideBySide()
	edges := []Edge{NewEdge(0, 1, centers)}

	corridors := Carver{TileSize: 16, Width: 2}.Carve(rand.New(rand.NewSource(1)), rooms, rooms, centers, edges)
	require.Len(t, corridors, 20, "ten tiles of gap, two tiles wide")

	for _, c := range corridors {
		assert.Equal(t, 16, c.Width)
		assert.Equal(t, 16, c.Height)
		assert.GreaterOrEqual(t, c.X, 160)
		assert.Less(t, c.X, 320)
		assert.Contains(t, []int{64, 80}, c.Y, "rows centred on the room centers")
	}
}

func TestCarveWidth(t *testing.T) {
	rooms, centers := sideBySide()
	edges := []Edge{NewEdge(0, 1, centers)}

	corridors := Carver{TileSize: 16, Width: 3}.Carve(rand.New(rand.NewSource(1)), rooms, rooms, centers, edges)
	require.Len(t, corridors, 30)

	rows := map[int]bool{}
	for _, c := range corridors {
		rows[c.Y] = true
	}
	assert.Equal(t, map[int]bool{64: true, 80: true, 96: true}, rows)
}

func TestCarveAbsorbsScatteredCells(t *testing.T) {
	rooms, centers := sideBySide()
	between := Cell{X: 192, Y: 48, Width: 64, Height: 64}
	aside := Cell{X: 192, Y: 400, Width: 64, Height: 64}
	scatter := append(append([]Cell(nil), rooms...), between, aside)

	corridors := Carver{TileSize: 16, Width: 2}.Carve(rand.New(rand.NewSource(1)), scatter, rooms, centers, []Edge{NewEdge(0, 1, centers)})

	assert.Contains(t, corridors, between)
	assert.NotContains(t, corridors, aside)
	// tiles 12..15 are inside the absorbed cell
	assert.Len(t, corridors, 1+12)
}

func TestCarveDeduplicatesEdges(t *testing.T) {
	rooms, centers := sideBySide()
	carver := Carver{TileSize: 16, Width: 2}

	once := carver.Carve(rand.New(rand.NewSource(1)), rooms, rooms, centers, []Edge{NewEdge(0, 1, centers)})
	twice := carver.Carve(rand.New(rand.NewSource(1)), rooms, rooms, centers, []Edge{NewEdge(0, 1, centers), NewEdge(1, 0, centers)})
	assert.Equal(t, once, twice)

	again := carver.CarveInto(rand.New(rand.NewSource(1)), rooms, rooms, centers, []Edge{NewEdge(0, 1, centers)}, once)
	assert.Empty(t, again, "existing corridor cells are not carved twice")
}

func TestCarveElbowConnects(t *testing.T) {
	rooms := []Cell{
		{X: 0, Y: 0, Width: 160, Height: 160},
		{X: 480, Y: 480, Width: 160, Height: 160},
	}
	centers := []Point{rooms[0].Center(16), rooms[1].Center(16)}

	for seed := int64(0); seed < 8; seed++ {
		corridors := Carver{TileSize: 16, Width: 2}.Carve(rand.New(rand.NewSource(seed)), rooms, rooms, centers, []Edge{NewEdge(0, 1, centers)})
		require.NotEmpty(t, corridors)

		tiles := tileSet(append(append([]Cell(nil), rooms...), corridors...), 16)
		reached := flood(tiles, worldToTile(centers[0], 16))
		assert.True(t, reached[worldToTile(centers[1], 16)], "seed %d leaves the rooms disconnected", seed)
	}
}

func TestCarveNoDuplicateTiles(t *testing.T) {
	rooms := []Cell{
		{X: 0, Y: 0, Width: 160, Height: 160},
		{X: 480, Y: 0, Width: 160, Height: 160},
		{X: 240, Y: 480, Width: 160, Height: 160},
	}
	centers := []Point{rooms[0].Center(16), rooms[1].Center(16), rooms[2].Center(16)}
	edges := []Edge{NewEdge(0, 1, centers), NewEdge(1, 2, centers), NewEdge(0, 2, centers)}

	corridors := Carver{TileSize: 16, Width: 2}.Carve(rand.New(rand.NewSource(5)), rooms, rooms, centers, edges)
	seen := map[Cell]bool{}
	for _, c := range corridors {
		assert.False(t, seen[c], "duplicate corridor cell %+v", c)
		seen[c] = true
		for _, r := range rooms {
			assert.False(t, r.Contains(c), "corridor cell %+v inside a room", c)
		}
	}
}

func TestCarveElbowLeavesStartRoom(t *testing.T) {
	// the midpoint column misses the small room but crosses the wide one
	rooms := []Cell{
		{X: 0, Y: 0, Width: 64, Height: 64},
		{X: 0, Y: 400, Width: 640, Height: 160},
	}
	centers := []Point{rooms[0].Center(16), rooms[1].Center(16)}

	corridors := Carver{TileSize: 16, Width: 2}.Carve(rand.New(rand.NewSource(1)), rooms, rooms, centers, []Edge{NewEdge(0, 1, centers)})
	require.NotEmpty(t, corridors)

	tiles := tileSet(append(append([]Cell(nil), rooms...), corridors...), 16)
	reached := flood(tiles, worldToTile(centers[0], 16))
	assert.True(t, reached[worldToTile(centers[1], 16)])
	assert.Len(t, reached, len(tiles), "every corridor tile joins the rooms")
}

func TestSegmentAbsorbsEdgeNeighborsOnly(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cell     Cell
		absorbed bool
	}{
		{"corner contact", Cell{X: -96, Y: 0, Width: 112, Height: 64}, false},
		{"edge contact", Cell{X: -96, Y: 0, Width: 128, Height: 64}, true},
		{"crossed", Cell{X: 16, Y: 128, Width: 64, Height: 64}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := Carver{TileSize: 16, Width: 2}.newBuilder([]Cell{tc.cell}, nil, nil)
			b.segment(Pt(32, 256), Pt(32, 64))

			if !tc.absorbed {
				assert.NotContains(t, b.corridors, tc.cell)
				return
			}
			assert.Contains(t, b.corridors, tc.cell)
			tiles := tileSet(b.corridors, 16)
			assert.Len(t, flood(tiles, Pt(2, 10)), len(tiles))
		})
	}
}
