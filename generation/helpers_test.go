package generation

import (
	"testing"

	"ebiten-dungeon/components"

	"github.com/stretchr/testify/assert"
)

// tileSet returns every tile covered by cells
func tileSet(cells []Cell, tileSize int) map[Point]bool {
	set := make(map[Point]bool)
	for _, c := range cells {
		minX, minY, maxX, maxY := c.TileBounds(tileSize)
		for y := minY; y < maxY; y++ {
			for x := minX; x < maxX; x++ {
				set[Pt(x, y)] = true
			}
		}
	}
	return set
}

// flood returns the tiles of set 4-connected to start
func flood(set map[Point]bool, start Point) map[Point]bool {
	reached := map[Point]bool{}
	if !set[start] {
		return reached
	}
	reached[start] = true
	queue := []Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range cardinals {
			n := p.Add(d)
			if set[n] && !reached[n] {
				reached[n] = true
				queue = append(queue, n)
			}
		}
	}
	return reached
}

func floorSet(grid *components.TileGrid) map[Point]bool {
	set := make(map[Point]bool)
	grid.Each(func(x, y int, t components.Tile) {
		if t.Type == components.TileFloor {
			set[Pt(x, y)] = true
		}
	})
	return set
}

func worldToTile(p Point, tileSize int) Point {
	return Pt(floorDiv(p.X, tileSize), floorDiv(p.Y, tileSize))
}

// assertClosed checks that no floor touches an empty tile or the grid edge
func assertClosed(t *testing.T, grid *components.TileGrid) {
	t.Helper()
	grid.Each(func(x, y int, tile components.Tile) {
		if tile.Type != components.TileFloor {
			return
		}
		for _, d := range compass {
			nx, ny := x+d.X, y+d.Y
			if !assert.True(t, grid.InBounds(nx, ny), "floor (%d,%d) at the grid edge", x, y) {
				return
			}
			assert.NotEqual(t, components.TileNone, grid.TypeAt(nx, ny), "floor (%d,%d) open towards (%d,%d)", x, y, nx, ny)
		}
	})
}
