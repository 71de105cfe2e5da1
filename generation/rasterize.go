package generation

import (
	"ebiten-dungeon/components"

	"github.com/zyedidia/generic/mapset"
)

// tileRect is an inclusive-exclusive rectangle in tile coordinates
type tileRect struct {
	minX, minY, maxX, maxY int
	empty                  bool
}

func emptyRect() tileRect { return tileRect{empty: true} }

func (r tileRect) include(minX, minY, maxX, maxY int) tileRect {
	if r.empty {
		return tileRect{minX: minX, minY: minY, maxX: maxX, maxY: maxY}
	}
	return tileRect{
		minX: min(r.minX, minX), minY: min(r.minY, minY),
		maxX: max(r.maxX, maxX), maxY: max(r.maxY, maxY),
	}
}

func (r tileRect) union(o tileRect) tileRect {
	if o.empty {
		return r
	}
	return r.include(o.minX, o.minY, o.maxX, o.maxY)
}

func (r tileRect) pad(n int) tileRect {
	if r.empty {
		return r
	}
	return tileRect{minX: r.minX - n, minY: r.minY - n, maxX: r.maxX + n, maxY: r.maxY + n}
}

var (
	cardinals = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	compass   = [8]Point{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

// Rasterize converts rooms and corridors into a floor and wall grid and
// assigns autotile variants. The result is closed: every non-floor tile next
// to a floor, diagonals included, is a wall.
func Rasterize(scatter, rooms, corridors []Cell, tileSize int) *components.TileGrid {
	roomTiles := mapset.New[Point]()
	corridorTiles := mapset.New[Point]()

	floorBox := emptyRect()
	for _, room := range rooms {
		minX, minY, maxX, maxY := room.TileBounds(tileSize)
		floorBox = floorBox.include(minX, minY, maxX, maxY)
		for y := minY; y < maxY; y++ {
			for x := minX; x < maxX; x++ {
				roomTiles.Put(Pt(x, y))
			}
		}
	}
	for _, c := range corridors {
		minX, minY, maxX, maxY := c.TileBounds(tileSize)
		floorBox = floorBox.include(minX, minY, maxX, maxY)
		for y := minY; y < maxY; y++ {
			for x := minX; x < maxX; x++ {
				if !roomTiles.Has(Pt(x, y)) {
					corridorTiles.Put(Pt(x, y))
				}
			}
		}
	}

	scatterBox := emptyRect()
	for _, c := range scatter {
		scatterBox = scatterBox.include(c.TileBounds(tileSize))
	}
	scatterBox = scatterBox.pad(1)

	window := scatterBox.union(floorBox.pad(1))
	if window.empty {
		return components.NewTileGrid(0, 0, 0, 0)
	}
	grid := components.NewTileGrid(window.minX, window.minY, window.maxX-window.minX, window.maxY-window.minY)

	// Floors first so walls never overwrite them
	grid.Each(func(x, y int, _ components.Tile) {
		p := Pt(x, y)
		switch {
		case roomTiles.Has(p):
			grid.Set(x, y, components.Tile{Type: components.TileFloor})
		case corridorTiles.Has(p):
			grid.Set(x, y, components.Tile{Type: components.TileFloor, Corridor: true})
		}
	})

	// Room perimeters
	for _, room := range rooms {
		minX, minY, maxX, maxY := room.TileBounds(tileSize)
		for y := minY - 1; y <= maxY; y++ {
			for x := minX - 1; x <= maxX; x++ {
				onEdge := x == minX-1 || x == maxX || y == minY-1 || y == maxY
				if onEdge && !grid.IsFloor(x, y) {
					grid.Set(x, y, components.Tile{Type: components.TileWall})
				}
			}
		}
	}

	// Everything else in the scattered area is solid
	if !scatterBox.empty {
		for y := scatterBox.minY; y < scatterBox.maxY; y++ {
			for x := scatterBox.minX; x < scatterBox.maxX; x++ {
				if grid.TypeAt(x, y) == components.TileNone {
					grid.Set(x, y, components.Tile{Type: components.TileWall})
				}
			}
		}
	}

	punchOpenings(grid, roomTiles)
	closeFloors(grid)
	Autotile(grid)

	return grid
}

// punchOpenings turns walls that separate a corridor from a room into floor.
// Candidates are collected first so one opening never enables another.
func punchOpenings(grid *components.TileGrid, roomTiles mapset.Set[Point]) {
	var openings []Point
	grid.Each(func(x, y int, t components.Tile) {
		if t.Type != components.TileWall {
			return
		}
		nearCorridor, nearRoom := false, false
		for _, d := range cardinals {
			n := grid.Get(x+d.X, y+d.Y)
			if n.Type != components.TileFloor {
				continue
			}
			if n.Corridor {
				nearCorridor = true
			}
			if roomTiles.Has(Pt(x+d.X, y+d.Y)) {
				nearRoom = true
			}
		}
		if nearCorridor && nearRoom {
			openings = append(openings, Pt(x, y))
		}
	})

	for _, p := range openings {
		grid.Set(p.X, p.Y, components.Tile{Type: components.TileFloor, Opening: true})
	}
}

// closeFloors walls off every empty tile touching a floor.
func closeFloors(grid *components.TileGrid) {
	var walls []Point
	grid.Each(func(x, y int, t components.Tile) {
		if t.Type != components.TileFloor {
			return
		}
		for _, d := range compass {
			nx, ny := x+d.X, y+d.Y
			if grid.TypeAt(nx, ny) == components.TileNone {
				walls = append(walls, Pt(nx, ny))
			}
		}
	})

	for _, p := range walls {
		grid.Set(p.X, p.Y, components.Tile{Type: components.TileWall})
	}
}
