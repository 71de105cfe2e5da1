package generation

import (
	"image"

	"ebiten-dungeon/components"
)

// Wall connection constants used for box drawing walls
const (
	WallConnectTop    = 1
	WallConnectRight  = 2
	WallConnectBottom = 4
	WallConnectLeft   = 8
)

// Box drawing wall tile lookup table
var WallTileLookup = [16]int{
	0:  components.WallPillar,      // No connections (isolated wall)
	1:  components.WallVertical,    // Top only
	2:  components.WallHorizontal,  // Right only
	3:  components.WallBottomLeft,  // Top and right
	4:  components.WallVertical,    // Bottom only
	5:  components.WallVertical,    // Top and bottom
	6:  components.WallTopLeft,     // Right and bottom
	7:  components.WallTeeLeft,     // Top, right, bottom (missing left)
	8:  components.WallHorizontal,  // Left only
	9:  components.WallBottomRight, // Top and left
	10: components.WallHorizontal,  // Left and right
	11: components.WallTeeBottom,   // Top, left, right (missing bottom)
	12: components.WallTopRight,    // Left and bottom
	13: components.WallTeeRight,    // Top, left, bottom (missing right)
	14: components.WallTeeTop,      // Right, bottom, left (missing top)
	15: components.WallCross,       // All four neighbors
}

// Neighbour bits of the floor wall mask, clockwise from north
const (
	maskN = 1 << iota
	maskNE
	maskE
	maskSE
	maskS
	maskSW
	maskW
	maskNW
)

// FloorTileLookup maps the 8-neighbour wall mask of a floor tile to its
// variant. Bits follow the compass order N, NE, E, SE, S, SW, W, NW.
var FloorTileLookup = buildFloorLookup()

func buildFloorLookup() [256]int {
	var table [256]int
	for mask := range table {
		table[mask] = floorVariant(mask)
	}
	return table
}

// floorVariant applies the floor rules in priority order: straight sides
// and corners first, then diagonal-only inner corners.
func floorVariant(mask int) int {
	has := func(bit int) bool { return mask&bit != 0 }
	n, e, s, w := has(maskN), has(maskE), has(maskS), has(maskW)

	switch {
	case mask == 0xFF:
		return components.FloorIsolated
	case n && w:
		return components.FloorCornerNW
	case n && !w && !e:
		return components.FloorEdgeN
	case n && e:
		return components.FloorCornerNE
	case !n && !s && w:
		return components.FloorEdgeW
	case !n && !s && e:
		return components.FloorEdgeE
	case w && s:
		return components.FloorCornerSW
	case s && !w && !e:
		return components.FloorEdgeS
	case s && e:
		return components.FloorCornerSE
	case has(maskSE):
		return components.FloorInnerSE
	case has(maskSW):
		return components.FloorInnerSW
	case has(maskNE):
		return components.FloorInnerNE
	case has(maskNW):
		return components.FloorInnerNW
	}
	return components.FloorOpen
}

// Autotile assigns a variant to every floor and wall of the grid. Anything
// that is not a floor counts as a wall for floor variants. Walls pick a box
// drawing piece from their neighbouring perimeter walls; walls with no floor
// around them are solid fill and keep VariantNone.
func Autotile(grid *components.TileGrid) {
	perimeter := make(map[Point]bool)
	grid.Each(func(x, y int, t components.Tile) {
		if t.Type == components.TileWall && HasAdjacentFloor(grid, x, y) {
			perimeter[Pt(x, y)] = true
		}
	})

	grid.Each(func(x, y int, t components.Tile) {
		switch t.Type {
		case components.TileFloor:
			t.Variant = FloorTileLookup[CalculateFloorMask(grid, x, y)]
		case components.TileWall:
			if perimeter[Pt(x, y)] {
				t.Variant = WallTileLookup[CalculateWallMask(perimeter, x, y)]
			} else {
				t.Variant = components.VariantNone
			}
		default:
			return
		}
		grid.Set(x, y, t)
	})
}

// HasAdjacentFloor checks if a position has at least one floor among its 8
// neighbours
func HasAdjacentFloor(grid *components.TileGrid, x, y int) bool {
	for _, d := range compass {
		if grid.IsFloor(x+d.X, y+d.Y) {
			return true
		}
	}
	return false
}

// CalculateFloorMask sets one bit per non-floor neighbour
func CalculateFloorMask(grid *components.TileGrid, x, y int) int {
	mask := 0
	for i, d := range compass {
		if !grid.IsFloor(x+d.X, y+d.Y) {
			mask |= 1 << i
		}
	}
	return mask
}

// CalculateWallMask calculates the bitmask value for a wall tile based on
// which adjacent tiles are perimeter walls
func CalculateWallMask(perimeter map[Point]bool, x, y int) int {
	mask := 0
	if perimeter[Pt(x, y-1)] { // Top
		mask |= WallConnectTop
	}
	if perimeter[Pt(x+1, y)] { // Right
		mask |= WallConnectRight
	}
	if perimeter[Pt(x, y+1)] { // Bottom
		mask |= WallConnectBottom
	}
	if perimeter[Pt(x-1, y)] { // Left
		mask |= WallConnectLeft
	}
	return mask
}

// Display corner bits for the dual grid: which of the four world tiles
// around a display vertex are floors
const (
	DisplayBottomRight = 1 << iota
	DisplayBottomLeft
	DisplayTopRight
	DisplayTopLeft
)

// DisplayAtlas maps a display corner mask, the index, to the dual grid
// tileset cell
var DisplayAtlas = [16]image.Point{
	{0, 3}, // all wall
	{1, 3}, // outer bottom-right corner
	{0, 0}, // outer bottom-left corner
	{3, 0}, // bottom edge
	{0, 2}, // outer top-right corner
	{1, 0}, // right edge
	{2, 3}, // opposite corners
	{1, 1}, // inner bottom-right corner
	{3, 3}, // outer top-left corner
	{0, 1}, // opposite corners
	{3, 2}, // left edge
	{2, 0}, // inner bottom-left corner
	{1, 2}, // top edge
	{2, 2}, // inner top-right corner
	{3, 1}, // inner top-left corner
	{2, 1}, // all floor
}

// DisplayGrid is the dual grid drawn offset by half a tile from the world
// grid. The display tile at (x, y) sits on the vertex shared by world tiles
// (x-1, y-1), (x, y-1), (x-1, y) and (x, y).
type DisplayGrid struct {
	OriginX, OriginY int
	Width, Height    int
	Masks            [][]uint8
}

// At returns the corner mask at an absolute display position, zero outside
// the grid.
func (d *DisplayGrid) At(x, y int) uint8 {
	x -= d.OriginX
	y -= d.OriginY
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return 0
	}
	return d.Masks[y][x]
}

// Atlas returns the tileset cell for the display tile at (x, y)
func (d *DisplayGrid) Atlas(x, y int) image.Point {
	return DisplayAtlas[d.At(x, y)]
}

// DisplayTiles builds the dual grid of a rasterized grid. Empty tiles count
// as walls.
func DisplayTiles(grid *components.TileGrid) *DisplayGrid {
	d := &DisplayGrid{
		OriginX: grid.OriginX,
		OriginY: grid.OriginY,
		Width:   grid.Width + 1,
		Height:  grid.Height + 1,
	}
	if grid.Width == 0 || grid.Height == 0 {
		d.Width, d.Height = 0, 0
		return d
	}

	d.Masks = make([][]uint8, d.Height)
	for y := 0; y < d.Height; y++ {
		d.Masks[y] = make([]uint8, d.Width)
		for x := 0; x < d.Width; x++ {
			wx, wy := x+grid.OriginX, y+grid.OriginY
			var mask uint8
			if grid.IsFloor(wx, wy) {
				mask |= DisplayBottomRight
			}
			if grid.IsFloor(wx-1, wy) {
				mask |= DisplayBottomLeft
			}
			if grid.IsFloor(wx, wy-1) {
				mask |= DisplayTopRight
			}
			if grid.IsFloor(wx-1, wy-1) {
				mask |= DisplayTopLeft
			}
			d.Masks[y][x] = mask
		}
	}
	return d
}
