package components

import (
	"image/color"
)

// TileType is the coarse kind of a rasterized tile
type TileType uint8

// Tile types
const (
	TileNone TileType = iota
	TileFloor
	TileWall
)

func (t TileType) String() string {
	switch t {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	default:
		return "none"
	}
}

// Tile variants picked by the autotiler. Floors and walls share one
// numbering so a single mapping can describe both.
const (
	VariantNone = iota

	// Floor variants, named after the side(s) that touch a wall
	FloorOpen
	FloorIsolated
	FloorCornerNW
	FloorEdgeN
	FloorCornerNE
	FloorEdgeW
	FloorEdgeE
	FloorCornerSW
	FloorEdgeS
	FloorCornerSE
	FloorInnerSE // only the south-east diagonal is a wall
	FloorInnerSW
	FloorInnerNE
	FloorInnerNW

	// Box drawing wall tiles
	WallPillar      // no connections
	WallHorizontal  // ─
	WallVertical    // │
	WallTopLeft     // ┌
	WallTopRight    // ┐
	WallBottomLeft  // └
	WallBottomRight // ┘
	WallTeeLeft     // ├
	WallTeeRight    // ┤
	WallTeeTop      // ┬
	WallTeeBottom   // ┴
	WallCross       // ┼
)

// Tile is one rasterized grid position
type Tile struct {
	Type    TileType
	Variant int
	// Corridor marks floor carved by a corridor outside any room
	Corridor bool
	// Opening marks a former room wall knocked through by a corridor
	Opening bool
}

// TileGrid is a dense window of tiles. Coordinates passed to its methods are
// absolute tile coordinates; OriginX/OriginY is the tile stored at Tiles[0][0].
type TileGrid struct {
	OriginX int
	OriginY int
	Width   int
	Height  int
	Tiles   [][]Tile
}

// NewTileGrid creates a grid of TileNone covering width x height tiles
// starting at the given origin.
func NewTileGrid(originX, originY, width, height int) *TileGrid {
	g := &TileGrid{
		OriginX: originX,
		OriginY: originY,
		Width:   width,
		Height:  height,
		Tiles:   make([][]Tile, height),
	}
	for y := 0; y < height; y++ {
		g.Tiles[y] = make([]Tile, width)
	}
	return g
}

// InBounds reports whether the absolute tile position lies in the window
func (g *TileGrid) InBounds(x, y int) bool {
	x -= g.OriginX
	y -= g.OriginY
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the tile at (x, y). Out of bounds positions are TileNone.
func (g *TileGrid) Get(x, y int) Tile {
	if !g.InBounds(x, y) {
		return Tile{}
	}
	return g.Tiles[y-g.OriginY][x-g.OriginX]
}

// Set stores the tile at (x, y); out of bounds writes are ignored
func (g *TileGrid) Set(x, y int, t Tile) {
	if g.InBounds(x, y) {
		g.Tiles[y-g.OriginY][x-g.OriginX] = t
	}
}

// TypeAt returns the tile type at (x, y)
func (g *TileGrid) TypeAt(x, y int) TileType {
	return g.Get(x, y).Type
}

// IsFloor returns true if the tile at (x, y) is a floor
func (g *TileGrid) IsFloor(x, y int) bool {
	return g.TypeAt(x, y) == TileFloor
}

// IsWall returns true if the tile at (x, y) is a wall
func (g *TileGrid) IsWall(x, y int) bool {
	return g.TypeAt(x, y) == TileWall
}

// Count returns how many tiles have the given type
func (g *TileGrid) Count(t TileType) int {
	n := 0
	for _, row := range g.Tiles {
		for _, tile := range row {
			if tile.Type == t {
				n++
			}
		}
	}
	return n
}

// Each calls fn for every tile in row major order
func (g *TileGrid) Each(fn func(x, y int, t Tile)) {
	for y, row := range g.Tiles {
		for x, tile := range row {
			fn(x+g.OriginX, y+g.OriginY, tile)
		}
	}
}

// Clone returns a deep copy of the grid
func (g *TileGrid) Clone() *TileGrid {
	if g == nil {
		return nil
	}
	c := NewTileGrid(g.OriginX, g.OriginY, g.Width, g.Height)
	for y := range g.Tiles {
		copy(c.Tiles[y], g.Tiles[y])
	}
	return c
}

// TileDefinition describes the visual appearance of a tile variant
type TileDefinition struct {
	Glyph rune        // The character drawn for the tile
	FG    color.Color // Foreground color
	BG    color.Color // Background color (optional)
}

// NewTileDefinition creates a tile definition using a character code
func NewTileDefinition(glyph rune, fg color.Color) TileDefinition {
	return TileDefinition{
		Glyph: glyph,
		FG:    fg,
	}
}

// TileMappingComponent maps tile variants to their visual representation
type TileMappingComponent struct {
	Definitions map[int]TileDefinition
	// Corridor and Opening override the floor definitions for flagged tiles
	Corridor TileDefinition
	Opening  TileDefinition
	// Solid is wall filling the space between rooms, away from any floor
	Solid TileDefinition
}

// NewTileMappingComponent creates a default tile mapping
func NewTileMappingComponent() *TileMappingComponent {
	mapping := &TileMappingComponent{
		Definitions: make(map[int]TileDefinition),
		Corridor:    NewTileDefinition('.', color.RGBA{150, 120, 60, 255}),
		Opening:     NewTileDefinition('+', color.RGBA{139, 69, 19, 255}), // Brown
		Solid:       NewTileDefinition(' ', color.RGBA{40, 40, 40, 255}),
	}

	floorColor := color.RGBA{96, 96, 96, 255}
	edgeColor := color.RGBA{120, 120, 120, 255}
	mapping.Definitions[FloorOpen] = NewTileDefinition('.', floorColor)
	mapping.Definitions[FloorIsolated] = NewTileDefinition('·', edgeColor)
	for _, v := range []int{FloorCornerNW, FloorEdgeN, FloorCornerNE, FloorEdgeW, FloorEdgeE, FloorCornerSW, FloorEdgeS, FloorCornerSE} {
		mapping.Definitions[v] = NewTileDefinition('.', edgeColor)
	}
	for _, v := range []int{FloorInnerSE, FloorInnerSW, FloorInnerNE, FloorInnerNW} {
		mapping.Definitions[v] = NewTileDefinition(',', edgeColor)
	}

	// Box drawing wall tile definitions (using light gray color)
	wallColor := color.RGBA{160, 160, 160, 255}
	mapping.Definitions[WallPillar] = NewTileDefinition('#', wallColor)
	mapping.Definitions[WallHorizontal] = NewTileDefinition('─', wallColor)
	mapping.Definitions[WallVertical] = NewTileDefinition('│', wallColor)
	mapping.Definitions[WallTopLeft] = NewTileDefinition('┌', wallColor)
	mapping.Definitions[WallTopRight] = NewTileDefinition('┐', wallColor)
	mapping.Definitions[WallBottomLeft] = NewTileDefinition('└', wallColor)
	mapping.Definitions[WallBottomRight] = NewTileDefinition('┘', wallColor)
	mapping.Definitions[WallTeeLeft] = NewTileDefinition('├', wallColor)
	mapping.Definitions[WallTeeRight] = NewTileDefinition('┤', wallColor)
	mapping.Definitions[WallTeeTop] = NewTileDefinition('┬', wallColor)
	mapping.Definitions[WallTeeBottom] = NewTileDefinition('┴', wallColor)
	mapping.Definitions[WallCross] = NewTileDefinition('┼', wallColor)

	return mapping
}

// GetTileDefinition returns the visual definition for a given variant
func (t *TileMappingComponent) GetTileDefinition(variant int) TileDefinition {
	if def, exists := t.Definitions[variant]; exists {
		return def
	}

	// Return a default if the variant isn't defined
	return TileDefinition{
		Glyph: '?',
		FG:    color.RGBA{255, 0, 255, 255}, // Magenta for undefined tiles
	}
}

// Lookup returns the definition used to draw a tile. Empty tiles have no
// glyph.
func (t *TileMappingComponent) Lookup(tile Tile) TileDefinition {
	switch {
	case tile.Type == TileNone:
		return TileDefinition{Glyph: ' '}
	case tile.Opening:
		return t.Opening
	case tile.Corridor:
		return t.Corridor
	case tile.Variant == VariantNone && tile.Type == TileWall:
		return t.Solid
	case tile.Variant == VariantNone:
		return t.GetTileDefinition(FloorOpen)
	}
	return t.GetTileDefinition(tile.Variant)
}
