package console

import (
	"bufio"
	"image/color"
	"io"

	"ebiten-dungeon/components"

	"github.com/gdamore/tcell/v2"
)

// Renderer draws a tile grid onto a terminal screen. OffsetX/OffsetY is the
// absolute tile shown in the top left corner.
type Renderer struct {
	screen  tcell.Screen
	mapping *components.TileMappingComponent

	OffsetX int
	OffsetY int
}

func NewRenderer(screen tcell.Screen, mapping *components.TileMappingComponent) *Renderer {
	if mapping == nil {
		mapping = components.NewTileMappingComponent()
	}
	return &Renderer{screen: screen, mapping: mapping}
}

// Center positions the grid in the middle of the map area
func (r *Renderer) Center(grid *components.TileGrid) {
	if grid == nil {
		return
	}
	w, h := r.screen.Size()
	h -= statusLines
	r.OffsetX = grid.OriginX + grid.Width/2 - w/2
	r.OffsetY = grid.OriginY + grid.Height/2 - h/2
}

func (r *Renderer) Pan(dx, dy int) {
	r.OffsetX += dx
	r.OffsetY += dy
}

const statusLines = 1

// Draw clears the screen, paints the visible part of the grid and puts the
// status text on the last row.
func (r *Renderer) Draw(grid *components.TileGrid, status string) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if grid != nil {
		for sy := 0; sy < h-statusLines; sy++ {
			for sx := 0; sx < w; sx++ {
				x, y := sx+r.OffsetX, sy+r.OffsetY
				if !grid.InBounds(x, y) {
					continue
				}
				def := r.mapping.Lookup(grid.Get(x, y))
				r.screen.SetContent(sx, sy, def.Glyph, nil, Style(def))
			}
		}
	}

	statusStyle := tcell.StyleDefault.Reverse(true)
	col := 0
	for _, ch := range status {
		if col >= w {
			break
		}
		r.screen.SetContent(col, h-1, ch, nil, statusStyle)
		col++
	}
	for ; col < w; col++ {
		r.screen.SetContent(col, h-1, ' ', nil, statusStyle)
	}

	r.screen.Show()
}

// Style converts a tile definition to a terminal style
func Style(def components.TileDefinition) tcell.Style {
	style := tcell.StyleDefault
	if def.FG != nil {
		style = style.Foreground(rgb(def.FG))
	}
	if def.BG != nil {
		style = style.Background(rgb(def.BG))
	}
	return style
}

func rgb(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// WriteGrid prints the grid one row per line using the mapping glyphs
func WriteGrid(w io.Writer, grid *components.TileGrid, mapping *components.TileMappingComponent) error {
	if mapping == nil {
		mapping = components.NewTileMappingComponent()
	}
	out := bufio.NewWriter(w)
	if grid != nil {
		for y := grid.OriginY; y < grid.OriginY+grid.Height; y++ {
			for x := grid.OriginX; x < grid.OriginX+grid.Width; x++ {
				out.WriteRune(mapping.Lookup(grid.Get(x, y)).Glyph)
			}
			out.WriteByte('\n')
		}
	}
	return out.Flush()
}
