package systems

import (
	"image"

	"ebiten-dungeon/components"
	"ebiten-dungeon/generation"
)

func rect(c generation.Cell) image.Rectangle {
	return image.Rect(c.X, c.Y, c.Right(), c.Bottom())
}

func rects(cells []generation.Cell) []image.Rectangle {
	out := make([]image.Rectangle, len(cells))
	for i, c := range cells {
		out[i] = rect(c)
	}
	return out
}

func point(p generation.Point) image.Point {
	return image.Pt(p.X, p.Y)
}

// fillLayout copies the geometry of d into layout, keeping the selection
// in range.
func fillLayout(layout *components.LayoutComponent, d *generation.Dungeon) {
	layout.TileSize = d.TileSize
	layout.Cells = rects(d.Cells)
	layout.Rooms = rects(d.Rooms)
	layout.Corridors = rects(d.Corridors)
	layout.ExtraRooms = rects(d.ExtraRooms)

	layout.Edges = make([][2]image.Point, 0, len(d.CorridorEdges))
	for _, e := range d.CorridorEdges {
		layout.Edges = append(layout.Edges, [2]image.Point{point(d.RoomCenters[e.A]), point(d.RoomCenters[e.B])})
	}
	layout.MSTEdges = len(d.Graph.MST)

	start, ok := d.StartingRoomCenter()
	layout.Start, layout.HasStart = point(start), ok

	if layout.Selected >= len(layout.ExtraRooms) {
		layout.Selected = len(layout.ExtraRooms) - 1
	}
}

// fillTileMap copies the rasterized grid and its dual grid atlas cells.
func fillTileMap(tm *components.TileMapComponent, d *generation.Dungeon) {
	tm.Grid = d.Grid
	tm.Atlas = nil
	if d.DisplayTiles == nil {
		return
	}

	dt := d.DisplayTiles
	tm.AtlasOriginX, tm.AtlasOriginY = dt.OriginX, dt.OriginY
	tm.Atlas = make([][]image.Point, dt.Height)
	for y := range tm.Atlas {
		tm.Atlas[y] = make([]image.Point, dt.Width)
		for x := range tm.Atlas[y] {
			tm.Atlas[y][x] = dt.Atlas(x+dt.OriginX, y+dt.OriginY)
		}
	}
}
