package generation

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// Carver turns connectivity edges into corridor cells.
type Carver struct {
	TileSize int
	// Width of a corridor in tiles
	Width int
}

// corridorBuilder accumulates the corridor cells of one carving run.
type corridorBuilder struct {
	carver   Carver
	scatter  []Cell
	rooms    []Cell
	isRoom   mapset.Set[Cell]
	absorbed mapset.Set[Cell]
	painted  mapset.Set[Point]
	// blockers are the multi-tile cells that already carry corridor floor
	blockers  []Cell
	corridors []Cell
}

func (c Carver) newBuilder(scatter, rooms, existing []Cell) *corridorBuilder {
	b := &corridorBuilder{
		carver:   c,
		scatter:  scatter,
		rooms:    rooms,
		isRoom:   mapset.New[Cell](),
		absorbed: mapset.New[Cell](),
		painted:  mapset.New[Point](),
	}
	for _, r := range rooms {
		b.isRoom.Put(r)
	}
	for _, cell := range existing {
		b.track(cell)
	}
	return b
}

func (b *corridorBuilder) track(cell Cell) {
	tile := b.carver.TileSize
	if cell.Width == tile && cell.Height == tile {
		b.painted.Put(cell.Position())
	} else {
		b.absorbed.Put(cell)
		b.blockers = append(b.blockers, cell)
	}
}

// Carve builds corridors for every edge and returns the corridor cells: the
// scattered cells a corridor passes through and the painted one-tile cells.
// Duplicate edges are carved once.
func (c Carver) Carve(rng *rand.Rand, scatter, rooms []Cell, centers []Point, edges []Edge) []Cell {
	return c.CarveInto(rng, scatter, rooms, centers, edges, nil)
}

// CarveInto is Carve on top of corridor cells that already exist; those
// are never duplicated and are not part of the returned slice.
func (c Carver) CarveInto(rng *rand.Rand, scatter, rooms []Cell, centers []Point, edges []Edge, existing []Cell) []Cell {
	b := c.newBuilder(scatter, rooms, existing)

	carved := mapset.New[edgeKey]()
	for _, e := range edges {
		k := orderedKey(e.A, e.B)
		if carved.Has(k) {
			continue
		}
		carved.Put(k)
		b.connect(rng, e.A, e.B, centers)
	}

	return b.corridors
}

// connect carves the path between rooms a and b. The bend selection tries a
// straight run through the midpoint first, then an elbow through the
// midpoint, then a random elbow through the room centers.
func (b *corridorBuilder) connect(rng *rand.Rand, a, z int, centers []Point) {
	tile := b.carver.TileSize
	start, end := centers[a], centers[z]
	startRoom, endRoom := b.rooms[a], b.rooms[z]

	mid := snapPoint(start.Add(end).Div(2), tile)

	midXInStart := mid.X >= startRoom.X && mid.X <= startRoom.Right()
	midXInEnd := mid.X >= endRoom.X && mid.X <= endRoom.Right()
	midYInStart := mid.Y >= startRoom.Y && mid.Y <= startRoom.Bottom()
	midYInEnd := mid.Y >= endRoom.Y && mid.Y <= endRoom.Bottom()

	switch {
	case midXInStart && midXInEnd:
		from := Pt(mid.X, snap(startRoom.Y+startRoom.Height/2, tile))
		to := Pt(mid.X, snap(endRoom.Y+endRoom.Height/2, tile))
		b.segment(from, to)

	case midYInStart && midYInEnd:
		from := Pt(snap(startRoom.X+startRoom.Width/2, tile), mid.Y)
		to := Pt(snap(endRoom.X+endRoom.Width/2, tile), mid.Y)
		b.segment(from, to)

	case midXInStart || midXInEnd:
		// the bend column may lie outside the start room, so leave its center first
		bend, corner := Pt(mid.X, start.Y), Pt(mid.X, end.Y)
		b.segment(start, bend)
		b.segment(bend, corner)
		b.segment(corner, end)

	case midYInStart || midYInEnd:
		bend, corner := Pt(start.X, mid.Y), Pt(end.X, mid.Y)
		b.segment(start, bend)
		b.segment(bend, corner)
		b.segment(corner, end)

	default:
		var corner Point
		if rng.Float64() > 0.5 {
			corner = Pt(end.X, start.Y) // horizontal first
		} else {
			corner = Pt(start.X, end.Y) // vertical first
		}
		b.segment(start, corner)
		b.segment(corner, end)
	}
}

// segment absorbs the scattered cells the brush touches, then paints the
// path itself so the corridor is continuous even through empty space. A
// cell only touching the brush diagonally would be a sealed pocket, so it
// stays out.
func (b *corridorBuilder) segment(start, end Point) {
	tile := b.carver.TileSize
	radius := float64(b.carver.Width*tile) / 2

	var brush []Point
	dx, dy := end.X-start.X, end.Y-start.Y
	if abs(dx) > abs(dy) {
		corner := Pt(end.X, start.Y)
		brush = b.stroke(brush, start, corner, false)
		brush = b.stroke(brush, corner, end, true)
	} else {
		corner := Pt(start.X, end.Y)
		brush = b.stroke(brush, start, corner, true)
		brush = b.stroke(brush, corner, end, false)
	}

	for _, cell := range b.scatter {
		if b.isRoom.Has(cell) || b.absorbed.Has(cell) {
			continue
		}
		if cellNearSegment(start, end, cell, radius) && touchesBrush(cell, brush, tile) {
			b.absorbed.Put(cell)
			b.blockers = append(b.blockers, cell)
			b.corridors = append(b.corridors, cell)
		}
	}

	for _, pos := range brush {
		b.add(Cell{X: pos.X, Y: pos.Y, Width: tile, Height: tile})
	}
}

// stroke appends the tile positions of a straight run, Width tiles across.
func (b *corridorBuilder) stroke(brush []Point, start, end Point, vertical bool) []Point {
	tile := b.carver.TileSize
	if (vertical && start.Y > end.Y) || (!vertical && start.X > end.X) {
		start, end = end, start
	}

	lo := -(b.carver.Width / 2)
	hi := (b.carver.Width - 1) / 2

	from, to, across := floorDiv(start.X, tile), floorDiv(end.X, tile), floorDiv(start.Y, tile)
	if vertical {
		from, to, across = floorDiv(start.Y, tile), floorDiv(end.Y, tile), floorDiv(start.X, tile)
	}

	for along := from; along <= to; along++ {
		for offset := lo; offset <= hi; offset++ {
			pos := Pt(along*tile, (across+offset)*tile)
			if vertical {
				pos = Pt((across+offset)*tile, along*tile)
			}
			brush = append(brush, pos)
		}
	}
	return brush
}

// touchesBrush reports whether a brush tile lies inside cell or shares an
// edge with it.
func touchesBrush(cell Cell, brush []Point, tileSize int) bool {
	minX, minY, maxX, maxY := cell.TileBounds(tileSize)
	for _, pos := range brush {
		x, y := floorDiv(pos.X, tileSize), floorDiv(pos.Y, tileSize)
		inColumns := x >= minX && x < maxX
		inRows := y >= minY && y < maxY
		if (inColumns && y >= minY-1 && y <= maxY) || (inRows && x >= minX-1 && x <= maxX) {
			return true
		}
	}
	return false
}

func (b *corridorBuilder) add(cell Cell) {
	if b.painted.Has(cell.Position()) || b.covered(cell) {
		return
	}
	b.painted.Put(cell.Position())
	b.corridors = append(b.corridors, cell)
}

// covered reports whether a room or absorbed cell already fully contains
// cell.
func (b *corridorBuilder) covered(cell Cell) bool {
	for _, r := range b.rooms {
		if r.Contains(cell) {
			return true
		}
	}
	for _, c := range b.blockers {
		if c.Contains(cell) {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
