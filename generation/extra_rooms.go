package generation

// FindExtraRooms picks the leftover cells that sit close to the dungeon
// footprint (rooms plus corridors) as candidates for later promotion. A cell
// equal to or inside a footprint cell is already part of the dungeon and is
// never a candidate. Candidates are ranked by area and the largest percent
// of them kept; a non-positive percent keeps none.
func FindExtraRooms(cells, footprint []Cell, neighborTiles int, percent float64, tileSize int) ([]Cell, []Point) {
	if percent <= 0 {
		return nil, nil
	}

	reach := neighborTiles * tileSize
	var near []Cell
	for _, cell := range cells {
		if partOfDungeon(cell, footprint) {
			continue
		}
		if neighbours(cell, footprint, reach) {
			near = append(near, cell)
		}
	}
	if len(near) == 0 {
		return nil, nil
	}

	ranked := rankByArea(near)
	count := keepCount(len(ranked), percent)

	extras := ranked[:count:count]
	centers := make([]Point, count)
	for i, c := range extras {
		centers[i] = c.Center(tileSize)
	}
	return extras, centers
}

func partOfDungeon(cell Cell, footprint []Cell) bool {
	for _, f := range footprint {
		if f == cell || f.Contains(cell) {
			return true
		}
	}
	return false
}

// neighbours reports whether any footprint cell is within reach of cell on
// both axes. Touching and overlapping cells are at distance zero.
func neighbours(cell Cell, footprint []Cell, reach int) bool {
	for _, f := range footprint {
		gx, gy := cell.gap(f)
		if gx <= reach && gy <= reach {
			return true
		}
	}
	return false
}
