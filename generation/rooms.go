package generation

import (
	"math"
	"sort"
)

// keepCount returns how many of n ranked items a percentage keeps, never
// fewer than one when there is anything to keep.
func keepCount(n int, percent float64) int {
	if n == 0 {
		return 0
	}
	count := int(math.Round(float64(n) * percent))
	return min(n, max(1, count))
}

// rankByArea returns a copy of cells ordered by area, largest first. Equal
// areas keep their input order.
func rankByArea(cells []Cell) []Cell {
	ranked := append([]Cell(nil), cells...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Area() > ranked[j].Area()
	})
	return ranked
}

// SelectRooms keeps the largest keepPercent of cells as main rooms and
// returns them with their centers as parallel slices.
func SelectRooms(cells []Cell, keepPercent float64, tileSize int) ([]Cell, []Point) {
	if len(cells) == 0 {
		return nil, nil
	}

	ranked := rankByArea(cells)
	count := keepCount(len(ranked), keepPercent)

	rooms := make([]Cell, count)
	centers := make([]Point, count)
	for i := 0; i < count; i++ {
		rooms[i] = ranked[i]
		centers[i] = ranked[i].Center(tileSize)
	}

	return rooms, centers
}

// Centroid returns the integer average of points.
func Centroid(points []Point) Point {
	var sum Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Div(len(points))
}

// StartingRoom returns the index of the center closest to the centroid of
// all centers, or -1 when there are none. The first index wins ties.
func StartingRoom(centers []Point) int {
	if len(centers) == 0 {
		return -1
	}

	centroid := Centroid(centers)
	closest := 0
	closestDistance := math.MaxInt
	for i, c := range centers {
		if d := centroid.DistanceSq(c); d < closestDistance {
			closestDistance = d
			closest = i
		}
	}

	return closest
}
