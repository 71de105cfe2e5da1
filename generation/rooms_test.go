package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeepCount(t *testing.T) {
	for _, tc := range []struct {
		n        int
		percent  float64
		expected int
	}{
		{0, 0.5, 0},
		{1, 0.25, 1},
		{10, 0, 1},
		{10, 0.25, 3},
		{10, 0.5, 5},
		{7, 0.5, 4},
		{10, 1, 10},
		{10, 2, 10},
	} {
		assert.Equal(t, tc.expected, keepCount(tc.n, tc.percent), "n=%d p=%v", tc.n, tc.percent)
	}
}

func TestSelectRooms(t *testing.T) {
	cells := []Cell{
		{X: 0, Y: 0, Width: 32, Height: 32},
		{X: 100, Y: 0, Width: 64, Height: 64},
		{X: 200, Y: 0, Width: 32, Height: 32},
		{X: 300, Y: 0, Width: 64, Height: 16},
	}

	rooms, centers := SelectRooms(cells, 0.75, 16)
	assert.Equal(t, []Cell{cells[1], cells[0], cells[2]}, rooms, "largest first, ties in input order")
	assert.Equal(t, []Point{Pt(132, 32), Pt(16, 16), Pt(216, 16)}, centers)

	rooms, centers = SelectRooms(nil, 0.5, 16)
	assert.Empty(t, rooms)
	assert.Empty(t, centers)
}

func TestStartingRoom(t *testing.T) {
	assert.Equal(t, -1, StartingRoom(nil))
	assert.Equal(t, 0, StartingRoom([]Point{Pt(5, 5)}))

	centers := []Point{Pt(-100, 0), Pt(10, 0), Pt(100, 0), Pt(0, 90)}
	// centroid is (2, 22)
	assert.Equal(t, Pt(2, 22), Centroid(centers))
	assert.Equal(t, 1, StartingRoom(centers))

	assert.Equal(t, 0, StartingRoom([]Point{Pt(-10, 0), Pt(10, 0)}), "first index wins ties")
}
