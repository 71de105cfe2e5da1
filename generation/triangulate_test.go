package generation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgePairs(edges []Edge) [][2]int {
	pairs := make([][2]int, len(edges))
	for i, e := range edges {
		pairs[i] = [2]int{e.A, e.B}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

func assertSortedEdges(t *testing.T, edges []Edge) {
	t.Helper()
	for i, e := range edges {
		assert.Less(t, e.A, e.B, "edge %d is ordered", i)
		if i > 0 {
			assert.LessOrEqual(t, edges[i-1].Distance, e.Distance, "edge %d is sorted", i)
		}
	}
}

func TestTriangulateInteriorPoint(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(100, 0), Pt(50, 100), Pt(50, 30)}

	edges, err := Triangulate(points)
	require.NoError(t, err)
	assertSortedEdges(t, edges)
	assert.Equal(t, edgePairs(CompleteGraph(points)), edgePairs(edges), "an interior point connects to every hull vertex")
}

func TestTriangulateConvexPentagon(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(100, 0), Pt(130, 80), Pt(50, 140), Pt(-30, 80)}

	edges, err := Triangulate(points)
	require.NoError(t, err)
	assertSortedEdges(t, edges)

	// 5 hull edges plus the 2 diagonals of the triangulation
	assert.Len(t, edges, 7)
	assert.Equal(t, [][2]int{{0, 1}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {2, 3}, {3, 4}}, edgePairs(edges))
}

func TestTriangulateDuplicatePoints(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(100, 0), Pt(0, 0), Pt(50, 80)}

	edges, err := Triangulate(points)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{0, 1}, {0, 3}, {1, 3}}, edgePairs(edges))
}

func TestTriangulateErrors(t *testing.T) {
	_, err := Triangulate([]Point{Pt(0, 0), Pt(10, 10)})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Triangulate([]Point{Pt(0, 0), Pt(100, 0), Pt(200, 0)})
	assert.ErrorIs(t, err, ErrDegenerateTriangulation)
}

func TestCompleteGraph(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(30, 0), Pt(0, 40), Pt(100, 100)}

	edges := CompleteGraph(points)
	assert.Len(t, edges, 6)
	assertSortedEdges(t, edges)
	assert.Equal(t, Edge{A: 0, B: 1, Distance: 30}, edges[0])
	assert.Equal(t, Edge{A: 1, B: 2, Distance: 50}, edges[2])
}

func TestNewEdgeOrdersIndexes(t *testing.T) {
	points := []Point{Pt(0, 0), Pt(3, 4)}
	assert.Equal(t, Edge{A: 0, B: 1, Distance: 5}, NewEdge(1, 0, points))
}
