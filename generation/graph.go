package generation

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// ErrNotEnoughRooms is returned when fewer than two rooms are available for
// connecting
var ErrNotEnoughRooms = errors.New("at least 2 rooms are required to build corridors")

// Connectivity is the room graph from candidate edges down to the corridor
// edges that get carved.
type Connectivity struct {
	// Candidates are the triangulation edges, or the complete graph when
	// triangulation was not possible
	Candidates []Edge
	MST        []Edge
	Loops      []Edge
	// Corridors is MST followed by Loops
	Corridors []Edge

	UsedCompleteGraph bool
	// Repairs counts component merges needed after Kruskal
	Repairs int
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	if uf.parent[i] != i {
		uf.parent[i] = uf.find(uf.parent[i])
	}
	return uf.parent[i]
}

// union joins the sets of a and b, returning false if they already were one.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
	return true
}

// CandidateEdges triangulates points, substituting the complete graph when
// triangulation is impossible or degenerate. The bool reports the
// substitution.
func CandidateEdges(points []Point) ([]Edge, bool) {
	edges, err := Triangulate(points)
	if err != nil {
		return CompleteGraph(points), true
	}
	return edges, false
}

// MinimumSpanningTree runs Kruskal over candidates and, when they leave the
// graph disconnected, joins the closest components until one remains. It
// returns the tree (n-1 edges for n >= 1 points) and the number of repair
// merges.
func MinimumSpanningTree(points []Point, candidates []Edge) ([]Edge, int) {
	n := len(points)
	if n < 2 {
		return nil, 0
	}

	sorted := append([]Edge(nil), candidates...)
	sortEdges(sorted)

	uf := newUnionFind(n)
	mst := make([]Edge, 0, n-1)
	for _, e := range sorted {
		if uf.union(e.A, e.B) {
			mst = append(mst, e)
		}
	}

	if len(mst) == n-1 {
		return mst, 0
	}

	repairs := 0
	components := connectedComponents(n, mst)
	for {
		e, ok := closestAcrossComponents(points, components)
		if !ok {
			break
		}
		mst = append(mst, e)
		repairs++

		// Relabel the second component into the first
		from, to := components[e.B], components[e.A]
		for i, c := range components {
			if c == from {
				components[i] = to
			}
		}
	}

	return mst, repairs
}

// connectedComponents labels every vertex with the lowest vertex index of
// its component, found by breadth first search over edges.
func connectedComponents(n int, edges []Edge) []int {
	adjacency := make([][]int, n)
	for _, e := range edges {
		adjacency[e.A] = append(adjacency[e.A], e.B)
		adjacency[e.B] = append(adjacency[e.B], e.A)
	}

	labels := make([]int, n)
	visited := mapset.New[int]()
	for start := 0; start < n; start++ {
		if visited.Has(start) {
			continue
		}
		visited.Put(start)
		queue := []int{start}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			labels[v] = start
			for _, next := range adjacency[v] {
				if !visited.Has(next) {
					visited.Put(next)
					queue = append(queue, next)
				}
			}
		}
	}

	return labels
}

// closestAcrossComponents finds the shortest vertex pair in different
// components. Ties go to the lowest indexes.
func closestAcrossComponents(points []Point, components []int) (Edge, bool) {
	best := math.MaxInt
	var bestA, bestB int
	found := false

	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if components[i] == components[j] {
				continue
			}
			if d := points[i].DistanceSq(points[j]); d < best {
				best, bestA, bestB = d, i, j
				found = true
			}
		}
	}

	if !found {
		return Edge{}, false
	}
	return NewEdge(bestA, bestB, points), true
}

// SelectLoops picks the shortest loopPercent of the candidates that are not
// in the tree. Equal distances are ordered by rng.
func SelectLoops(rng *rand.Rand, candidates, mst []Edge, loopPercent float64) []Edge {
	inTree := mapset.New[edgeKey]()
	for _, e := range mst {
		inTree.Put(e.key())
	}

	var remaining []Edge
	for _, e := range candidates {
		if !inTree.Has(e.key()) {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == 0 || loopPercent <= 0 {
		return nil
	}

	rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Distance < remaining[j].Distance
	})

	count := max(1, int(math.Floor(float64(len(remaining))*loopPercent)))
	return remaining[:min(count, len(remaining))]
}

// BuildConnectivity connects room centers: candidate edges, spanning tree,
// then loops. The result always forms a single component.
func BuildConnectivity(rng *rand.Rand, centers []Point, loopPercent float64) (Connectivity, error) {
	if len(centers) < 2 {
		return Connectivity{}, ErrNotEnoughRooms
	}

	var graph Connectivity
	graph.Candidates, graph.UsedCompleteGraph = CandidateEdges(centers)
	graph.MST, graph.Repairs = MinimumSpanningTree(centers, graph.Candidates)
	graph.Loops = SelectLoops(rng, graph.Candidates, graph.MST, loopPercent)

	graph.Corridors = make([]Edge, 0, len(graph.MST)+len(graph.Loops))
	graph.Corridors = append(graph.Corridors, graph.MST...)
	graph.Corridors = append(graph.Corridors, graph.Loops...)
	if len(graph.Corridors) == 0 {
		graph.Corridors = append([]Edge(nil), graph.MST...)
	}

	return graph, nil
}
