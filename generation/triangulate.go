package generation

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrTooFewPoints is returned when triangulating fewer than three points
	ErrTooFewPoints = errors.New("triangulation needs at least 3 points")
	// ErrDegenerateTriangulation is returned when no usable edge survives
	ErrDegenerateTriangulation = errors.New("triangulation produced no edges")
)

// Edge connects two room indexes. A is always the smaller index.
type Edge struct {
	A, B     int
	Distance float64
}

// NewEdge builds an edge between rooms a and b weighted by the distance of
// their centers.
func NewEdge(a, b int, points []Point) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b, Distance: points[a].Distance(points[b])}
}

type edgeKey struct{ a, b int }

func (e Edge) key() edgeKey { return edgeKey{e.A, e.B} }

func sortEdges(edges []Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Distance != edges[j].Distance {
			return edges[i].Distance < edges[j].Distance
		}
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
}

// CompleteGraph returns every pair of points as an edge, shortest first.
func CompleteGraph(points []Point) []Edge {
	edges := make([]Edge, 0, len(points)*(len(points)-1)/2)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			edges = append(edges, NewEdge(i, j, points))
		}
	}
	sortEdges(edges)
	return edges
}

type triangle struct {
	a, b, c int
	// circumcircle
	cx, cy, r2 float64
	degenerate bool
}

func newTriangle(a, b, c int, pts []vec2) triangle {
	t := triangle{a: a, b: b, c: c}
	pa, pb, pc := pts[a], pts[b], pts[c]

	d := 2 * (pa.x*(pb.y-pc.y) + pb.x*(pc.y-pa.y) + pc.x*(pa.y-pb.y))
	if math.Abs(d) < 1e-9 {
		t.degenerate = true
		return t
	}

	a2 := pa.x*pa.x + pa.y*pa.y
	b2 := pb.x*pb.x + pb.y*pb.y
	c2 := pc.x*pc.x + pc.y*pc.y
	t.cx = (a2*(pb.y-pc.y) + b2*(pc.y-pa.y) + c2*(pa.y-pb.y)) / d
	t.cy = (a2*(pc.x-pb.x) + b2*(pa.x-pc.x) + c2*(pb.x-pa.x)) / d
	t.r2 = (pa.x-t.cx)*(pa.x-t.cx) + (pa.y-t.cy)*(pa.y-t.cy)
	return t
}

func (t triangle) circumcircleContains(p vec2) bool {
	if t.degenerate {
		return false
	}
	dx, dy := p.x-t.cx, p.y-t.cy
	return dx*dx+dy*dy < t.r2
}

func (t triangle) edges() [3]edgeKey {
	return [3]edgeKey{orderedKey(t.a, t.b), orderedKey(t.b, t.c), orderedKey(t.c, t.a)}
}

func (t triangle) touches(limit int) bool {
	return t.a >= limit || t.b >= limit || t.c >= limit
}

func orderedKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Triangulate runs an incremental Bowyer-Watson Delaunay triangulation over
// points and returns its unique edges, shortest first. Points sharing a
// position with an earlier point are skipped and end up without edges.
func Triangulate(points []Point) ([]Edge, error) {
	n := len(points)
	if n < 3 {
		return nil, ErrTooFewPoints
	}

	pts := make([]vec2, n, n+3)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range points {
		pts[i] = toVec(p)
		minX, maxX = math.Min(minX, pts[i].x), math.Max(maxX, pts[i].x)
		minY, maxY = math.Min(minY, pts[i].y), math.Max(maxY, pts[i].y)
	}

	// Super triangle well beyond twice the bounding box diagonal
	deltaMax := math.Max(math.Max(maxX-minX, maxY-minY), 1)
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	pts = append(pts,
		vec2{midX - 20*deltaMax, midY - deltaMax},
		vec2{midX, midY + 20*deltaMax},
		vec2{midX + 20*deltaMax, midY - deltaMax},
	)

	triangles := []triangle{newTriangle(n, n+1, n+2, pts)}
	seen := make(map[Point]bool, n)

	for i := 0; i < n; i++ {
		if seen[points[i]] {
			continue
		}
		seen[points[i]] = true
		p := pts[i]

		var bad []triangle
		kept := triangles[:0:0]
		for _, t := range triangles {
			if t.circumcircleContains(p) {
				bad = append(bad, t)
			} else {
				kept = append(kept, t)
			}
		}

		// The hole boundary is every edge owned by exactly one bad triangle
		shared := make(map[edgeKey]int, len(bad)*3)
		for _, t := range bad {
			for _, e := range t.edges() {
				shared[e]++
			}
		}
		for _, t := range bad {
			for _, e := range t.edges() {
				if shared[e] == 1 {
					kept = append(kept, newTriangle(e.a, e.b, i, pts))
				}
			}
		}
		triangles = kept
	}

	unique := make(map[edgeKey]bool)
	var edges []Edge
	for _, t := range triangles {
		if t.touches(n) {
			continue
		}
		for _, e := range t.edges() {
			if unique[e] {
				continue
			}
			unique[e] = true
			edges = append(edges, NewEdge(e.a, e.b, points))
		}
	}

	if len(edges) == 0 {
		return nil, ErrDegenerateTriangulation
	}

	sortEdges(edges)
	return edges, nil
}
