package generation

import "math"

// Point represents a point in world units. Points produced by the pipeline
// are always multiples of the tile size.
type Point struct{ X, Y int }

// Pt is a convenience constructor for Point.
func Pt(x, y int) Point { return Point{x, y} }

// Add adds another point's values to a copy of this point, returning the copy.
func (pt Point) Add(other Point) Point {
	pt.X += other.X
	pt.Y += other.Y
	return pt
}

// Sub subtracts another point's values from a copy of this point.
func (pt Point) Sub(other Point) Point {
	pt.X -= other.X
	pt.Y -= other.Y
	return pt
}

// Div divides a copy of this point's values by a constant.
func (pt Point) Div(n int) Point {
	pt.X /= n
	pt.Y /= n
	return pt
}

// Mul multiplies a copy of this point's values by a constant.
func (pt Point) Mul(n int) Point {
	pt.X *= n
	pt.Y *= n
	return pt
}

// DistanceSq returns the squared euclidean distance to another point.
func (pt Point) DistanceSq(other Point) int {
	dx := pt.X - other.X
	dy := pt.Y - other.Y
	return dx*dx + dy*dy
}

// Distance returns the euclidean distance to another point.
func (pt Point) Distance(other Point) float64 {
	return math.Sqrt(float64(pt.DistanceSq(other)))
}

// Cell is an axis-aligned rectangle in world units. Cells carry no identity
// beyond their position and size.
type Cell struct {
	X, Y, Width, Height int
}

// Right returns the exclusive right edge.
func (c Cell) Right() int { return c.X + c.Width }

// Bottom returns the exclusive bottom edge.
func (c Cell) Bottom() int { return c.Y + c.Height }

// Area returns width * height.
func (c Cell) Area() int { return c.Width * c.Height }

// Position returns the top-left corner.
func (c Cell) Position() Point { return Point{c.X, c.Y} }

// Center returns the tile aligned center of the cell: position plus half the
// size rounded down to whole tiles.
func (c Cell) Center(tileSize int) Point {
	return Point{
		X: c.X + (c.Width/tileSize)/2*tileSize,
		Y: c.Y + (c.Height/tileSize)/2*tileSize,
	}
}

// Intersects reports whether the two cells overlap with a positive area.
// Touching edges do not count.
func (c Cell) Intersects(other Cell) bool {
	return c.X < other.Right() && other.X < c.Right() &&
		c.Y < other.Bottom() && other.Y < c.Bottom()
}

// Contains reports whether other lies fully inside c.
func (c Cell) Contains(other Cell) bool {
	return c.X <= other.X && c.Y <= other.Y &&
		c.Right() >= other.Right() && c.Bottom() >= other.Bottom()
}

// HasPoint reports whether p lies inside c (right and bottom edges excluded).
func (c Cell) HasPoint(p Point) bool {
	return p.X >= c.X && p.X < c.Right() && p.Y >= c.Y && p.Y < c.Bottom()
}

// TileBounds returns the cell's extent in tile coordinates as
// [minX, maxX) x [minY, maxY).
func (c Cell) TileBounds(tileSize int) (minX, minY, maxX, maxY int) {
	return floorDiv(c.X, tileSize), floorDiv(c.Y, tileSize),
		ceilDiv(c.Right(), tileSize), ceilDiv(c.Bottom(), tileSize)
}

// gap returns the empty space between two cells along each axis, zero when
// they touch or overlap on that axis.
func (c Cell) gap(other Cell) (int, int) {
	gx := max(0, max(other.X-c.Right(), c.X-other.Right()))
	gy := max(0, max(other.Y-c.Bottom(), c.Y-other.Bottom()))
	return gx, gy
}

type vec2 struct{ x, y float64 }

func toVec(p Point) vec2 { return vec2{float64(p.X), float64(p.Y)} }

func (v vec2) sub(o vec2) vec2      { return vec2{v.x - o.x, v.y - o.y} }
func (v vec2) add(o vec2) vec2      { return vec2{v.x + o.x, v.y + o.y} }
func (v vec2) scale(k float64) vec2 { return vec2{v.x * k, v.y * k} }
func (v vec2) dot(o vec2) float64   { return v.x*o.x + v.y*o.y }
func (v vec2) length() float64      { return math.Hypot(v.x, v.y) }

// distanceToSegment returns the distance from p to the segment a-b.
func distanceToSegment(p, a, b vec2) float64 {
	ab := b.sub(a)
	length := ab.length()
	if length < 1e-4 {
		return p.sub(a).length()
	}
	dir := ab.scale(1 / length)
	projection := p.sub(a).dot(dir)
	switch {
	case projection <= 0:
		return p.sub(a).length()
	case projection >= length:
		return p.sub(b).length()
	}
	return p.sub(a.add(dir.scale(projection))).length()
}

// segmentsIntersect reports a proper crossing of segments a-b and c-d.
// Parallel and touching segments do not count.
func segmentsIntersect(a, b, c, d vec2) bool {
	denominator := (b.x-a.x)*(d.y-c.y) - (b.y-a.y)*(d.x-c.x)
	if denominator == 0 {
		return false
	}
	n1 := (a.y-c.y)*(d.x-c.x) - (a.x-c.x)*(d.y-c.y)
	n2 := (a.y-c.y)*(b.x-a.x) - (a.x-c.x)*(b.y-a.y)
	if n1 == 0 || n2 == 0 {
		return false
	}
	r := n1 / denominator
	s := n2 / denominator
	return r > 0 && r < 1 && s > 0 && s < 1
}

// cellNearSegment reports whether a cell straddles or lies within radius of
// the segment from start to end.
func cellNearSegment(start, end Point, cell Cell, radius float64) bool {
	a, b := toVec(start), toVec(end)

	center := vec2{float64(cell.X) + float64(cell.Width)/2, float64(cell.Y) + float64(cell.Height)/2}
	if distanceToSegment(center, a, b) <= radius {
		return true
	}

	corners := [4]vec2{
		{float64(cell.X), float64(cell.Y)},
		{float64(cell.Right()), float64(cell.Y)},
		{float64(cell.Right()), float64(cell.Bottom())},
		{float64(cell.X), float64(cell.Bottom())},
	}
	for _, corner := range corners {
		if distanceToSegment(corner, a, b) <= radius {
			return true
		}
	}
	for i := range corners {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}

	return cell.HasPoint(start) || cell.HasPoint(end)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// snap rounds a world coordinate down onto the tile grid.
func snap(v, tileSize int) int {
	return floorDiv(v, tileSize) * tileSize
}

func snapPoint(p Point, tileSize int) Point {
	return Point{snap(p.X, tileSize), snap(p.Y, tileSize)}
}
