package generation

import (
	"context"
)

// Separator pushes overlapping cells apart. Implementations return a new
// slice with the same cells in the same order, moved onto non-overlapping
// (or best effort) tile aligned positions. Sizes never change.
type Separator interface {
	Separate(ctx context.Context, cells []Cell) []Cell
}

// SeparatorFunc adapts a function to a Separator
type SeparatorFunc func(ctx context.Context, cells []Cell) []Cell

// Separate calls f
func (f SeparatorFunc) Separate(ctx context.Context, cells []Cell) []Cell { return f(ctx, cells) }

// Presettled keeps cells where they are. Use it when the caller already
// separated them, for example by stepping a Simulation frame by frame.
var Presettled Separator = SeparatorFunc(func(_ context.Context, cells []Cell) []Cell {
	return append([]Cell(nil), cells...)
})

// DiscreteSeparator resolves overlaps with an iterative push along the axis
// of least overlap.
type DiscreteSeparator struct {
	TileSize      int
	MaxIterations int
}

// Separate runs separation steps until nothing moves or the iteration budget
// is spent.
func (s DiscreteSeparator) Separate(ctx context.Context, cells []Cell) []Cell {
	result := append([]Cell(nil), cells...)

	for iter := 0; iter < s.MaxIterations; iter++ {
		if ctx.Err() != nil {
			break
		}
		if !s.Step(result) {
			break
		}
	}

	return result
}

// Step runs one separation pass over cells in place and reports whether any
// cell moved.
func (s DiscreteSeparator) Step(cells []Cell) bool {
	moved := false

	for i := range cells {
		var dx, dy int // in tiles
		a := cells[i]

		for j := range cells {
			if i == j {
				continue
			}
			b := cells[j]
			if !a.Intersects(b) {
				continue
			}

			overlapX := min(a.Right()-b.X, b.Right()-a.X)
			overlapY := min(a.Bottom()-b.Y, b.Bottom()-a.Y)

			if overlapX < overlapY {
				dx += pushDirection(a.X*2+a.Width, b.X*2+b.Width, i, j) * (overlapX/s.TileSize/2 + 1)
			} else {
				dy += pushDirection(a.Y*2+a.Height, b.Y*2+b.Height, i, j) * (overlapY/s.TileSize/2 + 1)
			}
		}

		if dx != 0 || dy != 0 {
			cells[i].X += dx * s.TileSize
			cells[i].Y += dy * s.TileSize
			moved = true
		}
	}

	return moved
}

// pushDirection returns -1 when the cell should move towards negative
// coordinates. Centers are passed doubled so they stay integral; identical
// centers fall back to index order so stacked cells still fan out.
func pushDirection(centerA, centerB, i, j int) int {
	switch {
	case centerA < centerB:
		return -1
	case centerA > centerB:
		return 1
	case i < j:
		return -1
	default:
		return 1
	}
}

// Overlaps counts intersecting cell pairs.
func Overlaps(cells []Cell) int {
	count := 0
	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			if cells[i].Intersects(cells[j]) {
				count++
			}
		}
	}
	return count
}
