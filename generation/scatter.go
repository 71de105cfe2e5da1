package generation

import (
	"math"
	"math/rand"
)

// ScatterOptions controls how candidate cells are spawned around the origin.
// Radii and sizes are in tiles.
type ScatterOptions struct {
	Count     int
	TileSize  int
	RadiusX   float64
	RadiusY   float64
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int
	// SizeSamples uniform draws are averaged per dimension, which pulls the
	// size distribution towards the middle of the range
	SizeSamples int
}

// ScatterCells spawns opts.Count cells with a uniform-area distribution
// inside an ellipse. Cells may overlap.
func ScatterCells(rng *rand.Rand, opts ScatterOptions) []Cell {
	cells := make([]Cell, 0, opts.Count)

	for i := 0; i < opts.Count; i++ {
		widthInTiles := sampleSize(rng, opts.MinWidth, opts.MaxWidth, opts.SizeSamples)
		heightInTiles := sampleSize(rng, opts.MinHeight, opts.MaxHeight, opts.SizeSamples)

		// Square root of the radial draw keeps the density uniform over the area
		angle := rng.Float64() * 2 * math.Pi
		distance := math.Sqrt(rng.Float64())

		tileX := int(math.Floor(math.Cos(angle) * opts.RadiusX * distance))
		tileY := int(math.Floor(math.Sin(angle) * opts.RadiusY * distance))

		cells = append(cells, Cell{
			X:      tileX * opts.TileSize,
			Y:      tileY * opts.TileSize,
			Width:  widthInTiles * opts.TileSize,
			Height: heightInTiles * opts.TileSize,
		})
	}

	return cells
}

// sampleSize averages samples uniform draws from [lo, hi].
func sampleSize(rng *rand.Rand, lo, hi, samples int) int {
	if hi <= lo {
		return lo
	}
	if samples < 1 {
		samples = 1
	}

	total := 0
	for i := 0; i < samples; i++ {
		total += lo + rng.Intn(hi-lo+1)
	}
	return int(math.Round(float64(total) / float64(samples)))
}
