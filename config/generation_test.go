package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "generation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultGenerationIsValid(t *testing.T) {
	assert.NoError(t, DefaultGeneration().Validate())
}

func TestLoadGeneration(t *testing.T) {
	path := writeConfig(t, `
seed: 7
number_of_cells: 30
cell_spawn_radius_y: 0
separation:
  strategy: physics
  time_step: 10ms
  timeout: 2s
`)

	cfg, err := LoadGeneration(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 30, cfg.NumberOfCells)
	assert.Equal(t, SeparatorPhysics, cfg.Separation.Strategy)
	assert.Equal(t, 10*time.Millisecond, cfg.Separation.TimeStep)
	assert.Equal(t, 2*time.Second, cfg.Separation.Timeout)

	// untouched keys keep their defaults
	def := DefaultGeneration()
	assert.Equal(t, def.TileSize, cfg.TileSize)
	assert.Equal(t, def.Separation.Damping, cfg.Separation.Damping)
	assert.Equal(t, def.CellSpawnRadiusX, cfg.RadiusX())
	assert.Equal(t, def.CellSpawnRadius, cfg.RadiusY(), "a zero axis radius falls back to the shared one")
}

func TestLoadGenerationErrors(t *testing.T) {
	_, err := LoadGeneration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadGeneration(writeConfig(t, "number_of_cells: [1, 2"))
	assert.ErrorContains(t, err, "failed to parse")

	_, err = LoadGeneration(writeConfig(t, "tile_size: 0"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Generation)
	}{
		{"no cells", func(c *Generation) { c.NumberOfCells = 0 }},
		{"zero tile size", func(c *Generation) { c.TileSize = 0 }},
		{"negative radius", func(c *Generation) { c.CellSpawnRadiusX = -1 }},
		{"zero min width", func(c *Generation) { c.MinCellWidth = 0 }},
		{"max below min", func(c *Generation) { c.MaxCellHeight = c.MinCellHeight - 1 }},
		{"no size samples", func(c *Generation) { c.SizeSamples = 0 }},
		{"percent above one", func(c *Generation) { c.LoopPercent = 1.5 }},
		{"negative percent", func(c *Generation) { c.ExtraRoomsPercent = -0.1 }},
		{"zero hallway", func(c *Generation) { c.HallwayWidth = 0 }},
		{"negative neighbor distance", func(c *Generation) { c.NeighborDistance = -1 }},
		{"unknown strategy", func(c *Generation) { c.Separation.Strategy = "magic" }},
		{"no discrete iterations", func(c *Generation) { c.Separation.MaxIterations = 0 }},
		{"no physics timeout", func(c *Generation) {
			c.Separation.Strategy = SeparatorPhysics
			c.Separation.Timeout = 0
		}},
		{"physics damping above one", func(c *Generation) {
			c.Separation.Strategy = SeparatorPhysics
			c.Separation.Damping = 1.2
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGeneration()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestRadius(t *testing.T) {
	cfg := Generation{CellSpawnRadius: 5}
	assert.Equal(t, 5.0, cfg.RadiusX())
	assert.Equal(t, 5.0, cfg.RadiusY())

	cfg.CellSpawnRadiusX = 9
	assert.Equal(t, 9.0, cfg.RadiusX())
	assert.Equal(t, 5.0, cfg.RadiusY())
}
