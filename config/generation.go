package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a generation config fails validation
var ErrInvalidConfig = errors.New("invalid generation config")

// Separation strategies
const (
	SeparatorDiscrete = "discrete"
	SeparatorPhysics  = "physics"
)

// Generation holds every tunable input of the dungeon pipeline.
// Sizes and radii are in tiles, percentages are fractions in [0, 1].
type Generation struct {
	// Seed for the generator, 0 derives a fresh one from the clock
	Seed int64 `yaml:"seed"`

	NumberOfCells int `yaml:"number_of_cells"`
	TileSize      int `yaml:"tile_size"`

	// CellSpawnRadius is used for both axes unless the X/Y radius is set
	CellSpawnRadius  float64 `yaml:"cell_spawn_radius"`
	CellSpawnRadiusX float64 `yaml:"cell_spawn_radius_x"`
	CellSpawnRadiusY float64 `yaml:"cell_spawn_radius_y"`

	MinCellWidth  int `yaml:"min_cell_width"`
	MaxCellWidth  int `yaml:"max_cell_width"`
	MinCellHeight int `yaml:"min_cell_height"`
	MaxCellHeight int `yaml:"max_cell_height"`
	// SizeSamples uniform draws are averaged per dimension
	SizeSamples int `yaml:"size_samples"`

	LargestRoomsPercent float64 `yaml:"largest_rooms_percent"`
	LoopPercent         float64 `yaml:"loop_percent"`
	ExtraRoomsPercent   float64 `yaml:"extra_rooms_percent"`
	HallwayWidth        int     `yaml:"hallway_width"`
	NeighborDistance    int     `yaml:"neighbor_distance"`

	Separation Separation `yaml:"separation"`
}

// Separation configures the cell separator
type Separation struct {
	Strategy      string `yaml:"strategy"`
	MaxIterations int    `yaml:"max_iterations"`

	// Physics settings, durations are simulated time
	TimeStep       time.Duration `yaml:"time_step"`
	Timeout        time.Duration `yaml:"timeout"`
	StableDuration time.Duration `yaml:"stable_duration"`
	StableSpeed    float64       `yaml:"stable_speed"`
	Stiffness      float64       `yaml:"stiffness"`
	Damping        float64       `yaml:"damping"`
	ProgressEvery  int           `yaml:"progress_every"`
}

// DefaultGeneration returns the stock generation parameters
func DefaultGeneration() Generation {
	return Generation{
		NumberOfCells:       64,
		TileSize:            16,
		CellSpawnRadius:     20,
		CellSpawnRadiusX:    60,
		CellSpawnRadiusY:    10,
		MinCellWidth:        15,
		MaxCellWidth:        31,
		MinCellHeight:       7,
		MaxCellHeight:       16,
		SizeSamples:         2,
		LargestRoomsPercent: 0.25,
		LoopPercent:         0.25,
		ExtraRoomsPercent:   1.0,
		HallwayWidth:        2,
		NeighborDistance:    2,
		Separation: Separation{
			Strategy:       SeparatorDiscrete,
			MaxIterations:  100,
			TimeStep:       time.Second / 60,
			Timeout:        20 * time.Second,
			StableDuration: 250 * time.Millisecond,
			StableSpeed:    5,
			Stiffness:      4000,
			Damping:        0.9,
			ProgressEvery:  10,
		},
	}
}

// LoadGeneration reads a YAML file on top of the defaults
func LoadGeneration(path string) (Generation, error) {
	cfg := DefaultGeneration()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read generation config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse generation config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// RadiusX returns the effective horizontal spawn radius
func (c Generation) RadiusX() float64 {
	if c.CellSpawnRadiusX > 0 {
		return c.CellSpawnRadiusX
	}
	return c.CellSpawnRadius
}

// RadiusY returns the effective vertical spawn radius
func (c Generation) RadiusY() float64 {
	if c.CellSpawnRadiusY > 0 {
		return c.CellSpawnRadiusY
	}
	return c.CellSpawnRadius
}

// Validate checks the config for values the pipeline cannot work with
func (c Generation) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	switch {
	case c.NumberOfCells < 1:
		return invalid("number_of_cells must be at least 1, got %d", c.NumberOfCells)
	case c.TileSize < 1:
		return invalid("tile_size must be positive, got %d", c.TileSize)
	case c.RadiusX() < 0 || c.RadiusY() < 0:
		return invalid("spawn radius must not be negative")
	case c.MinCellWidth < 1 || c.MinCellHeight < 1:
		return invalid("cell sizes must be at least one tile")
	case c.MaxCellWidth < c.MinCellWidth || c.MaxCellHeight < c.MinCellHeight:
		return invalid("max cell size below min cell size")
	case c.SizeSamples < 1:
		return invalid("size_samples must be at least 1, got %d", c.SizeSamples)
	case !unit(c.LargestRoomsPercent) || !unit(c.LoopPercent) || !unit(c.ExtraRoomsPercent):
		return invalid("percentages must be within [0, 1]")
	case c.HallwayWidth < 1:
		return invalid("hallway_width must be at least 1, got %d", c.HallwayWidth)
	case c.NeighborDistance < 0:
		return invalid("neighbor_distance must not be negative, got %d", c.NeighborDistance)
	}

	s := c.Separation
	switch s.Strategy {
	case SeparatorDiscrete:
		if s.MaxIterations < 1 {
			return invalid("separation.max_iterations must be at least 1")
		}
	case SeparatorPhysics:
		if s.TimeStep <= 0 || s.Timeout <= 0 {
			return invalid("separation time_step and timeout must be positive")
		}
		if s.Damping <= 0 || s.Damping > 1 {
			return invalid("separation.damping must be within (0, 1]")
		}
	default:
		return invalid("unknown separation strategy %q", s.Strategy)
	}

	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
