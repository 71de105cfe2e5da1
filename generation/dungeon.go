package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"time"

	"ebiten-dungeon/components"
	"ebiten-dungeon/config"

	"github.com/google/uuid"
)

var (
	// ErrCandidateOutOfRange is returned when promoting an extra room index
	// that does not exist
	ErrCandidateOutOfRange = errors.New("extra room index out of range")
	// ErrNoNearestRoom is returned when promoting into a dungeon with no rooms
	ErrNoNearestRoom = errors.New("no room to connect the extra room to")
)

// Option configures a DungeonGenerator
type Option func(*DungeonGenerator)

// WithLogger sets the logger used for stage and fallback messages
func WithLogger(logger *slog.Logger) Option {
	return func(g *DungeonGenerator) { g.logger = logger }
}

// WithObserver registers an observer for stage snapshots. Several observers
// are notified in registration order.
func WithObserver(obs Observer) Option {
	return func(g *DungeonGenerator) { g.observers = append(g.observers, obs) }
}

// WithSeparator overrides the separator picked from the config
func WithSeparator(s Separator) Option {
	return func(g *DungeonGenerator) { g.separator = s }
}

// DungeonGenerator handles procedural generation of dungeon layouts
type DungeonGenerator struct {
	cfg       config.Generation
	seed      int64
	rng       *rand.Rand
	logger    *slog.Logger
	observers Observers
	separator Separator
}

// NewDungeonGenerator creates a new dungeon generator. A zero cfg.Seed picks
// a seed from the clock.
func NewDungeonGenerator(cfg config.Generation, opts ...Option) *DungeonGenerator {
	g := &DungeonGenerator{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.SetSeed(seed)

	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetSeed allows setting a specific seed for reproducible dungeons
func (g *DungeonGenerator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// Seed returns the seed the generator was last set to
func (g *DungeonGenerator) Seed() int64 { return g.seed }

// Config returns the generation parameters
func (g *DungeonGenerator) Config() config.Generation { return g.cfg }

// ScatterOptions derives the scatter parameters from the config
func (g *DungeonGenerator) ScatterOptions() ScatterOptions {
	return ScatterOptions{
		Count:       g.cfg.NumberOfCells,
		TileSize:    g.cfg.TileSize,
		RadiusX:     g.cfg.RadiusX(),
		RadiusY:     g.cfg.RadiusY(),
		MinWidth:    g.cfg.MinCellWidth,
		MaxWidth:    g.cfg.MaxCellWidth,
		MinHeight:   g.cfg.MinCellHeight,
		MaxHeight:   g.cfg.MaxCellHeight,
		SizeSamples: g.cfg.SizeSamples,
	}
}

// PhysicsOptions derives the physics separator parameters from the config
func (g *DungeonGenerator) PhysicsOptions() PhysicsOptions {
	s := g.cfg.Separation
	return PhysicsOptions{
		TileSize:       g.cfg.TileSize,
		TimeStep:       s.TimeStep,
		Timeout:        s.Timeout,
		StableDuration: s.StableDuration,
		StableSpeed:    s.StableSpeed,
		Stiffness:      s.Stiffness,
		Damping:        s.Damping,
	}
}

// Scatter spawns the initial cells from the generator's rng
func (g *DungeonGenerator) Scatter() []Cell {
	return ScatterCells(g.rng, g.ScatterOptions())
}

// Generate runs the whole pipeline from a fresh scatter. An invalid config
// returns a nil dungeon and an error wrapping config.ErrInvalidConfig.
func (g *DungeonGenerator) Generate(ctx context.Context) (*Dungeon, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	cells := g.Scatter()
	return g.GenerateFromCells(ctx, cells)
}

// GenerateFromCells runs the pipeline from separation onward over the given
// cells. With fewer than two rooms the partial dungeon is returned together
// with ErrNotEnoughRooms; its grid holds the rooms only.
func (g *DungeonGenerator) GenerateFromCells(ctx context.Context, cells []Cell) (*Dungeon, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Dungeon{
		RunID:             uuid.NewString(),
		Seed:              g.seed,
		TileSize:          g.cfg.TileSize,
		StartingRoomIndex: -1,
		carver:            Carver{TileSize: g.cfg.TileSize, Width: g.cfg.HallwayWidth},
		rng:               g.rng,
		observers:         g.observers,
	}
	logger := g.logger.With("run", d.RunID, "seed", d.Seed)
	d.logger = logger

	d.Cells = append([]Cell(nil), cells...)
	d.notify(StageScattered)
	logger.Info("cells scattered", "cells", len(cells))

	d.Cells = g.separatorFor(d).Separate(ctx, d.Cells)
	if err := ctx.Err(); err != nil {
		return d, fmt.Errorf("separation interrupted: %w", err)
	}
	d.notify(StageSeparated)
	logger.Info("cells separated", "overlaps", Overlaps(d.Cells))

	d.Rooms, d.RoomCenters = SelectRooms(d.Cells, g.cfg.LargestRoomsPercent, g.cfg.TileSize)
	d.StartingRoomIndex = StartingRoom(d.RoomCenters)
	d.notify(StageRooms)
	logger.Info("rooms selected", "rooms", len(d.Rooms), "start", d.StartingRoomIndex)

	graph, err := BuildConnectivity(d.rng, d.RoomCenters, g.cfg.LoopPercent)
	if err != nil {
		d.rasterize()
		logger.Error("cannot connect rooms", "rooms", len(d.Rooms), "error", err)
		return d, fmt.Errorf("failed to build connectivity: %w", err)
	}
	if graph.UsedCompleteGraph {
		logger.Debug("triangulation unavailable, using complete graph", "rooms", len(d.Rooms))
	}
	if graph.Repairs > 0 {
		logger.Debug("spanning tree repaired", "merges", graph.Repairs)
	}
	d.Graph = graph
	d.CorridorEdges = append([]Edge(nil), graph.Corridors...)
	d.notify(StageGraph)
	logger.Info("rooms connected", "mst", len(graph.MST), "loops", len(graph.Loops))

	d.Corridors = d.carver.Carve(d.rng, d.Cells, d.Rooms, d.RoomCenters, d.CorridorEdges)
	d.notify(StageCorridors)
	logger.Info("corridors carved", "cells", len(d.Corridors))

	d.ExtraRooms, d.ExtraRoomCenters = FindExtraRooms(d.Cells, d.Footprint(), g.cfg.NeighborDistance, g.cfg.ExtraRoomsPercent, g.cfg.TileSize)
	d.notify(StageExtraRooms)
	logger.Info("extra rooms found", "candidates", len(d.ExtraRooms))

	d.rasterize()
	logger.Info("dungeon rasterized",
		"width", d.Grid.Width, "height", d.Grid.Height,
		"floors", d.Grid.Count(components.TileFloor), "walls", d.Grid.Count(components.TileWall))

	return d, nil
}

// separatorFor picks the configured separator and hooks physics progress
// into the observers of d.
func (g *DungeonGenerator) separatorFor(d *Dungeon) Separator {
	if g.separator != nil {
		return g.separator
	}
	if g.cfg.Separation.Strategy != config.SeparatorPhysics {
		return DiscreteSeparator{TileSize: g.cfg.TileSize, MaxIterations: g.cfg.Separation.MaxIterations}
	}

	every := g.cfg.Separation.ProgressEvery
	return PhysicsSeparator{
		Options: g.PhysicsOptions(),
		OnStep: func(sim *Simulation) {
			select {
			case <-sim.Done():
				if sim.TimedOut() {
					d.logger.Warn("physics separation timed out", "steps", sim.Steps(), "elapsed", sim.Elapsed())
				}
			default:
			}
			if every <= 0 || sim.Steps()%every != 0 || len(d.observers) == 0 {
				return
			}
			s := d.snapshot(StageSeparating)
			s.Cells = sim.Positions()
			s.Step = sim.Steps()
			d.observers.OnStage(s)
		},
	}
}

// Dungeon is the result of a generation run
type Dungeon struct {
	RunID    string
	Seed     int64
	TileSize int

	// Cells are every scattered cell after separation
	Cells             []Cell
	Rooms             []Cell
	RoomCenters       []Point
	StartingRoomIndex int

	Graph         Connectivity
	CorridorEdges []Edge
	Corridors     []Cell

	// ExtraRooms are promotion candidates, not part of the dungeon yet
	ExtraRooms       []Cell
	ExtraRoomCenters []Point

	Grid         *components.TileGrid
	DisplayTiles *DisplayGrid

	carver    Carver
	rng       *rand.Rand
	logger    *slog.Logger
	observers Observers
}

// StartingRoomCenter returns the center of the starting room, false when
// there are no rooms
func (d *Dungeon) StartingRoomCenter() (Point, bool) {
	if d.StartingRoomIndex < 0 || d.StartingRoomIndex >= len(d.RoomCenters) {
		return Point{}, false
	}
	return d.RoomCenters[d.StartingRoomIndex], true
}

// Footprint returns the cells that make up the dungeon: rooms then corridors
func (d *Dungeon) Footprint() []Cell {
	footprint := make([]Cell, 0, len(d.Rooms)+len(d.Corridors))
	footprint = append(footprint, d.Rooms...)
	return append(footprint, d.Corridors...)
}

// PromoteExtraRoom turns candidate i into a room connected to its nearest
// existing room and re-rasterizes the grid. On error nothing changes.
func (d *Dungeon) PromoteExtraRoom(i int) error {
	if i < 0 || i >= len(d.ExtraRooms) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrCandidateOutOfRange, i, len(d.ExtraRooms))
	}
	if len(d.Rooms) == 0 {
		return ErrNoNearestRoom
	}

	room, center := d.ExtraRooms[i], d.ExtraRoomCenters[i]

	nearest := 0
	nearestDistance := math.MaxInt
	for j, c := range d.RoomCenters {
		if dist := c.DistanceSq(center); dist < nearestDistance {
			nearest, nearestDistance = j, dist
		}
	}

	d.Rooms = append(d.Rooms, room)
	d.RoomCenters = append(d.RoomCenters, center)
	edge := NewEdge(nearest, len(d.Rooms)-1, d.RoomCenters)
	d.CorridorEdges = append(d.CorridorEdges, edge)

	carved := d.carver.CarveInto(d.rng, d.Cells, d.Rooms, d.RoomCenters, []Edge{edge}, d.Corridors)
	d.Corridors = append(d.Corridors, carved...)

	d.ExtraRooms = slices.Delete(d.ExtraRooms, i, i+1)
	d.ExtraRoomCenters = slices.Delete(d.ExtraRoomCenters, i, i+1)
	d.dropAbsorbedCandidates()

	d.rasterize()
	d.logger.Info("extra room promoted", "room", len(d.Rooms)-1, "connected_to", nearest, "corridor_cells", len(carved))
	d.notify(StagePromoted)
	return nil
}

// dropAbsorbedCandidates removes candidates a new corridor ran through
func (d *Dungeon) dropAbsorbedCandidates() {
	footprint := d.Footprint()
	rooms, centers := d.ExtraRooms[:0], d.ExtraRoomCenters[:0]
	for k, c := range d.ExtraRooms {
		if partOfDungeon(c, footprint) {
			continue
		}
		rooms = append(rooms, c)
		centers = append(centers, d.ExtraRoomCenters[k])
	}
	d.ExtraRooms, d.ExtraRoomCenters = rooms, centers
}

func (d *Dungeon) rasterize() {
	d.Grid = Rasterize(d.Cells, d.Rooms, d.Corridors, d.TileSize)
	d.DisplayTiles = DisplayTiles(d.Grid)
	d.notify(StageRasterized)
}

func (d *Dungeon) snapshot(stage Stage) Snapshot {
	s := Snapshot{
		RunID:             d.RunID,
		Stage:             stage,
		Cells:             d.Cells,
		Rooms:             d.Rooms,
		RoomCenters:       d.RoomCenters,
		StartingRoomIndex: d.StartingRoomIndex,
		Edges:             d.CorridorEdges,
		Corridors:         d.Corridors,
		ExtraRooms:        d.ExtraRooms,
		Grid:              d.Grid,
	}
	return s.clone()
}

func (d *Dungeon) notify(stage Stage) {
	if len(d.observers) == 0 {
		return
	}
	d.observers.OnStage(d.snapshot(stage))
}
