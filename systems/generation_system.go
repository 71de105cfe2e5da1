package systems

import (
	"context"
	"errors"
	"log/slog"

	"ebiten-dungeon/components"
	"ebiten-dungeon/config"
	"ebiten-dungeon/ecs"
	"ebiten-dungeon/generation"
)

// ErrNothingSelected is reported when a promotion is requested with no extra
// room highlighted
var ErrNothingSelected = errors.New("no extra room selected")

// separationRun is a separator advanced one step at a time
type separationRun interface {
	step() bool
	cells() []generation.Cell
	steps() int
}

type discreteRun struct {
	sep     generation.DiscreteSeparator
	current []generation.Cell
	iter    int
	done    bool
}

func (r *discreteRun) step() bool {
	if r.done {
		return true
	}
	r.iter++
	if !r.sep.Step(r.current) || r.iter >= r.sep.MaxIterations {
		r.done = true
	}
	return r.done
}

func (r *discreteRun) cells() []generation.Cell { return append([]generation.Cell(nil), r.current...) }
func (r *discreteRun) steps() int               { return r.iter }

type physicsRun struct {
	sim *generation.Simulation
	dt  float64
}

func (r *physicsRun) step() bool               { return r.sim.Step(r.dt) }
func (r *physicsRun) cells() []generation.Cell { return r.sim.Positions() }
func (r *physicsRun) steps() int               { return r.sim.Steps() }

func newSeparationRun(gen *generation.DungeonGenerator, cells []generation.Cell) separationRun {
	cfg := gen.Config()
	if cfg.Separation.Strategy == config.SeparatorPhysics {
		opts := gen.PhysicsOptions()
		dt := opts.TimeStep.Seconds()
		if dt <= 0 {
			dt = 1.0 / 60
		}
		return &physicsRun{sim: generation.NewSimulation(cells, opts), dt: dt}
	}

	sep := generation.DiscreteSeparator{TileSize: cfg.TileSize, MaxIterations: cfg.Separation.MaxIterations}
	return &discreteRun{
		sep:     sep,
		current: append([]generation.Cell(nil), cells...),
		done:    sep.MaxIterations <= 0,
	}
}

// GenerationSystem drives dungeon runs from the update loop. Separation is
// stepped a few times per frame so cells can be watched spreading out, the
// remaining stages run in one go once they settle. Every run lives on its own
// entity tagged "dungeon".
type GenerationSystem struct {
	ctx           context.Context
	world         *ecs.World
	gen           *generation.DungeonGenerator
	logger        *slog.Logger
	stepsPerFrame int

	started  bool
	entity   ecs.EntityID
	run      separationRun
	active   ecs.EntityID
	dungeons map[ecs.EntityID]*generation.Dungeon
}

// NewGenerationSystem creates the system and subscribes it to viewer requests.
// Stage snapshots are posted to the world as StageEvents.
func NewGenerationSystem(ctx context.Context, world *ecs.World, cfg config.Generation, logger *slog.Logger, stepsPerFrame int) *GenerationSystem {
	if stepsPerFrame <= 0 {
		stepsPerFrame = 1
	}
	em := world.GetEventManager()
	observer := generation.ObserverFunc(func(s generation.Snapshot) {
		if s.Stage == generation.StageSeparating {
			return
		}
		em.Post(StageEvent{Snapshot: s})
	})

	s := &GenerationSystem{
		ctx:           ctx,
		world:         world,
		logger:        logger,
		stepsPerFrame: stepsPerFrame,
		dungeons:      make(map[ecs.EntityID]*generation.Dungeon),
		gen: generation.NewDungeonGenerator(cfg,
			generation.WithLogger(logger),
			generation.WithSeparator(generation.Presettled),
			generation.WithObserver(observer)),
	}

	em.Subscribe(EventRegenerate, func(e ecs.Event) { s.Start(e.(RegenerateEvent).Seed) })
	em.Subscribe(EventPromote, func(ecs.Event) {
		if err := s.Promote(); err != nil {
			logger.Warn("promotion rejected", "error", err)
		}
	})
	em.Subscribe(EventSelectExtra, func(ecs.Event) {
		if layout := s.layout(s.active); layout != nil {
			layout.SelectNext()
		}
	})
	em.Subscribe(EventActiveChanged, func(e ecs.Event) { s.active = e.(ActiveChangedEvent).EntityID })
	return s
}

// Start scatters a new run on a fresh entity. A zero seed uses the
// configured seed for the first run and the next seed after that. A run
// still separating is discarded.
func (s *GenerationSystem) Start(seed int64) ecs.EntityID {
	if seed == 0 {
		seed = s.gen.Seed()
		if s.started {
			seed++
		}
	}
	if s.run != nil {
		s.world.RemoveEntity(s.entity)
		s.run = nil
	}
	s.started = true

	s.gen.SetSeed(seed)
	cells := s.gen.Scatter()

	e := s.world.CreateEntity()
	s.world.TagEntity(e.ID, "dungeon")
	layout := components.NewLayoutComponent(s.gen.Config().TileSize)
	layout.Cells = rects(cells)
	s.world.AddComponent(e.ID, components.Layout, layout)
	s.world.AddComponent(e.ID, components.TileMap, &components.TileMapComponent{})
	s.world.AddComponent(e.ID, components.Progress, &components.ProgressComponent{
		Seed:  seed,
		Stage: string(generation.StageScattered),
	})

	s.entity = e.ID
	s.active = e.ID
	s.run = newSeparationRun(s.gen, cells)
	s.world.GetEventManager().Post(RunStartedEvent{EntityID: e.ID, Seed: seed})
	s.logger.Info("run started", "seed", seed, "cells", len(cells))
	return e.ID
}

// Separating reports whether a run is still being separated
func (s *GenerationSystem) Separating() bool { return s.run != nil }

// Dungeon returns the finished dungeon of a run entity
func (s *GenerationSystem) Dungeon(id ecs.EntityID) (*generation.Dungeon, bool) {
	d, ok := s.dungeons[id]
	return d, ok
}

// Active returns the run entity requests apply to
func (s *GenerationSystem) Active() ecs.EntityID { return s.active }

// Update advances separation and finishes the run once cells settle
func (s *GenerationSystem) Update(world *ecs.World, dt float64) {
	if s.run == nil {
		return
	}

	done := false
	for i := 0; i < s.stepsPerFrame && !done; i++ {
		done = s.run.step()
	}
	cells := s.run.cells()

	if layout := s.layout(s.entity); layout != nil {
		layout.Cells = rects(cells)
	}
	if progress := s.progress(s.entity); progress != nil {
		progress.Stage = string(generation.StageSeparating)
		progress.Step = s.run.steps()
		if pr, ok := s.run.(*physicsRun); ok {
			progress.Elapsed = pr.sim.Elapsed()
		}
	}
	if !done {
		return
	}

	s.run = nil
	d, err := s.gen.GenerateFromCells(s.ctx, cells)
	s.apply(s.entity, d, err, generation.StageRasterized)
}

// Promote turns the highlighted extra room of the active run into a room
func (s *GenerationSystem) Promote() error {
	d, ok := s.dungeons[s.active]
	layout := s.layout(s.active)
	if !ok || layout == nil || layout.Selected < 0 {
		return ErrNothingSelected
	}

	if err := d.PromoteExtraRoom(layout.Selected); err != nil {
		return err
	}
	s.apply(s.active, d, nil, generation.StagePromoted)
	return nil
}

func (s *GenerationSystem) apply(id ecs.EntityID, d *generation.Dungeon, err error, stage generation.Stage) {
	for old := range s.dungeons {
		if s.world.GetEntity(old) == nil {
			delete(s.dungeons, old)
		}
	}
	if d == nil {
		if progress := s.progress(id); progress != nil {
			progress.Err = err.Error()
		}
		s.world.GetEventManager().Post(DungeonReadyEvent{EntityID: id, Err: err})
		return
	}
	s.dungeons[id] = d

	if layout := s.layout(id); layout != nil {
		fillLayout(layout, d)
	}
	if tm, ok := s.world.GetComponent(id, components.TileMap); ok && d.Grid != nil {
		fillTileMap(tm.(*components.TileMapComponent), d)
	}
	if progress := s.progress(id); progress != nil {
		progress.RunID = d.RunID
		progress.Seed = d.Seed
		progress.Stage = string(stage)
		progress.Rooms = len(d.Rooms)
		progress.Err = ""
		if err != nil {
			progress.Err = err.Error()
		}
	}

	s.world.GetEventManager().Post(DungeonReadyEvent{
		EntityID: id,
		RunID:    d.RunID,
		Seed:     d.Seed,
		Rooms:    len(d.Rooms),
		Extra:    len(d.ExtraRooms),
		Err:      err,
	})
}

func (s *GenerationSystem) layout(id ecs.EntityID) *components.LayoutComponent {
	if comp, ok := s.world.GetComponent(id, components.Layout); ok {
		return comp.(*components.LayoutComponent)
	}
	return nil
}

func (s *GenerationSystem) progress(id ecs.EntityID) *components.ProgressComponent {
	if comp, ok := s.world.GetComponent(id, components.Progress); ok {
		return comp.(*components.ProgressComponent)
	}
	return nil
}
