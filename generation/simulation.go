package generation

import (
	"context"
	"math"
	"time"
)

// PhysicsOptions tunes the rigid body relaxation. Durations are simulated
// time, so a run is reproducible regardless of how fast the host steps it.
type PhysicsOptions struct {
	TileSize       int
	TimeStep       time.Duration
	Timeout        time.Duration
	StableDuration time.Duration
	// StableSpeed is the speed (world units per second) below which a body
	// counts as settled
	StableSpeed float64
	Stiffness   float64
	// Damping multiplies every velocity once per step
	Damping float64
}

type body struct {
	x, y          float64
	width, height float64
	vx, vy        float64
	mass          float64
}

func (b *body) overlap(o *body) (float64, float64, bool) {
	if b.x >= o.x+o.width || o.x >= b.x+b.width || b.y >= o.y+o.height || o.y >= b.y+b.height {
		return 0, 0, false
	}
	ox := math.Min(b.x+b.width-o.x, o.x+o.width-b.x)
	oy := math.Min(b.y+b.height-o.y, o.y+o.height-b.y)
	return ox, oy, true
}

// Simulation is a stepped rigid body relaxation of overlapping cells. Bodies
// have mass proportional to their area, feel only pairwise repulsion from
// overlap and never rotate.
//
// A Simulation is not safe for concurrent use; the caller drives it by
// calling Step from one goroutine.
type Simulation struct {
	opts      PhysicsOptions
	bodies    []body
	elapsed   time.Duration
	stableFor time.Duration
	steps     int
	timedOut  bool
	done      chan struct{}
	finished  bool
}

// NewSimulation creates a simulation over copies of cells.
func NewSimulation(cells []Cell, opts PhysicsOptions) *Simulation {
	tile := float64(opts.TileSize)
	bodies := make([]body, len(cells))
	for i, c := range cells {
		bodies[i] = body{
			x:      float64(c.X),
			y:      float64(c.Y),
			width:  float64(c.Width),
			height: float64(c.Height),
			mass:   math.Max(1, float64(c.Area())/(tile*tile)),
		}
	}

	return &Simulation{
		opts:   opts,
		bodies: bodies,
		done:   make(chan struct{}),
	}
}

// Step advances the simulation by dt seconds and reports whether it is
// done. Calling Step after completion is a no-op that returns true.
func (s *Simulation) Step(dt float64) bool {
	if s.finished {
		return true
	}

	fx := make([]float64, len(s.bodies))
	fy := make([]float64, len(s.bodies))

	for i := range s.bodies {
		a := &s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			b := &s.bodies[j]
			ox, oy, hit := a.overlap(b)
			if !hit {
				continue
			}

			if ox < oy {
				dir := float64(pushDirection(int(2*a.x+a.width), int(2*b.x+b.width), i, j))
				f := s.opts.Stiffness * ox
				fx[i] += dir * f
				fx[j] -= dir * f
			} else {
				dir := float64(pushDirection(int(2*a.y+a.height), int(2*b.y+b.height), i, j))
				f := s.opts.Stiffness * oy
				fy[i] += dir * f
				fy[j] -= dir * f
			}
		}
	}

	allStable := true
	for i := range s.bodies {
		b := &s.bodies[i]
		b.vx = (b.vx + fx[i]/b.mass*dt) * s.opts.Damping
		b.vy = (b.vy + fy[i]/b.mass*dt) * s.opts.Damping
		b.x += b.vx * dt
		b.y += b.vy * dt

		if math.Hypot(b.vx, b.vy) >= s.opts.StableSpeed {
			allStable = false
		}
	}

	step := time.Duration(dt * float64(time.Second))
	s.steps++
	s.elapsed += step
	if allStable {
		s.stableFor += step
	} else {
		s.stableFor = 0
	}

	switch {
	case s.stableFor >= s.opts.StableDuration:
		s.finish(false)
	case s.elapsed >= s.opts.Timeout:
		s.finish(true)
	}

	return s.finished
}

func (s *Simulation) finish(timedOut bool) {
	s.finished = true
	s.timedOut = timedOut
	close(s.done)
}

// Positions returns the current, possibly still settling, cells snapped to
// the nearest tile.
func (s *Simulation) Positions() []Cell {
	tile := float64(s.opts.TileSize)
	cells := make([]Cell, len(s.bodies))
	for i, b := range s.bodies {
		cells[i] = Cell{
			X:      int(math.Round(b.x/tile)) * s.opts.TileSize,
			Y:      int(math.Round(b.y/tile)) * s.opts.TileSize,
			Width:  int(b.width),
			Height: int(b.height),
		}
	}
	return cells
}

// Done is closed once every body has stayed settled for StableDuration or
// the timeout elapsed, whichever comes first.
func (s *Simulation) Done() <-chan struct{} {
	return s.done
}

// TimedOut reports whether the simulation ended by timeout.
func (s *Simulation) TimedOut() bool { return s.timedOut }

// Steps returns the number of steps taken so far.
func (s *Simulation) Steps() int { return s.steps }

// Elapsed returns the simulated time so far.
func (s *Simulation) Elapsed() time.Duration { return s.elapsed }

// Run steps the simulation with the configured time step until it completes
// or ctx is cancelled. onStep, when non-nil, is called after every step.
func (s *Simulation) Run(ctx context.Context, onStep func(*Simulation)) []Cell {
	dt := s.opts.TimeStep.Seconds()
	if dt <= 0 {
		dt = 1.0 / 60
	}
	for {
		select {
		case <-ctx.Done():
			return s.Positions()
		case <-s.done:
			return s.Positions()
		default:
		}

		s.Step(dt)
		if onStep != nil {
			onStep(s)
		}
	}
}

// PhysicsSeparator separates cells by driving a Simulation to completion.
type PhysicsSeparator struct {
	Options PhysicsOptions
	// OnStep observes the running simulation; it must not mutate it
	OnStep func(*Simulation)
}

// Separate blocks until the simulation settles or times out.
func (s PhysicsSeparator) Separate(ctx context.Context, cells []Cell) []Cell {
	return NewSimulation(cells, s.Options).Run(ctx, s.OnStep)
}
