package generation

import "ebiten-dungeon/components"

// Stage names a point in the pipeline at which observers are notified
type Stage string

const (
	StageScattered  Stage = "scattered"
	StageSeparating Stage = "separating"
	StageSeparated  Stage = "separated"
	StageRooms      Stage = "rooms"
	StageGraph      Stage = "graph"
	StageCorridors  Stage = "corridors"
	StageExtraRooms Stage = "extra_rooms"
	StageRasterized Stage = "rasterized"
	StagePromoted   Stage = "promoted"
)

// Snapshot is a copy of the pipeline state at one stage. Observers own the
// snapshot they receive; changing it has no effect on the generator.
type Snapshot struct {
	RunID string
	Stage Stage
	// Step is the simulation step for StageSeparating snapshots
	Step int

	Cells             []Cell
	Rooms             []Cell
	RoomCenters       []Point
	StartingRoomIndex int
	Edges             []Edge
	Corridors         []Cell
	ExtraRooms        []Cell
	Grid              *components.TileGrid
}

// Observer receives stage snapshots while a dungeon is generated.
type Observer interface {
	OnStage(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnStage(s Snapshot) { f(s) }

// Observers fans a snapshot out to several observers in order.
type Observers []Observer

func (o Observers) OnStage(s Snapshot) {
	for i, obs := range o {
		if i > 0 {
			s = s.clone()
		}
		obs.OnStage(s)
	}
}

func (s Snapshot) clone() Snapshot {
	s.Cells = cloneSlice(s.Cells)
	s.Rooms = cloneSlice(s.Rooms)
	s.RoomCenters = cloneSlice(s.RoomCenters)
	s.Edges = cloneSlice(s.Edges)
	s.Corridors = cloneSlice(s.Corridors)
	s.ExtraRooms = cloneSlice(s.ExtraRooms)
	s.Grid = s.Grid.Clone()
	return s
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
