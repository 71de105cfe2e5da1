package systems

import (
	"log/slog"
	"slices"

	"ebiten-dungeon/components"
	"ebiten-dungeon/ecs"
)

// MapRegistrySystem keeps the history of generated runs and which one is on
// screen. The active run carries the "active" tag.
type MapRegistrySystem struct {
	world       *ecs.World
	logger      *slog.Logger
	maps        []ecs.EntityID         // Runs in the order they started
	bySeed      map[int64]ecs.EntityID // Latest run per seed
	activeMapID ecs.EntityID           // The run on screen
	lastMapID   ecs.EntityID           // The run shown before it
	MaxMaps     int                    // Oldest runs are removed past this
}

// NewMapRegistrySystem creates a registry subscribed to run and history events
func NewMapRegistrySystem(world *ecs.World, logger *slog.Logger, maxMaps int) *MapRegistrySystem {
	s := &MapRegistrySystem{
		world:   world,
		logger:  logger,
		bySeed:  make(map[int64]ecs.EntityID),
		MaxMaps: maxMaps,
	}

	em := world.GetEventManager()
	em.Subscribe(EventRunStarted, func(e ecs.Event) {
		started := e.(RunStartedEvent)
		if entity := world.GetEntity(started.EntityID); entity != nil {
			s.RegisterMap(entity, started.Seed)
			s.SetActiveMap(entity)
		}
	})
	em.Subscribe(EventHistory, func(e ecs.Event) { s.Step(e.(HistoryEvent).Delta) })
	return s
}

// Update drops runs whose entities were removed elsewhere
func (s *MapRegistrySystem) Update(world *ecs.World, dt float64) {
	s.maps = slices.DeleteFunc(s.maps, func(id ecs.EntityID) bool { return world.GetEntity(id) == nil })
	for seed, id := range s.bySeed {
		if world.GetEntity(id) == nil {
			delete(s.bySeed, seed)
		}
	}
}

// RegisterMap appends a run to the history, evicting the oldest runs past
// MaxMaps. The active run is never evicted.
func (s *MapRegistrySystem) RegisterMap(mapEntity *ecs.Entity, seed int64) {
	s.maps = append(s.maps, mapEntity.ID)
	s.bySeed[seed] = mapEntity.ID

	for s.MaxMaps > 0 && len(s.maps) > s.MaxMaps {
		oldest := s.maps[0]
		if oldest == s.activeMapID {
			break
		}
		s.maps = s.maps[1:]
		s.world.RemoveEntity(oldest)
		for k, id := range s.bySeed {
			if id == oldest {
				delete(s.bySeed, k)
			}
		}
	}
	s.logger.Debug("run registered", "entity", mapEntity.ID, "seed", seed, "history", len(s.maps))
}

// SetActiveMap makes mapEntity the run on screen
func (s *MapRegistrySystem) SetActiveMap(mapEntity *ecs.Entity) {
	if s.activeMapID == mapEntity.ID {
		return
	}
	if s.world.GetEntity(s.activeMapID) != nil {
		s.world.UntagEntity(s.activeMapID, "active")
		s.lastMapID = s.activeMapID
	}

	s.activeMapID = mapEntity.ID
	s.world.TagEntity(mapEntity.ID, "active")
	s.world.GetEventManager().Post(ActiveChangedEvent{EntityID: mapEntity.ID})
}

// Step moves the active run delta places through the history, clamped to
// its ends.
func (s *MapRegistrySystem) Step(delta int) {
	if len(s.maps) == 0 {
		return
	}
	i := slices.Index(s.maps, s.activeMapID)
	if i < 0 {
		i = len(s.maps) - 1
	}
	i = max(0, min(len(s.maps)-1, i+delta))
	if entity := s.world.GetEntity(s.maps[i]); entity != nil {
		s.SetActiveMap(entity)
	}
}

// GetActiveMap returns the currently active run entity
func (s *MapRegistrySystem) GetActiveMap() *ecs.Entity {
	if s.activeMapID == 0 {
		return nil
	}
	return s.world.GetEntity(s.activeMapID)
}

// GetLastMap returns the previously active run entity
func (s *MapRegistrySystem) GetLastMap() *ecs.Entity {
	if s.lastMapID == 0 {
		return nil
	}
	return s.world.GetEntity(s.lastMapID)
}

// GetMapBySeed returns the latest run generated from seed
func (s *MapRegistrySystem) GetMapBySeed(seed int64) *ecs.Entity {
	id, ok := s.bySeed[seed]
	if !ok {
		return nil
	}
	return s.world.GetEntity(id)
}

// History returns the run entities oldest first
func (s *MapRegistrySystem) History() []ecs.EntityID {
	return slices.Clone(s.maps)
}

// ActiveProgress returns the progress of the run on screen
func (s *MapRegistrySystem) ActiveProgress() *components.ProgressComponent {
	if comp, ok := s.world.GetComponent(s.activeMapID, components.Progress); ok {
		return comp.(*components.ProgressComponent)
	}
	return nil
}
