package ecs

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// World manages all entities and components
type World struct {
	entities map[EntityID]*Entity
	// Store components as map[EntityID]map[ComponentID]Component
	components map[EntityID]ComponentMap
	systems    []System
	// Tag-based entity lookup for quick access
	entityTags   map[string]mapset.Set[EntityID]
	eventManager *EventManager
}

// NewWorld creates a new ECS world
func NewWorld() *World {
	return &World{
		entities:     make(map[EntityID]*Entity),
		components:   make(map[EntityID]ComponentMap),
		systems:      make([]System, 0),
		entityTags:   make(map[string]mapset.Set[EntityID]),
		eventManager: NewEventManager(),
	}
}

// CreateEntity creates a new entity and adds it to the world
func (w *World) CreateEntity() *Entity {
	entity := NewEntity()
	w.entities[entity.ID] = entity
	w.components[entity.ID] = make(ComponentMap)
	return entity
}

// RemoveEntity removes an entity and all its components from the world
func (w *World) RemoveEntity(entityID EntityID) {
	entity, exists := w.entities[entityID]
	if !exists {
		return
	}

	entity.Tags.Each(func(tag string) {
		tagged, ok := w.entityTags[tag]
		if !ok {
			return
		}
		tagged.Remove(entityID)
		if tagged.Size() == 0 {
			delete(w.entityTags, tag)
		}
	})

	delete(w.components, entityID)
	delete(w.entities, entityID)
}

// AddComponent adds a component to an entity
func (w *World) AddComponent(entityID EntityID, componentID ComponentID, component Component) {
	if _, exists := w.entities[entityID]; !exists {
		return
	}

	if _, exists := w.components[entityID]; !exists {
		w.components[entityID] = make(ComponentMap)
	}

	w.components[entityID][componentID] = component
}

// GetComponent retrieves a component from an entity
func (w *World) GetComponent(entityID EntityID, componentID ComponentID) (Component, bool) {
	if componentMap, exists := w.components[entityID]; exists {
		component, exists := componentMap[componentID]
		return component, exists
	}
	return nil, false
}

// HasComponent checks if an entity has a specific component
func (w *World) HasComponent(entityID EntityID, componentID ComponentID) bool {
	_, exists := w.GetComponent(entityID, componentID)
	return exists
}

// RemoveComponent removes a component from an entity
func (w *World) RemoveComponent(entityID EntityID, componentID ComponentID) {
	if componentMap, exists := w.components[entityID]; exists {
		delete(componentMap, componentID)
	}
}

// AddSystem adds a system to the world
func (w *World) AddSystem(system System) {
	w.systems = append(w.systems, system)
}

// Update runs every system in registration order, then dispatches the
// events posted while they ran.
func (w *World) Update(dt float64) {
	for _, system := range w.systems {
		system.Update(w, dt)
	}
	w.eventManager.Flush()
}

// GetSystems returns all systems registered in the world
func (w *World) GetSystems() []System {
	return w.systems
}

// TagEntity adds a tag to an entity and updates the tag lookup
func (w *World) TagEntity(entityID EntityID, tag string) {
	entity, exists := w.entities[entityID]
	if !exists {
		return
	}

	entity.AddTag(tag)

	tagged, exists := w.entityTags[tag]
	if !exists {
		tagged = mapset.New[EntityID]()
		w.entityTags[tag] = tagged
	}
	tagged.Put(entityID)
}

// UntagEntity removes a tag from an entity and the tag lookup
func (w *World) UntagEntity(entityID EntityID, tag string) {
	entity, exists := w.entities[entityID]
	if !exists {
		return
	}

	entity.RemoveTag(tag)
	if tagged, ok := w.entityTags[tag]; ok {
		tagged.Remove(entityID)
		if tagged.Size() == 0 {
			delete(w.entityTags, tag)
		}
	}
}

// GetEntitiesWithTag returns the entities carrying tag ordered by ID.
func (w *World) GetEntitiesWithTag(tag string) []*Entity {
	entities := make([]*Entity, 0)

	if tagged, exists := w.entityTags[tag]; exists {
		tagged.Each(func(id EntityID) {
			if entity, ok := w.entities[id]; ok {
				entities = append(entities, entity)
			}
		})
	}

	sortByID(entities)
	return entities
}

// FirstWithTag returns the lowest-ID entity carrying tag.
func (w *World) FirstWithTag(tag string) (*Entity, bool) {
	entities := w.GetEntitiesWithTag(tag)
	if len(entities) == 0 {
		return nil, false
	}
	return entities[0], true
}

// GetAllEntities returns every entity ordered by ID.
func (w *World) GetAllEntities() []*Entity {
	entities := make([]*Entity, 0, len(w.entities))
	for _, entity := range w.entities {
		entities = append(entities, entity)
	}
	sortByID(entities)
	return entities
}

// GetEventManager returns the world's event manager
func (w *World) GetEventManager() *EventManager {
	return w.eventManager
}

// EmitEvent is a convenience method to emit an event
func (w *World) EmitEvent(event Event) {
	w.eventManager.Emit(event)
}

// GetEntity returns an entity by its ID
func (w *World) GetEntity(entityID EntityID) *Entity {
	entity, exists := w.entities[entityID]
	if !exists {
		return nil
	}
	return entity
}

// GetEntitiesWithComponent returns the entities that have componentID ordered by ID.
func (w *World) GetEntitiesWithComponent(componentID ComponentID) []*Entity {
	entities := make([]*Entity, 0)

	for id, componentMap := range w.components {
		if _, hasComponent := componentMap[componentID]; hasComponent {
			if entity, ok := w.entities[id]; ok {
				entities = append(entities, entity)
			}
		}
	}

	sortByID(entities)
	return entities
}

func sortByID(entities []*Entity) {
	slices.SortFunc(entities, func(a, b *Entity) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
