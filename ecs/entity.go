package ecs

import (
	"sync/atomic"

	"github.com/zyedidia/generic/mapset"
)

// EntityID is a unique identifier for an entity
type EntityID uint64

var nextEntityID uint64 = 0

// NewEntityID generates a new unique entity ID
func NewEntityID() EntityID {
	return EntityID(atomic.AddUint64(&nextEntityID, 1))
}

// Entity is one thing in the viewer world: the dungeon layout, the camera, the HUD.
type Entity struct {
	ID   EntityID
	Tags mapset.Set[string]
}

// NewEntity creates a new entity
func NewEntity() *Entity {
	return &Entity{
		ID:   NewEntityID(),
		Tags: mapset.New[string](),
	}
}

// AddTag adds a tag to the entity
func (e *Entity) AddTag(tag string) {
	e.Tags.Put(tag)
}

// HasTag checks if the entity has a specific tag
func (e *Entity) HasTag(tag string) bool {
	return e.Tags.Has(tag)
}

// RemoveTag removes a tag from the entity
func (e *Entity) RemoveTag(tag string) {
	e.Tags.Remove(tag)
}
