package systems

import (
	"ebiten-dungeon/ecs"
	"ebiten-dungeon/generation"
)

// Event type constants
const (
	EventStage         ecs.EventType = "stage"
	EventRunStarted    ecs.EventType = "run_started"
	EventDungeonReady  ecs.EventType = "dungeon_ready"
	EventRegenerate    ecs.EventType = "regenerate"
	EventPromote       ecs.EventType = "promote"
	EventSelectExtra   ecs.EventType = "select_extra"
	EventHistory       ecs.EventType = "history"
	EventPan           ecs.EventType = "pan"
	EventZoom          ecs.EventType = "zoom"
	EventCameraUpdate  ecs.EventType = "camera_update"
	EventActiveChanged ecs.EventType = "active_changed"
)

// StageEvent carries a pipeline snapshot from the generator observer
type StageEvent struct {
	Snapshot generation.Snapshot
}

// Type returns the event type
func (e StageEvent) Type() ecs.EventType { return EventStage }

// RunStartedEvent is emitted when a new scatter begins on its own entity
type RunStartedEvent struct {
	EntityID ecs.EntityID
	Seed     int64
}

// Type returns the event type
func (e RunStartedEvent) Type() ecs.EventType { return EventRunStarted }

// DungeonReadyEvent is emitted when a run finished rasterizing, including
// after a promotion
type DungeonReadyEvent struct {
	EntityID ecs.EntityID
	RunID    string
	Seed     int64
	Rooms    int
	Extra    int
	Err      error
}

// Type returns the event type
func (e DungeonReadyEvent) Type() ecs.EventType { return EventDungeonReady }

// RegenerateEvent asks for a new run. A zero Seed advances to the next one.
type RegenerateEvent struct {
	Seed int64
}

// Type returns the event type
func (e RegenerateEvent) Type() ecs.EventType { return EventRegenerate }

// PromoteEvent asks to promote the selected extra room of the active run
type PromoteEvent struct{}

// Type returns the event type
func (e PromoteEvent) Type() ecs.EventType { return EventPromote }

// SelectExtraEvent moves the extra room highlight of the active run
type SelectExtraEvent struct{}

// Type returns the event type
func (e SelectExtraEvent) Type() ecs.EventType { return EventSelectExtra }

// HistoryEvent steps through earlier runs, negative is older
type HistoryEvent struct {
	Delta int
}

// Type returns the event type
func (e HistoryEvent) Type() ecs.EventType { return EventHistory }

// ActiveChangedEvent is emitted when a different run becomes the one on screen
type ActiveChangedEvent struct {
	EntityID ecs.EntityID
}

// Type returns the event type
func (e ActiveChangedEvent) Type() ecs.EventType { return EventActiveChanged }

// PanEvent moves the camera by a screen pixel offset
type PanEvent struct {
	DX, DY float64
}

// Type returns the event type
func (e PanEvent) Type() ecs.EventType { return EventPan }

// ZoomEvent scales the camera around the screen center
type ZoomEvent struct {
	Factor float64
}

// Type returns the event type
func (e ZoomEvent) Type() ecs.EventType { return EventZoom }

// CameraUpdateEvent is emitted when a camera moves
type CameraUpdateEvent struct {
	CameraID ecs.EntityID
	X, Y     float64
	Zoom     float64
}

// Type returns the event type
func (e CameraUpdateEvent) Type() ecs.EventType { return EventCameraUpdate }
