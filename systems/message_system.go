package systems

import (
	"fmt"
	"image/color"

	"ebiten-dungeon/ecs"
	"ebiten-dungeon/generation"
)

// MessageType defines different types of messages that can appear in the log
type MessageType int

const (
	// MessageTypeNormal is for standard messages (white/gray)
	MessageTypeNormal MessageType = iota
	// MessageTypeStage is for pipeline progress (gold)
	MessageTypeStage
	// MessageTypeAlert is for failed runs and rejected requests (red)
	MessageTypeAlert
	// MessageTypeSystem is for viewer controls and help (purple)
	MessageTypeSystem
)

// ColoredMessage stores a message with its associated color
type ColoredMessage struct {
	Text string
	Type MessageType
}

// GetColor returns the color for the message based on its type
func (cm ColoredMessage) GetColor() color.RGBA {
	switch cm.Type {
	case MessageTypeStage:
		return color.RGBA{218, 165, 32, 255} // Gold
	case MessageTypeAlert:
		return color.RGBA{255, 100, 100, 255} // Red
	case MessageTypeSystem:
		return color.RGBA{186, 85, 211, 255} // Medium Orchid (Purple)
	default:
		return color.RGBA{200, 200, 200, 255} // Light Gray (default)
	}
}

// MessageLog stores viewer messages
type MessageLog struct {
	Messages    []ColoredMessage
	MaxMessages int
}

// NewMessageLog creates a new message log
func NewMessageLog() *MessageLog {
	return &MessageLog{
		MaxMessages: 100, // Store the last 100 messages
	}
}

// Add adds a normal message to the log
func (ml *MessageLog) Add(message string) {
	ml.AddTyped(message, MessageTypeNormal)
}

// AddTyped adds a message of the given type
func (ml *MessageLog) AddTyped(message string, t MessageType) {
	ml.Messages = append(ml.Messages, ColoredMessage{Text: message, Type: t})

	if len(ml.Messages) > ml.MaxMessages {
		ml.Messages = ml.Messages[len(ml.Messages)-ml.MaxMessages:]
	}
}

// RecentMessages gets the n most recent messages, newest first
func (ml *MessageLog) RecentMessages(n int) []ColoredMessage {
	if n > len(ml.Messages) {
		n = len(ml.Messages)
	}

	result := make([]ColoredMessage, n)
	for i := 0; i < n; i++ {
		result[i] = ml.Messages[len(ml.Messages)-1-i]
	}

	return result
}

// Clear clears all messages
func (ml *MessageLog) Clear() {
	ml.Messages = nil
}

// MessageSystem turns pipeline events into log lines
type MessageSystem struct {
	log *MessageLog
}

// NewMessageSystem subscribes a message system to the world's events
func NewMessageSystem(world *ecs.World, log *MessageLog) *MessageSystem {
	s := &MessageSystem{log: log}
	em := world.GetEventManager()
	em.Subscribe(EventStage, s.onStage)
	em.Subscribe(EventDungeonReady, s.onReady)
	return s
}

// Log returns the log the system writes to
func (s *MessageSystem) Log() *MessageLog { return s.log }

// Update does nothing; the system is event driven
func (s *MessageSystem) Update(world *ecs.World, dt float64) {}

func (s *MessageSystem) onStage(e ecs.Event) {
	snap := e.(StageEvent).Snapshot
	switch snap.Stage {
	case generation.StageSeparating:
		return
	case generation.StageRooms:
		s.log.AddTyped(fmt.Sprintf("%d rooms selected", len(snap.Rooms)), MessageTypeStage)
	case generation.StageGraph:
		s.log.AddTyped(fmt.Sprintf("%d corridors planned", len(snap.Edges)), MessageTypeStage)
	case generation.StageExtraRooms:
		s.log.AddTyped(fmt.Sprintf("%d extra room candidates", len(snap.ExtraRooms)), MessageTypeStage)
	default:
		s.log.AddTyped(string(snap.Stage), MessageTypeStage)
	}
}

func (s *MessageSystem) onReady(e ecs.Event) {
	ready := e.(DungeonReadyEvent)
	if ready.Err != nil {
		s.log.AddTyped(fmt.Sprintf("seed %d: %v", ready.Seed, ready.Err), MessageTypeAlert)
		return
	}
	s.log.Add(fmt.Sprintf("seed %d: %d rooms, %d extra", ready.Seed, ready.Rooms, ready.Extra))
}
