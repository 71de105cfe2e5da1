package ws

import (
	"log/slog"
	"sync/atomic"

	"ebiten-dungeon/generation"
	"ebiten-dungeon/protocol"
)

// Streamer publishes generation progress to a hub. It is a
// generation.Observer, so it can be passed to WithObserver.
type Streamer struct {
	hub      *Hub
	logger   *slog.Logger
	sequence atomic.Uint64
}

// NewStreamer creates a streamer over hub
func NewStreamer(hub *Hub, logger *slog.Logger) *Streamer {
	return &Streamer{hub: hub, logger: logger}
}

// OnStage broadcasts a stage snapshot
func (s *Streamer) OnStage(snap generation.Snapshot) {
	s.publish(protocol.StageEnvelope(s.sequence.Add(1), snap))
}

// PublishDungeon broadcasts a finished dungeon and returns its envelope
func (s *Streamer) PublishDungeon(d *generation.Dungeon) protocol.Envelope {
	env := protocol.DungeonEnvelope(s.sequence.Add(1), d)
	s.publish(env)
	return env
}

// PublishError broadcasts a failed run and returns its envelope
func (s *Streamer) PublishError(runID string, err error) protocol.Envelope {
	env := protocol.ErrorEnvelope(s.sequence.Add(1), runID, err)
	s.publish(env)
	return env
}

func (s *Streamer) publish(env protocol.Envelope) {
	if err := s.hub.BroadcastJSON(env); err != nil {
		s.logger.Error("failed to encode envelope", "type", env.Type, "run", env.RunID, "error", err)
	}
}
