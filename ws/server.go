package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"ebiten-dungeon/config"
	"ebiten-dungeon/generation"
	"ebiten-dungeon/protocol"
)

// ErrUnknownRun is returned when promoting into a run that is not the last
// finished one
var ErrUnknownRun = errors.New("unknown run")

// Server generates dungeons on request and streams every stage to the
// connected websocket clients. Runs are serialised; the last finished
// dungeon is kept for promotion.
type Server struct {
	cfg    config.Generation
	hub    *Hub
	stream *Streamer
	logger *slog.Logger

	mu   sync.Mutex
	last *generation.Dungeon
}

// NewServer creates a server generating with cfg
func NewServer(cfg config.Generation, logger *slog.Logger) *Server {
	hub := NewHub()
	return &Server{
		cfg:    cfg,
		hub:    hub,
		stream: NewStreamer(hub, logger),
		logger: logger,
	}
}

// Hub returns the client hub
func (s *Server) Hub() *Hub { return s.hub }

// Router returns the HTTP routes of the server
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/dungeon", s.handleGenerate).Methods(http.MethodGet)
	r.HandleFunc("/dungeon/{run}/promote/{index:[0-9]+}", s.handlePromote).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleStream)
	return r
}

// Generate runs the pipeline with an optional seed and cell count override.
// The returned envelope is the one broadcast to clients.
func (s *Server) Generate(ctx context.Context, seed int64, cells int) (protocol.Envelope, error) {
	cfg := s.cfg
	if seed != 0 {
		cfg.Seed = seed
	}
	if cells > 0 {
		cfg.NumberOfCells = cells
	}
	if err := cfg.Validate(); err != nil {
		return protocol.ErrorEnvelope(0, "", err), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	gen := generation.NewDungeonGenerator(cfg,
		generation.WithLogger(s.logger),
		generation.WithObserver(s.stream))
	d, err := gen.Generate(ctx)
	if d == nil {
		s.logger.Warn("run rejected", "seed", gen.Seed(), "error", err)
		return s.stream.PublishError("", err), err
	}
	if err != nil {
		s.logger.Warn("run failed", "run", d.RunID, "seed", gen.Seed(), "error", err)
		return s.stream.PublishError(d.RunID, err), err
	}

	s.last = d
	return s.stream.PublishDungeon(d), nil
}

// Promote promotes extra room index of the last finished run
func (s *Server) Promote(runID string, index int) (protocol.Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil || s.last.RunID != runID {
		err := fmt.Errorf("%w: %s", ErrUnknownRun, runID)
		return protocol.ErrorEnvelope(0, runID, err), err
	}
	if err := s.last.PromoteExtraRoom(index); err != nil {
		return s.stream.PublishError(runID, err), err
	}
	return s.stream.PublishDungeon(s.last), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var seed int64
	if v := query.Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, protocol.ErrorEnvelope(0, "", fmt.Errorf("invalid seed %q", v)))
			return
		}
		seed = parsed
	}

	var cells int
	if v := query.Get("cells"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, protocol.ErrorEnvelope(0, "", fmt.Errorf("invalid cells %q", v)))
			return
		}
		cells = parsed
	}

	env, err := s.Generate(r.Context(), seed, cells)
	writeJSON(w, statusFor(err), env)
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.ErrorEnvelope(0, vars["run"], err))
		return
	}

	env, err := s.Promote(vars["run"], index)
	writeJSON(w, statusFor(err), env)
}

// handleStream registers a websocket client. Clients may send intents to
// start runs or promote rooms; outcomes arrive as broadcasts.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	s.hub.Add(conn)
	s.logger.Info("client connected", "clients", s.hub.Len())

	defer s.hub.Remove(conn)
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var env protocol.IntentEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case protocol.IntentGenerate:
			var req protocol.RequestGenerate
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			_, _ = s.Generate(ctx, req.Seed, req.Cells)
		case protocol.IntentPromote:
			var req protocol.RequestPromote
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			_, _ = s.Promote(req.RunID, req.Index)
		}
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, generation.ErrCandidateOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownRun):
		return http.StatusNotFound
	case errors.Is(err, generation.ErrNotEnoughRooms):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
