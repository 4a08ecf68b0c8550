// Package session wires one run together: the boundary config, the simulated
// database, the instrumentation journal, and the tool registry. It is the
// call surface an orchestrator uses for agent-issued tool requests, and it
// owns the per-invocation bookkeeping the pipeline itself does not do:
// syncing the database from game state and writing exactly one audit row per
// invocation.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/triage-ai/tripwire/internal/boundary"
	"github.com/triage-ai/tripwire/internal/entropy"
	"github.com/triage-ai/tripwire/internal/gamedb"
	"github.com/triage-ai/tripwire/internal/instrumentation"
	"github.com/triage-ai/tripwire/internal/tools"
	"go.uber.org/zap"
)

// Session owns the collaborators for a single run. All calls are
// synchronous; a reimplementation adding concurrent agents must serialize
// invocations, because table rewrites and append-only rows do not tolerate
// interleaved writers.
type Session struct {
	runID    string
	config   *boundary.Config
	state    *GameState
	db       *gamedb.DB
	events   *instrumentation.Logger
	registry *tools.Registry
	rand     tools.Rand
	log      *zap.Logger
}

// New creates a run session. An empty seed falls back to the run id, which
// still yields a fixed routing sequence within the run but differs across
// runs.
func New(cfg *boundary.Config, state *GameState, seed string, log *zap.Logger) *Session {
	runID := uuid.New().String()
	if seed == "" {
		seed = runID
	}
	return &Session{
		runID:    runID,
		config:   cfg,
		state:    state,
		db:       gamedb.New(),
		events:   instrumentation.NewLogger(log),
		registry: tools.NewRegistry(),
		rand:     entropy.New(seed),
		log:      log,
	}
}

// RunID returns the session's unique id.
func (s *Session) RunID() string { return s.runID }

// Config returns the session's boundary config.
func (s *Session) Config() *boundary.Config { return s.config }

// State returns the mutable game state.
func (s *Session) State() *GameState { return s.state }

// DB returns the simulated database.
func (s *Session) DB() *gamedb.DB { return s.db }

// Events returns the instrumentation journal.
func (s *Session) Events() *instrumentation.Logger { return s.events }

// Registry returns the tool registry.
func (s *Session) Registry() *tools.Registry { return s.registry }

// HandleToolRequest executes one agent-issued tool request. The database is
// synced from game state first, the request runs through the policy
// pipeline, and exactly one audit row is written regardless of outcome. The
// returned error covers malformed orchestration (an unknown caller), never a
// policy denial; denials come back inside the Result.
func (s *Session) HandleToolRequest(caller string, phase boundary.Phase, turn int, tool string, args map[string]any) (tools.Result, error) {
	role, ok := s.state.Role(caller)
	if !ok {
		return tools.Result{}, fmt.Errorf("unknown caller %q", caller)
	}

	s.db.Sync(s.state.roles, s.state.alive)

	ctx := &tools.Context{
		Caller:      caller,
		CallerRole:  role,
		Phase:       phase,
		Turn:        turn,
		Config:      s.config,
		State:       s.state,
		DB:          s.db,
		Log:         s.events,
		SendToInbox: s.state.Deliver,
		Rand:        s.rand,
	}

	result := s.registry.Execute(tool, args, ctx)

	outcome := "denied"
	if result.Success {
		outcome = "success"
	}
	s.db.AddAuditEntry(time.Now(), caller, tool, args, outcome)

	return result, nil
}

// WriteArtifacts flushes the instrumentation journal to dir as the durable
// run artifact.
func (s *Session) WriteArtifacts(dir string) error {
	return s.events.WriteToDirectory(dir)
}
