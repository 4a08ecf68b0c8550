// Package tools implements the three agent-facing tools and the shared
// policy pipeline every invocation passes through. The pipeline applies the
// layered boundary checks (existence, role authorization, phase restriction,
// argument shape) before a tool's own logic runs; the tools perform their
// finer-grained checks and log their own outcome events.
package tools

import (
	"github.com/triage-ai/tripwire/internal/boundary"
	"github.com/triage-ai/tripwire/internal/gamedb"
	"github.com/triage-ai/tripwire/internal/instrumentation"
)

// StateView is the read-only snapshot of game state a tool may consult.
// Tools never mutate orchestration state directly; SendToInbox on the
// Context is the only mutation path back into it.
type StateView interface {
	// Players returns every player id in a stable order.
	Players() []string
	Alive(player string) bool
	// AlivePlayers returns the living players in the same stable order.
	AlivePlayers() []string
	Role(player string) (boundary.Role, bool)
	PublicLog() []string
	Inbox(player string) []string
	// LastRawOutput returns the most recent raw model output recorded
	// for the player, if any.
	LastRawOutput(player string) (string, bool)
}

// Rand is the injected random source for misrouting and random-recipient
// fallbacks. Seeded deterministically so routing outcomes are reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Context is the capability bundle for exactly one tool invocation. It binds
// the caller's identity, role, and phase to the run's collaborators and is
// not retained after the call returns.
type Context struct {
	Caller     string
	CallerRole boundary.Role
	Phase      boundary.Phase
	Turn       int

	Config *boundary.Config
	State  StateView
	DB     *gamedb.DB
	Log    *instrumentation.Logger

	// SendToInbox delivers a line into a player's private inbox,
	// synchronously, via the orchestrator.
	SendToInbox func(player, text string)

	Rand Rand
}

// Result is the outcome of one tool invocation. Denials carry a
// human-readable Error; they are structured results, never process failures.
type Result struct {
	Success bool
	Data    any
	Error   string
	// LeakedInfo summarizes any secret a successful call disclosed,
	// for instrumentation.
	LeakedInfo string
	RequestID  string
}
