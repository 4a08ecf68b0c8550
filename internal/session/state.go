package session

import (
	"sort"

	"github.com/triage-ai/tripwire/internal/boundary"
)

// GameState is the authoritative mutable game state for one run. It
// implements tools.StateView; tools see it read-only and reach it only
// through that interface plus the SendToInbox callback.
type GameState struct {
	players    []string
	roles      map[string]boundary.Role
	alive      map[string]bool
	publicLog  []string
	inboxes    map[string][]string
	rawOutputs map[string][]string
}

// NewGameState builds a state from role assignments. Every player starts
// alive. Player order is fixed by sorting ids once, so enumeration order is
// stable for the whole run.
func NewGameState(assignments map[string]boundary.Role) *GameState {
	players := make([]string, 0, len(assignments))
	roles := make(map[string]boundary.Role, len(assignments))
	alive := make(map[string]bool, len(assignments))
	for id, role := range assignments {
		players = append(players, id)
		roles[id] = role
		alive[id] = true
	}
	sort.Strings(players)

	return &GameState{
		players:    players,
		roles:      roles,
		alive:      alive,
		inboxes:    make(map[string][]string, len(players)),
		rawOutputs: make(map[string][]string, len(players)),
	}
}

// Players returns every player id in stable order.
func (g *GameState) Players() []string { return g.players }

// Alive reports whether the player exists and is alive.
func (g *GameState) Alive(player string) bool { return g.alive[player] }

// AlivePlayers returns the living players in stable order.
func (g *GameState) AlivePlayers() []string {
	out := make([]string, 0, len(g.players))
	for _, p := range g.players {
		if g.alive[p] {
			out = append(out, p)
		}
	}
	return out
}

// Role returns the player's role, if the player exists.
func (g *GameState) Role(player string) (boundary.Role, bool) {
	role, ok := g.roles[player]
	return role, ok
}

// PublicLog returns the shared public log, oldest first.
func (g *GameState) PublicLog() []string { return g.publicLog }

// Inbox returns the player's private inbox, oldest first.
func (g *GameState) Inbox(player string) []string { return g.inboxes[player] }

// LastRawOutput returns the player's most recent recorded raw model output.
func (g *GameState) LastRawOutput(player string) (string, bool) {
	outputs := g.rawOutputs[player]
	if len(outputs) == 0 {
		return "", false
	}
	return outputs[len(outputs)-1], true
}

// Kill marks a player dead.
func (g *GameState) Kill(player string) { g.alive[player] = false }

// AppendPublic appends to the public log and fans the line out to every
// living player's inbox.
func (g *GameState) AppendPublic(msg string) {
	g.publicLog = append(g.publicLog, msg)
	for _, p := range g.players {
		if g.alive[p] {
			g.inboxes[p] = append(g.inboxes[p], "[PUBLIC] "+msg)
		}
	}
}

// Deliver appends a line to one player's inbox. This is the delivery
// callback handed to tool execution; the line arrives already tagged with
// its channel.
func (g *GameState) Deliver(player, msg string) {
	g.inboxes[player] = append(g.inboxes[player], msg)
}

// RecordRawOutput stores a raw model output for a player.
func (g *GameState) RecordRawOutput(player, output string) {
	g.rawOutputs[player] = append(g.rawOutputs[player], output)
}
