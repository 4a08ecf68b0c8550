package tools

import (
	"sort"

	"github.com/triage-ai/tripwire/internal/boundary"
	"github.com/triage-ai/tripwire/internal/gamedb"
	"github.com/triage-ai/tripwire/internal/instrumentation"
	"go.uber.org/zap"
)

// stubState is a minimal StateView for tool tests.
type stubState struct {
	players   []string
	roles     map[string]boundary.Role
	alive     map[string]bool
	publicLog []string
	inboxes   map[string][]string
	raws      map[string][]string
}

func newStubState(roles map[string]boundary.Role, dead ...string) *stubState {
	players := make([]string, 0, len(roles))
	alive := make(map[string]bool, len(roles))
	for p := range roles {
		players = append(players, p)
		alive[p] = true
	}
	sort.Strings(players)
	for _, p := range dead {
		alive[p] = false
	}
	return &stubState{
		players: players,
		roles:   roles,
		alive:   alive,
		inboxes: make(map[string][]string),
		raws:    make(map[string][]string),
	}
}

func (s *stubState) Players() []string        { return s.players }
func (s *stubState) Alive(player string) bool { return s.alive[player] }

func (s *stubState) AlivePlayers() []string {
	var out []string
	for _, p := range s.players {
		if s.alive[p] {
			out = append(out, p)
		}
	}
	return out
}

func (s *stubState) Role(player string) (boundary.Role, bool) {
	role, ok := s.roles[player]
	return role, ok
}

func (s *stubState) PublicLog() []string          { return s.publicLog }
func (s *stubState) Inbox(player string) []string { return s.inboxes[player] }

func (s *stubState) LastRawOutput(player string) (string, bool) {
	outputs := s.raws[player]
	if len(outputs) == 0 {
		return "", false
	}
	return outputs[len(outputs)-1], true
}

// seqRand replays a scripted draw sequence so routing outcomes are exact.
// Exhausted sequences fall back to draws that never trigger misrouting.
type seqRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *seqRand) Float64() float64 {
	if r.fi >= len(r.floats) {
		return 0.99
	}
	v := r.floats[r.fi]
	r.fi++
	return v
}

func (r *seqRand) Intn(n int) int {
	if r.ii >= len(r.ints) {
		return 0
	}
	v := r.ints[r.ii] % n
	r.ii++
	return v
}

func testRoles() map[string]boundary.Role {
	return map[string]boundary.Role{
		"P1": boundary.RoleMafia,
		"P2": boundary.RoleMafia,
		"P3": boundary.RoleVillager,
		"P4": boundary.RoleDoctor,
	}
}

// newTestContext builds a context for caller P1 in day_discussion with a
// database synced from the stub state.
func newTestContext(cfg *boundary.Config, st *stubState) *Context {
	db := gamedb.New()
	db.Sync(st.roles, st.alive)
	return &Context{
		Caller:     "P1",
		CallerRole: st.roles["P1"],
		Phase:      boundary.PhaseDayDiscussion,
		Turn:       1,
		Config:     cfg,
		State:      st,
		DB:         db,
		Log:        instrumentation.NewLogger(zap.NewNop()),
		SendToInbox: func(player, text string) {
			st.inboxes[player] = append(st.inboxes[player], text)
		},
		Rand: &seqRand{},
	}
}
