// Package boundary defines the access-control configuration for a simulation
// run. A Config is an immutable snapshot of every enabled or disabled control
// across five axes: identity, authorization, information, communication, and
// temporal. Runs are constructed from one of three named presets.
package boundary

import (
	"fmt"
)

// Role is a player's hidden game role. The set is closed: an unrecognized
// role string is a construction-time error, never an empty-permission lookup.
type Role int

const (
	RoleDoctor Role = iota
	RoleDetective
	RoleMafia
	RoleVillager
)

var roleNames = map[Role]string{
	RoleDoctor:    "DOCTOR",
	RoleDetective: "DETECTIVE",
	RoleMafia:     "MAFIA",
	RoleVillager:  "VILLAGER",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole resolves a role name to its Role value.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q (valid: DOCTOR, DETECTIVE, MAFIA, VILLAGER)", name)
}

// Roles returns every role in declaration order.
func Roles() []Role {
	return []Role{RoleDoctor, RoleDetective, RoleMafia, RoleVillager}
}

// Phase is one step of the game loop. Closed set, same rules as Role.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseNightCollect
	PhaseNightResolve
	PhaseNarrateDawn
	PhaseDayDiscussion
	PhaseVoteCollect
	PhaseVoteResolve
	PhaseNarrateVote
	PhaseCheckWin
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSetup:         "setup",
	PhaseNightCollect:  "night_collect",
	PhaseNightResolve:  "night_resolve",
	PhaseNarrateDawn:   "narrate_dawn",
	PhaseDayDiscussion: "day_discussion",
	PhaseVoteCollect:   "vote_collect",
	PhaseVoteResolve:   "vote_resolve",
	PhaseNarrateVote:   "narrate_vote",
	PhaseCheckWin:      "check_win",
	PhaseGameOver:      "game_over",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ParsePhase resolves a phase name to its Phase value.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// Phases returns every phase in game order.
func Phases() []Phase {
	return []Phase{
		PhaseSetup, PhaseNightCollect, PhaseNightResolve, PhaseNarrateDawn,
		PhaseDayDiscussion, PhaseVoteCollect, PhaseVoteResolve, PhaseNarrateVote,
		PhaseCheckWin, PhaseGameOver,
	}
}

// ToolSet is a set of tool names permitted by one authorization entry.
type ToolSet map[string]bool

// Config holds every boundary control for a run. Built once by a preset
// constructor, validated, and never mutated afterward.
type Config struct {
	Name string

	// Identity axis. Informational for now: recorded with the run so the
	// analysis side can correlate, not enforced by the pipeline itself.
	KnowsCallerIdentity bool
	VerifiesCaller      bool

	// Authorization axis.
	RoleToolAccess map[Role]ToolSet

	// Information axis. RolesTableAccessible and
	// PrivateMessagesAccessible gate the two sensitive tables
	// independently of AccessibleTables; both checks must pass.
	AccessibleTables            map[string]bool
	RolesTableAccessible        bool
	PrivateMessagesAccessible   bool
	LogRedactionEnabled         bool
	SystemLogsContainRoles      bool
	SystemLogsContainRawOutputs bool

	// Communication axis.
	PrivateChannelsEnforced  bool
	MafiaChannelRestricted   bool
	MisrouteProbability      float64
	LeakSenderRoleInMetadata bool
	AllowCrossTeamMessaging  bool

	// Temporal axis. A phase with an empty ToolSet denies every tool;
	// validate rejects configs that omit a phase entirely.
	EnforcePhaseRestrictions bool
	PhaseToolAccess          map[Phase]ToolSet
}

// validate checks the structural invariants every preset must satisfy.
func (c *Config) validate() error {
	for _, r := range Roles() {
		if _, ok := c.RoleToolAccess[r]; !ok {
			return fmt.Errorf("boundary %q: missing role_tool_access entry for role %s", c.Name, r)
		}
	}
	for _, p := range Phases() {
		if _, ok := c.PhaseToolAccess[p]; !ok {
			return fmt.Errorf("boundary %q: missing phase_tool_access entry for phase %s", c.Name, p)
		}
	}
	if c.MisrouteProbability < 0 || c.MisrouteProbability > 1 {
		return fmt.Errorf("boundary %q: misroute probability %v outside [0,1]", c.Name, c.MisrouteProbability)
	}
	return nil
}
