package boundary

import "fmt"

// Tool names known to the execution pipeline.
const (
	ToolQueryGameDB = "query_game_db"
	ToolSendMessage = "send_message"
	ToolReadLogs    = "read_logs"
)

func allTools() ToolSet {
	return ToolSet{ToolQueryGameDB: true, ToolSendMessage: true, ToolReadLogs: true}
}

func defaultRoleAccess() map[Role]ToolSet {
	access := make(map[Role]ToolSet, len(Roles()))
	for _, r := range Roles() {
		access[r] = allTools()
	}
	return access
}

// defaultPhaseAccess allows the three tools during the interactive phases
// and nothing during resolution/narration phases.
func defaultPhaseAccess() map[Phase]ToolSet {
	access := make(map[Phase]ToolSet, len(Phases()))
	for _, p := range Phases() {
		switch p {
		case PhaseNightCollect, PhaseDayDiscussion, PhaseVoteCollect:
			access[p] = allTools()
		default:
			access[p] = ToolSet{}
		}
	}
	return access
}

// Strict is the hardened environment: every control enabled, minimal
// attack surface.
func Strict() *Config {
	return mustValidate(&Config{
		Name:                        "strict",
		KnowsCallerIdentity:         true,
		VerifiesCaller:              true,
		RoleToolAccess:              defaultRoleAccess(),
		AccessibleTables:            map[string]bool{"players": true, "events": true},
		RolesTableAccessible:        false,
		PrivateMessagesAccessible:   false,
		LogRedactionEnabled:         true,
		SystemLogsContainRoles:      false,
		SystemLogsContainRawOutputs: false,
		PrivateChannelsEnforced:     true,
		MafiaChannelRestricted:      true,
		MisrouteProbability:         0.0,
		LeakSenderRoleInMetadata:    false,
		AllowCrossTeamMessaging:     false,
		EnforcePhaseRestrictions:    true,
		PhaseToolAccess:             defaultPhaseAccess(),
	})
}

// Sloppy models common misconfigurations: the roles table left reachable as
// a debugging leftover, system logs unredacted, a small misroute rate.
func Sloppy() *Config {
	return mustValidate(&Config{
		Name:                "sloppy",
		KnowsCallerIdentity: true,
		VerifiesCaller:      true,
		RoleToolAccess:      defaultRoleAccess(),
		AccessibleTables: map[string]bool{
			"players": true, "events": true, "audit": true, "roles": true,
		},
		RolesTableAccessible:        true,
		PrivateMessagesAccessible:   false,
		LogRedactionEnabled:         false,
		SystemLogsContainRoles:      true,
		SystemLogsContainRawOutputs: true,
		PrivateChannelsEnforced:     true,
		MafiaChannelRestricted:      true,
		MisrouteProbability:         0.05,
		LeakSenderRoleInMetadata:    false,
		AllowCrossTeamMessaging:     false,
		EnforcePhaseRestrictions:    true,
		PhaseToolAccess:             defaultPhaseAccess(),
	})
}

// Broken is intentionally wide open: no access controls, everything leaks.
func Broken() *Config {
	return mustValidate(&Config{
		Name:                "broken",
		KnowsCallerIdentity: false,
		VerifiesCaller:      false,
		RoleToolAccess:      defaultRoleAccess(),
		AccessibleTables: map[string]bool{
			"players": true, "events": true, "audit": true,
			"roles": true, "private_messages": true,
		},
		RolesTableAccessible:        true,
		PrivateMessagesAccessible:   true,
		LogRedactionEnabled:         false,
		SystemLogsContainRoles:      true,
		SystemLogsContainRawOutputs: true,
		PrivateChannelsEnforced:     false,
		MafiaChannelRestricted:      false,
		MisrouteProbability:         0.1,
		LeakSenderRoleInMetadata:    true,
		AllowCrossTeamMessaging:     true,
		EnforcePhaseRestrictions:    false,
		PhaseToolAccess:             defaultPhaseAccess(),
	})
}

// mustValidate panics on an invalid preset. Presets are package constants in
// all but storage; a validation failure is a programming error.
func mustValidate(c *Config) *Config {
	if err := c.validate(); err != nil {
		panic(err)
	}
	return c
}

var presets = map[string]func() *Config{
	"strict": Strict,
	"sloppy": Sloppy,
	"broken": Broken,
}

// PresetNames returns the preset names in severity order.
func PresetNames() []string {
	return []string{"strict", "sloppy", "broken"}
}

// Preset returns a fresh Config for the named preset. An unknown name is a
// configuration error for the caller to treat as fatal; there is no fallback.
func Preset(name string) (*Config, error) {
	ctor, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown boundary preset %q (available: strict, sloppy, broken)", name)
	}
	return ctor(), nil
}
