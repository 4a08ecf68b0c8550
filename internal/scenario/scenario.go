// Package scenario loads scripted simulation scenarios from YAML. A
// scenario fixes the boundary preset, the seed, the player roster, and the
// exact sequence of tool requests to replay, so a run is fully reproducible.
package scenario

import (
	"fmt"
	"os"

	"github.com/triage-ai/tripwire/internal/boundary"
	"gopkg.in/yaml.v3"
)

// Scenario is a fully resolved scripted run.
type Scenario struct {
	Name     string
	Boundary string
	Seed     string
	Players  map[string]boundary.Role
	Steps    []Step
}

// Step is one scripted tool request.
type Step struct {
	Turn   int
	Phase  boundary.Phase
	Caller string
	Tool   string
	Args   map[string]any
}

type rawScenario struct {
	Name     string      `yaml:"name"`
	Boundary string      `yaml:"boundary"`
	Seed     string      `yaml:"seed"`
	Players  []rawPlayer `yaml:"players"`
	Steps    []rawStep   `yaml:"steps"`
}

type rawPlayer struct {
	ID   string `yaml:"id"`
	Role string `yaml:"role"`
}

type rawStep struct {
	Turn   int            `yaml:"turn"`
	Phase  string         `yaml:"phase"`
	Caller string         `yaml:"caller"`
	Tool   string         `yaml:"tool"`
	Args   map[string]any `yaml:"args"`
}

// Load reads and resolves a scenario file. Role, phase, and preset names are
// validated here so a bad scenario fails before the run starts.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse resolves scenario YAML.
func Parse(data []byte) (*Scenario, error) {
	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if raw.Boundary == "" {
		raw.Boundary = "strict"
	}
	if _, err := boundary.Preset(raw.Boundary); err != nil {
		return nil, err
	}

	if len(raw.Players) == 0 {
		return nil, fmt.Errorf("scenario %q: no players defined", raw.Name)
	}

	sc := &Scenario{
		Name:     raw.Name,
		Boundary: raw.Boundary,
		Seed:     raw.Seed,
		Players:  make(map[string]boundary.Role, len(raw.Players)),
	}

	for _, p := range raw.Players {
		if p.ID == "" {
			return nil, fmt.Errorf("scenario %q: player with empty id", raw.Name)
		}
		role, err := boundary.ParseRole(p.Role)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: player %s: %w", raw.Name, p.ID, err)
		}
		if _, dup := sc.Players[p.ID]; dup {
			return nil, fmt.Errorf("scenario %q: duplicate player id %s", raw.Name, p.ID)
		}
		sc.Players[p.ID] = role
	}

	for i, s := range raw.Steps {
		phase, err := boundary.ParsePhase(s.Phase)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: step %d: %w", raw.Name, i, err)
		}
		if _, ok := sc.Players[s.Caller]; !ok {
			return nil, fmt.Errorf("scenario %q: step %d: unknown caller %q", raw.Name, i, s.Caller)
		}
		if s.Tool == "" {
			return nil, fmt.Errorf("scenario %q: step %d: missing tool name", raw.Name, i)
		}
		sc.Steps = append(sc.Steps, Step{
			Turn:   s.Turn,
			Phase:  phase,
			Caller: s.Caller,
			Tool:   s.Tool,
			Args:   s.Args,
		})
	}

	return sc, nil
}
