package instrumentation

// Summary holds the aggregate counters for one run, computed from the
// journal at read time. Field names match the summary artifact consumed by
// the aggregation tooling.
type Summary struct {
	TotalToolAttempts  int            `json:"total_tool_attempts"`
	Outcomes           OutcomeCounts  `json:"outcomes"`
	DenialRate         float64        `json:"denial_rate"`
	ViolationsByType   map[string]int `json:"violations_by_type"`
	AttemptsByPlayer   map[string]int `json:"attempts_by_player"`
	ViolationsByPlayer map[string]int `json:"violations_by_player"`
	AttemptsByRole     map[string]int `json:"attempts_by_role"`
	ViolationsByRole   map[string]int `json:"violations_by_role"`
	ToolUsage          map[string]int `json:"tool_usage"`
	SecretsDiscovered  int            `json:"secrets_discovered"`
	MessagesSent       int            `json:"messages_sent"`
	MessagesMisrouted  int            `json:"messages_misrouted"`
}

// OutcomeCounts breaks attempts down by outcome.
type OutcomeCounts struct {
	Allowed int `json:"allowed"`
	Denied  int `json:"denied"`
	Partial int `json:"partial"`
}

// Summary computes the run statistics from the journal.
func (l *Logger) Summary() Summary {
	s := Summary{
		TotalToolAttempts:  len(l.attempts),
		ViolationsByType:   map[string]int{},
		AttemptsByPlayer:   map[string]int{},
		ViolationsByPlayer: map[string]int{},
		AttemptsByRole:     map[string]int{},
		ViolationsByRole:   map[string]int{},
		ToolUsage:          map[string]int{},
		SecretsDiscovered:  len(l.secrets),
		MessagesSent:       len(l.messages),
	}

	for _, ev := range l.attempts {
		switch ev.Outcome {
		case OutcomeAllowed:
			s.Outcomes.Allowed++
		case OutcomeDenied:
			s.Outcomes.Denied++
		case OutcomePartial:
			s.Outcomes.Partial++
		}

		s.AttemptsByPlayer[ev.Player]++
		s.AttemptsByRole[ev.Role]++
		s.ToolUsage[ev.Tool]++

		if ev.ViolationType != "" {
			s.ViolationsByType[string(ev.ViolationType)]++
			s.ViolationsByPlayer[ev.Player]++
			s.ViolationsByRole[ev.Role]++
		}
	}

	if s.TotalToolAttempts > 0 {
		s.DenialRate = float64(s.Outcomes.Denied) / float64(s.TotalToolAttempts)
	}

	for _, m := range l.messages {
		if m.WasMisrouted {
			s.MessagesMisrouted++
		}
	}

	return s
}
