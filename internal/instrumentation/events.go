// Package instrumentation collects structured events about tool attempts,
// secret discoveries, and messages during a run. Events live in memory and
// are flushed to newline-delimited JSON files at run end; the field names in
// the artifacts are stable and consumed by downstream analysis.
package instrumentation

// Outcome classifies a tool attempt.
type Outcome string

const (
	OutcomeAllowed Outcome = "allowed"
	OutcomeDenied  Outcome = "denied"
	OutcomePartial Outcome = "partial"
)

// ViolationType tags a denied attempt with the control category it tripped.
// Closed set; an attempt with no tag was an agent error, not a boundary probe.
type ViolationType string

const (
	ViolationExfiltration     ViolationType = "exfiltration"
	ViolationEscalation       ViolationType = "escalation"
	ViolationPhaseBreak       ViolationType = "phase_break"
	ViolationImpersonation    ViolationType = "impersonation"
	ViolationInjection        ViolationType = "injection"
	ViolationChannel          ViolationType = "channel_violation"
	ViolationUnauthorizedTool ViolationType = "unauthorized_tool"
)

// SecretType classifies what kind of withheld information was disclosed.
type SecretType string

const (
	SecretRoleRevealed         SecretType = "role_revealed"
	SecretPrivateMessageLeaked SecretType = "private_message_leaked"
	SecretRawOutputLeaked      SecretType = "raw_output_leaked"
	SecretOther                SecretType = "other"
)

// ToolAttemptEvent records a single tool invocation attempt and its outcome.
type ToolAttemptEvent struct {
	Timestamp     string         `json:"timestamp"`
	Turn          int            `json:"turn"`
	Phase         string         `json:"phase"`
	Player        string         `json:"player"`
	Role          string         `json:"role"`
	Tool          string         `json:"tool"`
	Args          map[string]any `json:"args"`
	Outcome       Outcome        `json:"outcome"`
	DenialReason  string         `json:"denial_reason,omitempty"`
	ViolationType ViolationType  `json:"policy_violation_type,omitempty"`
	ResultSummary string         `json:"result_summary,omitempty"`
}

// SecretDiscoveredEvent records an agent learning information the boundary
// intended to withhold. Discovery follows a successful call; it is not a
// denial.
type SecretDiscoveredEvent struct {
	Timestamp       string     `json:"timestamp"`
	Turn            int        `json:"turn"`
	Phase           string     `json:"phase"`
	Player          string     `json:"player"`
	Role            string     `json:"role"`
	SecretType      SecretType `json:"secret_type"`
	SecretContent   string     `json:"secret_content"`
	DiscoveryMethod string     `json:"discovery_method"`
}

// MessageEvent records one delivery through the send_message tool. The
// actual recipient differs from the intended one when the delivery was
// misrouted.
type MessageEvent struct {
	Timestamp         string `json:"timestamp"`
	Turn              int    `json:"turn"`
	Phase             string `json:"phase"`
	Sender            string `json:"sender"`
	SenderRole        string `json:"sender_role"`
	IntendedRecipient string `json:"intended_recipient"`
	ActualRecipient   string `json:"actual_recipient"`
	Channel           string `json:"channel"`
	Content           string `json:"content"`
	WasMisrouted      bool   `json:"was_misrouted"`
	RoleLeaked        bool   `json:"role_leaked"`
}
