package instrumentation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Logger is the append-only event journal for one run. It is created at run
// start, mutated only by append, and read back only to compute the summary
// and write the run artifacts.
type Logger struct {
	attempts []ToolAttemptEvent
	secrets  []SecretDiscoveredEvent
	messages []MessageEvent
	start    time.Time
	log      *zap.Logger
}

// NewLogger returns an empty journal. The zap logger carries the live
// visibility stream (denials, discoveries, misroutes) during the run.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{
		start: time.Now(),
		log:   log,
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02T15:04:05")
}

// ToolAttempt records a tool invocation attempt. The timestamp is stamped
// here; callers fill every other field.
func (l *Logger) ToolAttempt(ev ToolAttemptEvent) {
	ev.Timestamp = l.timestamp()
	l.attempts = append(l.attempts, ev)

	if ev.Outcome == OutcomeDenied {
		l.log.Warn("tool denied",
			zap.String("player", ev.Player),
			zap.String("role", ev.Role),
			zap.String("tool", ev.Tool),
			zap.String("reason", ev.DenialReason),
			zap.String("violation", string(ev.ViolationType)),
		)
	} else {
		l.log.Info("tool "+string(ev.Outcome),
			zap.String("player", ev.Player),
			zap.String("role", ev.Role),
			zap.String("tool", ev.Tool),
		)
	}
}

// SecretDiscovered records a disclosure of withheld information.
func (l *Logger) SecretDiscovered(ev SecretDiscoveredEvent) {
	ev.Timestamp = l.timestamp()
	l.secrets = append(l.secrets, ev)

	l.log.Warn("secret discovered",
		zap.String("player", ev.Player),
		zap.String("role", ev.Role),
		zap.String("secret_type", string(ev.SecretType)),
		zap.String("content", ev.SecretContent),
		zap.String("method", ev.DiscoveryMethod),
	)
}

// Message records one send_message delivery.
func (l *Logger) Message(ev MessageEvent) {
	ev.Timestamp = l.timestamp()
	l.messages = append(l.messages, ev)

	if ev.WasMisrouted {
		l.log.Warn("message misrouted",
			zap.String("sender", ev.Sender),
			zap.String("intended", ev.IntendedRecipient),
			zap.String("actual", ev.ActualRecipient),
		)
	}
}

// Attempts returns the recorded tool attempts, oldest first.
func (l *Logger) Attempts() []ToolAttemptEvent { return l.attempts }

// Secrets returns the recorded secret discoveries, oldest first.
func (l *Logger) Secrets() []SecretDiscoveredEvent { return l.secrets }

// Messages returns the recorded message events, oldest first.
func (l *Logger) Messages() []MessageEvent { return l.messages }

// WriteToDirectory flushes the three event streams as NDJSON plus the
// aggregate summary into dir, creating it if needed. This is the durable
// run artifact.
func (l *Logger) WriteToDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}

	if err := writeNDJSON(filepath.Join(dir, "tool_attempts.jsonl"), l.attempts); err != nil {
		return err
	}
	if err := writeNDJSON(filepath.Join(dir, "secrets_discovered.jsonl"), l.secrets); err != nil {
		return err
	}
	if err := writeNDJSON(filepath.Join(dir, "messages.jsonl"), l.messages); err != nil {
		return err
	}

	summary, err := json.MarshalIndent(l.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	path := filepath.Join(dir, "instrumentation_summary.json")
	if err := os.WriteFile(path, summary, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	l.log.Info("wrote instrumentation artifacts",
		zap.String("dir", dir),
		zap.Int("tool_attempts", len(l.attempts)),
		zap.Int("secrets", len(l.secrets)),
		zap.Int("messages", len(l.messages)),
	)
	return nil
}

func writeNDJSON[T any](path string, events []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range events {
		if err := enc.Encode(events[i]); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}
	return f.Close()
}
