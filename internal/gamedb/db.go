// Package gamedb is the in-memory simulated game database. It mirrors the
// authoritative game state into five fixed tables and exposes a minimal
// SELECT-only query interface whose access checks come from the boundary
// configuration, not from the store itself.
//
// Tables:
//
//	players(id, display_name, alive)
//	events(id, turn, phase, event_type, content)
//	audit(id, timestamp, player, tool, args, outcome)
//	roles(player, role)                                    SENSITIVE
//	private_messages(id, sender, recipient, channel, content)  SENSITIVE
package gamedb

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/triage-ai/tripwire/internal/boundary"
)

// Row is a single table row, column name to value.
type Row map[string]any

// DB owns the five tables. Single-writer: the run in progress is the only
// mutator, so there is no locking.
type DB struct {
	players         []Row
	events          []Row
	audit           []Row
	roles           []Row
	privateMessages []Row

	eventSeq   int
	auditSeq   int
	messageSeq int
}

// New returns an empty database.
func New() *DB {
	return &DB{}
}

// Sync rebuilds the players and roles tables wholesale from the
// authoritative game state. Rows are ordered by player id so repeated syncs
// with identical input produce identical tables.
func (db *DB) Sync(roles map[string]boundary.Role, alive map[string]bool) {
	ids := make([]string, 0, len(roles))
	for id := range roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	db.players = make([]Row, 0, len(ids))
	db.roles = make([]Row, 0, len(ids))
	for _, id := range ids {
		db.players = append(db.players, Row{
			"id":           id,
			"display_name": id,
			"alive":        alive[id],
		})
		db.roles = append(db.roles, Row{
			"player": id,
			"role":   roles[id].String(),
		})
	}
}

// AddEvent appends one row to the events table.
func (db *DB) AddEvent(turn int, phase boundary.Phase, eventType, content string) {
	db.eventSeq++
	db.events = append(db.events, Row{
		"id":         db.eventSeq,
		"turn":       turn,
		"phase":      phase.String(),
		"event_type": eventType,
		"content":    content,
	})
}

// AddAuditEntry appends one row to the audit table. One row is written per
// tool invocation, success or denial; that discipline belongs to the caller
// wrapping the pipeline, not to individual tools.
func (db *DB) AddAuditEntry(ts time.Time, player, tool string, args map[string]any, outcome string) {
	db.auditSeq++
	db.audit = append(db.audit, Row{
		"id":        db.auditSeq,
		"timestamp": ts.Format(time.RFC3339),
		"player":    player,
		"tool":      tool,
		"args":      encodeArgs(args),
		"outcome":   outcome,
	})
}

// AddPrivateMessage appends one row to the private_messages table, keyed by
// the actual (possibly misrouted) recipient.
func (db *DB) AddPrivateMessage(sender, recipient, channel, content string) {
	db.messageSeq++
	db.privateMessages = append(db.privateMessages, Row{
		"id":        db.messageSeq,
		"sender":    sender,
		"recipient": recipient,
		"channel":   channel,
		"content":   content,
	})
}

// AuditTail returns the last n audit rows, oldest first.
func (db *DB) AuditTail(n int) []Row {
	if n >= len(db.audit) {
		return db.audit
	}
	return db.audit[len(db.audit)-n:]
}

// AuditCount returns the number of audit rows written so far.
func (db *DB) AuditCount() int {
	return len(db.audit)
}

func (db *DB) table(name string) ([]Row, bool) {
	switch name {
	case "players":
		return db.players, true
	case "events":
		return db.events, true
	case "audit":
		return db.audit, true
	case "roles":
		return db.roles, true
	case "private_messages":
		return db.privateMessages, true
	}
	return nil, false
}

// Schema returns every table's column names.
func Schema() map[string][]string {
	return map[string][]string{
		"players":          {"id", "display_name", "alive"},
		"events":           {"id", "turn", "phase", "event_type", "content"},
		"audit":            {"id", "timestamp", "player", "tool", "args", "outcome"},
		"roles":            {"player", "role"},
		"private_messages": {"id", "sender", "recipient", "channel", "content"},
	}
}

// AccessibleSchema returns the schema restricted to tables the config's
// general allow-list reaches.
func AccessibleSchema(cfg *boundary.Config) map[string][]string {
	out := make(map[string][]string)
	for table, cols := range Schema() {
		if cfg.AccessibleTables[table] {
			out[table] = cols
		}
	}
	return out
}

func encodeArgs(args map[string]any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}
