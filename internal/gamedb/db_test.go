package gamedb

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/triage-ai/tripwire/internal/boundary"
)

func testRoster() (map[string]boundary.Role, map[string]bool) {
	roles := map[string]boundary.Role{
		"P1": boundary.RoleMafia,
		"P2": boundary.RoleDoctor,
		"P3": boundary.RoleVillager,
	}
	alive := map[string]bool{"P1": true, "P2": true, "P3": false}
	return roles, alive
}

func TestSync_OrderAndContents(t *testing.T) {
	db := New()
	roles, alive := testRoster()
	db.Sync(roles, alive)

	if len(db.players) != 3 || len(db.roles) != 3 {
		t.Fatalf("players=%d roles=%d, want 3 each", len(db.players), len(db.roles))
	}
	if db.players[0]["id"] != "P1" || db.players[2]["id"] != "P3" {
		t.Fatalf("players not in id order: %v", db.players)
	}
	if db.players[2]["alive"] != false {
		t.Fatal("P3 should be dead")
	}
	if db.roles[0]["role"] != "MAFIA" {
		t.Fatalf("P1 role = %v, want MAFIA", db.roles[0]["role"])
	}
}

func TestSync_Idempotent(t *testing.T) {
	db := New()
	roles, alive := testRoster()
	db.Sync(roles, alive)
	first := append([]Row{}, db.players...)

	db.Sync(roles, alive)
	if len(db.players) != len(first) {
		t.Fatalf("second sync changed row count: %d -> %d", len(first), len(db.players))
	}
	if !reflect.DeepEqual(db.players, first) {
		t.Fatal("second sync with identical input changed table contents")
	}
}

func TestAddEvent_MonotonicIDs(t *testing.T) {
	db := New()
	db.AddEvent(1, boundary.PhaseNightCollect, "kill", "P3 died")
	db.AddEvent(1, boundary.PhaseNarrateDawn, "announce", "dawn")

	if db.events[0]["id"] != 1 || db.events[1]["id"] != 2 {
		t.Fatalf("event ids not monotonic: %v %v", db.events[0]["id"], db.events[1]["id"])
	}
	if db.events[0]["phase"] != "night_collect" {
		t.Fatalf("phase = %v", db.events[0]["phase"])
	}
}

func TestAddAuditEntry_ArgsAreJSON(t *testing.T) {
	db := New()
	db.AddAuditEntry(time.Now(), "P1", "query_game_db", map[string]any{"query": "SELECT * FROM players"}, "success")

	if db.AuditCount() != 1 {
		t.Fatalf("audit count = %d, want 1", db.AuditCount())
	}
	raw, ok := db.audit[0]["args"].(string)
	if !ok {
		t.Fatalf("args column is %T, want string", db.audit[0]["args"])
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("args column is not valid JSON: %v", err)
	}
	if decoded["query"] != "SELECT * FROM players" {
		t.Fatalf("decoded args = %v", decoded)
	}
}

func TestAuditTail(t *testing.T) {
	db := New()
	for i := 0; i < 15; i++ {
		db.AddAuditEntry(time.Now(), "P1", "read_logs", nil, "success")
	}
	tail := db.AuditTail(10)
	if len(tail) != 10 {
		t.Fatalf("tail length = %d, want 10", len(tail))
	}
	if tail[0]["id"] != 6 {
		t.Fatalf("tail starts at id %v, want 6", tail[0]["id"])
	}

	if got := db.AuditTail(100); len(got) != 15 {
		t.Fatalf("oversized tail length = %d, want 15", len(got))
	}
}

func TestAddPrivateMessage(t *testing.T) {
	db := New()
	db.AddPrivateMessage("P1", "P2", "private", "hello")
	db.AddPrivateMessage("P2", "P1", "private", "hi back")

	if len(db.privateMessages) != 2 {
		t.Fatalf("message count = %d", len(db.privateMessages))
	}
	if db.privateMessages[1]["id"] != 2 {
		t.Fatalf("second message id = %v", db.privateMessages[1]["id"])
	}
	if db.privateMessages[0]["recipient"] != "P2" {
		t.Fatalf("recipient = %v", db.privateMessages[0]["recipient"])
	}
}

func TestAccessibleSchema(t *testing.T) {
	cfg := boundary.Strict()
	schema := AccessibleSchema(cfg)
	if _, ok := schema["players"]; !ok {
		t.Fatal("players should be visible under strict")
	}
	if _, ok := schema["roles"]; ok {
		t.Fatal("roles should not be visible under strict")
	}
}
