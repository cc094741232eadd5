package ledger

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/estateflow/estateflow/internal/core"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	_, err = db.Exec(`
		CREATE TABLE ledger (
			id          TEXT PRIMARY KEY,
			timestamp   DATETIME NOT NULL,
			action      TEXT NOT NULL,
			actor       TEXT NOT NULL,
			entity_type TEXT,
			entity_id   TEXT,
			details     TEXT,
			prev_hash   TEXT,
			hash        TEXT NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("create ledger table: %v", err)
	}

	return db
}

func TestStore_Append(t *testing.T) {
	store := NewStore(setupTestDB(t))

	entry, err := store.Append(ActionHandoffCreated, "user-1", "lead", "lead-1", map[string]interface{}{
		"lead_type": "viewing",
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if entry.PrevHash != genesisHash {
		t.Errorf("first entry PrevHash = %s, want genesis", entry.PrevHash)
	}
	if entry.Hash == "" {
		t.Error("entry hash should not be empty")
	}

	entry2, err := store.Append(ActionLeadStatusChanged, "agent-1", "lead", "lead-1", nil)
	if err != nil {
		t.Fatalf("second Append() error = %v", err)
	}
	if entry2.PrevHash != entry.Hash {
		t.Error("second entry should chain to the first")
	}
}

func TestStore_VerifyChain_Valid(t *testing.T) {
	store := NewStore(setupTestDB(t))

	for i := 0; i < 10; i++ {
		if _, err := store.Append(ActionHandoffCreated, ActorSystem, "lead", "lead-1", nil); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if err := store.VerifyChain(); err != nil {
		t.Errorf("VerifyChain() error = %v, want nil", err)
	}
}

func TestStore_VerifyChain_Empty(t *testing.T) {
	store := NewStore(setupTestDB(t))

	if err := store.VerifyChain(); err != nil {
		t.Errorf("VerifyChain() on empty ledger error = %v, want nil", err)
	}
}

func TestStore_VerifyChain_DetectsTampering(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	entry, err := store.Append(ActionHandoffCreated, ActorSystem, "lead", "lead-1", map[string]interface{}{
		"priority": "medium",
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := store.Append(ActionLeadStatusChanged, ActorAdmin, "lead", "lead-1", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Rewrite history behind the store's back
	if _, err := db.Exec("UPDATE ledger SET details = ? WHERE id = ?", `{"priority":"low"}`, entry.ID); err != nil {
		t.Fatalf("tamper update: %v", err)
	}

	err = store.VerifyChain()
	if err == nil {
		t.Fatal("VerifyChain() should detect a modified entry")
	}
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("VerifyChain() error = %T, want *ChainError", err)
	}
	if chainErr.Type != "hash_mismatch" {
		t.Errorf("ChainError.Type = %q, want hash_mismatch", chainErr.Type)
	}
}

func TestStore_VerifyChain_DetectsBrokenLink(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if _, err := store.Append(ActionHandoffCreated, ActorSystem, "lead", "lead-1", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	second, err := store.Append(ActionLeadStatusChanged, ActorAdmin, "lead", "lead-1", nil)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := db.Exec("UPDATE ledger SET prev_hash = ? WHERE id = ?", "bogus", second.ID); err != nil {
		t.Fatalf("tamper update: %v", err)
	}

	err = store.VerifyChain()
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("VerifyChain() error = %v, want *ChainError", err)
	}
	if chainErr.Type != "chain_broken" {
		t.Errorf("ChainError.Type = %q, want chain_broken", chainErr.Type)
	}
}

func TestStore_Query(t *testing.T) {
	store := NewStore(setupTestDB(t))

	if _, err := store.Append(ActionHandoffCreated, "user-1", "lead", "lead-1", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := store.Append(ActionLeadStatusChanged, "agent-1", "lead", "lead-1", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := store.Append(ActionAgentCreated, ActorAdmin, "agent", "agent-1", nil); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	byAction, err := store.Query(QueryOptions{Action: ActionHandoffCreated})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(byAction) != 1 {
		t.Errorf("Query(action) returned %d entries, want 1", len(byAction))
	}

	byEntity, err := store.GetEntityHistory("lead", "lead-1")
	if err != nil {
		t.Fatalf("GetEntityHistory() error = %v", err)
	}
	if len(byEntity) != 2 {
		t.Errorf("GetEntityHistory() returned %d entries, want 2", len(byEntity))
	}

	since, err := store.Query(QueryOptions{Since: time.Now().UTC().Add(time.Minute)})
	if err != nil {
		t.Fatalf("Query(since) error = %v", err)
	}
	if len(since) != 0 {
		t.Errorf("Query(future since) returned %d entries, want 0", len(since))
	}

	limited, err := store.Query(QueryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Query(limit) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Query(limit 2) returned %d entries, want 2", len(limited))
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestRecorder_Actions(t *testing.T) {
	store := NewStore(setupTestDB(t))
	rec := NewRecorder(store)

	conf := 0.42
	lead := &core.Lead{
		ID:         "lead-1",
		Type:       core.LeadTypeViewing,
		Priority:   core.PriorityHigh,
		PropertyID: "prop-1",
	}
	if err := rec.RecordHandoffCreated("user-1", lead, &conf, "agent-1"); err != nil {
		t.Fatalf("RecordHandoffCreated() error = %v", err)
	}
	if err := rec.RecordLeadStatusChanged("agent-user", "lead-1", core.LeadStatusNew, core.LeadStatusContacted); err != nil {
		t.Fatalf("RecordLeadStatusChanged() error = %v", err)
	}
	if err := rec.RecordAgentVerified(ActorAdmin, "agent-1", true); err != nil {
		t.Fatalf("RecordAgentVerified() error = %v", err)
	}
	if err := rec.RecordAgentVerified(ActorAdmin, "agent-1", false); err != nil {
		t.Fatalf("RecordAgentVerified(false) error = %v", err)
	}

	verified, err := store.Query(QueryOptions{Action: ActionAgentVerified})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(verified) != 1 {
		t.Errorf("agent.verified entries = %d, want 1", len(verified))
	}
	unverified, err := store.Query(QueryOptions{Action: ActionAgentUnverified})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(unverified) != 1 {
		t.Errorf("agent.unverified entries = %d, want 1", len(unverified))
	}

	if err := store.VerifyChain(); err != nil {
		t.Errorf("VerifyChain() after recorder writes error = %v", err)
	}
}
