// Package ledger provides an append-only audit trail for lead-generation
// activity. Entries are hash-chained to the previous entry so tampering with
// the history is detectable.
package ledger

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store manages the append-only audit ledger
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore creates a new ledger store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Entry represents an immutable audit log entry
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`      // "handoff.created", "lead.status_changed", etc.
	Actor      string    `json:"actor"`       // user ID, "system", or "admin"
	EntityType string    `json:"entity_type"` // "lead", "agent", "property"
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details"`   // JSON blob
	PrevHash   string    `json:"prev_hash"` // Hash of previous entry (chain)
	Hash       string    `json:"hash"`      // Hash of this entry
}

// Action constants for audited operations
const (
	ActionHandoffCreated    = "handoff.created"
	ActionLeadStatusChanged = "lead.status_changed"
	ActionLeadAssigned      = "lead.assigned"
	ActionAgentCreated      = "agent.created"
	ActionAgentVerified     = "agent.verified"
	ActionAgentUnverified   = "agent.unverified"
)

// Actor constants
const (
	ActorSystem = "system"
	ActorAdmin  = "admin"
)

const genesisHash = "GENESIS:0000000000000000000000000000000000000000000000000000000000000000"

// Append adds a new entry to the ledger with hash chaining. This is the only
// way to add entries; nothing in the system mutates or deletes them.
func (s *Store) Append(action, actor, entityType, entityID string, details interface{}) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return nil, fmt.Errorf("marshal details: %w", err)
		}
		detailsJSON = string(data)
	}

	prevHash, err := s.getLastHash()
	if err != nil {
		return nil, fmt.Errorf("get last hash: %w", err)
	}

	entry := &Entry{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		Action:     action,
		Actor:      actor,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    detailsJSON,
		PrevHash:   prevHash,
	}
	entry.Hash = computeHash(entry)

	_, err = s.db.Exec(`
		INSERT INTO ledger (id, timestamp, action, actor, entity_type, entity_id, details, prev_hash, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.Action, entry.Actor, entry.EntityType, entry.EntityID,
		entry.Details, entry.PrevHash, entry.Hash)

	if err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", err)
	}

	return entry, nil
}

// getLastHash returns the hash of the most recent entry
func (s *Store) getLastHash() (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow(`
		SELECT hash FROM ledger ORDER BY timestamp DESC, id DESC LIMIT 1
	`).Scan(&hash)

	if err == sql.ErrNoRows {
		return genesisHash, nil
	}
	if err != nil {
		return "", err
	}

	return hash.String, nil
}

// computeHash creates the SHA-256 hash of an entry's canonical representation
func computeHash(entry *Entry) string {
	canonical := struct {
		ID         string    `json:"id"`
		Timestamp  time.Time `json:"timestamp"`
		Action     string    `json:"action"`
		Actor      string    `json:"actor"`
		EntityType string    `json:"entity_type"`
		EntityID   string    `json:"entity_id"`
		Details    string    `json:"details"`
		PrevHash   string    `json:"prev_hash"`
	}{
		ID:         entry.ID,
		Timestamp:  entry.Timestamp,
		Action:     entry.Action,
		Actor:      entry.Actor,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    entry.Details,
		PrevHash:   entry.PrevHash,
	}

	data, _ := json.Marshal(canonical)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// VerifyChain verifies the integrity of the entire ledger chain.
// Returns nil if valid, or an error describing the first broken link.
func (s *Store) VerifyChain() error {
	rows, err := s.db.Query(`
		SELECT id, timestamp, action, actor, entity_type, entity_id, details, prev_hash, hash
		FROM ledger ORDER BY timestamp ASC, id ASC
	`)
	if err != nil {
		return fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	expectedPrevHash := genesisHash
	entryNum := 0

	for rows.Next() {
		entryNum++
		entry, err := scanEntry(rows)
		if err != nil {
			return fmt.Errorf("scan entry %d: %w", entryNum, err)
		}

		if entry.PrevHash != expectedPrevHash {
			return &ChainError{
				EntryNum:     entryNum,
				EntryID:      entry.ID,
				ExpectedHash: expectedPrevHash,
				ActualHash:   entry.PrevHash,
				Type:         "chain_broken",
			}
		}

		if expectedHash := computeHash(entry); entry.Hash != expectedHash {
			return &ChainError{
				EntryNum:     entryNum,
				EntryID:      entry.ID,
				ExpectedHash: expectedHash,
				ActualHash:   entry.Hash,
				Type:         "hash_mismatch",
			}
		}

		expectedPrevHash = entry.Hash
	}

	return rows.Err()
}

// ChainError represents a broken chain error
type ChainError struct {
	EntryNum     int
	EntryID      string
	ExpectedHash string
	ActualHash   string
	Type         string // "chain_broken" or "hash_mismatch"
}

func (e *ChainError) Error() string {
	if e.Type == "chain_broken" {
		return fmt.Sprintf("chain broken at entry %d (ID: %s): expected prev_hash %s, got %s",
			e.EntryNum, e.EntryID, shortHash(e.ExpectedHash), shortHash(e.ActualHash))
	}
	return fmt.Sprintf("hash mismatch at entry %d (ID: %s): expected %s, got %s",
		e.EntryNum, e.EntryID, shortHash(e.ExpectedHash), shortHash(e.ActualHash))
}

func shortHash(h string) string {
	if len(h) <= 16 {
		return h
	}
	return h[:16] + "..."
}

// QueryOptions filter ledger reads
type QueryOptions struct {
	Action     string    // Filter by action type
	Actor      string    // Filter by actor
	EntityType string    // Filter by entity type
	EntityID   string    // Filter by entity ID
	Since      time.Time // Entries after this time
	Limit      int       // Maximum entries to return
}

// Query returns entries matching the given criteria (read-only)
func (s *Store) Query(opts QueryOptions) ([]*Entry, error) {
	query := `
		SELECT id, timestamp, action, actor, entity_type, entity_id, details, prev_hash, hash
		FROM ledger WHERE 1=1
	`
	var args []interface{}

	if opts.Action != "" {
		query += " AND action = ?"
		args = append(args, opts.Action)
	}
	if opts.Actor != "" {
		query += " AND actor = ?"
		args = append(args, opts.Actor)
	}
	if opts.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, opts.EntityType)
	}
	if opts.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, opts.EntityID)
	}
	if !opts.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	var entry Entry
	var entityType, entityID, details, prevHash sql.NullString

	err := rows.Scan(
		&entry.ID, &entry.Timestamp, &entry.Action, &entry.Actor,
		&entityType, &entityID, &details, &prevHash, &entry.Hash,
	)
	if err != nil {
		return nil, err
	}

	entry.EntityType = entityType.String
	entry.EntityID = entityID.String
	entry.Details = details.String
	entry.PrevHash = prevHash.String

	return &entry, nil
}

// GetRecent returns the most recent entries
func (s *Store) GetRecent(limit int) ([]*Entry, error) {
	return s.Query(QueryOptions{Limit: limit})
}

// GetEntityHistory returns all entries for a specific entity
func (s *Store) GetEntityHistory(entityType, entityID string) ([]*Entry, error) {
	return s.Query(QueryOptions{
		EntityType: entityType,
		EntityID:   entityID,
	})
}

// Count returns the total number of entries in the ledger
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM ledger").Scan(&count)
	return count, err
}
