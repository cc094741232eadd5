package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/estateflow/estateflow/internal/core"
)

// LeadStore handles lead persistence
type LeadStore struct {
	db *DB
}

// NewLeadStore creates a new lead store
func NewLeadStore(db *DB) *LeadStore {
	return &LeadStore{db: db}
}

// Create creates a new lead
func (s *LeadStore) Create(lead *core.Lead) error {
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	shortlist, _ := json.Marshal(lead.ShortlistedPropertyIDs)

	_, err := s.db.conn.Exec(`
		INSERT INTO leads (
		    id, user_id, lead_type, status, priority,
		    property_id, assigned_agent_id, shortlisted_property_ids,
		    notes, summary, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		lead.ID, lead.UserID, lead.Type, lead.Status, lead.Priority,
		nullString(string(lead.PropertyID)), nullString(string(lead.AssignedAgentID)),
		string(shortlist), lead.Notes, lead.Summary,
		lead.CreatedAt, lead.UpdatedAt,
	)

	return err
}

// GetByID returns a lead by ID
func (s *LeadStore) GetByID(id core.LeadID) (*core.Lead, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, user_id, lead_type, status, priority,
		       property_id, assigned_agent_id, shortlisted_property_ids,
		       notes, summary, created_at, updated_at
		FROM leads WHERE id = ?
	`, id)

	lead, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrLeadNotFound
	}
	return lead, err
}

// UpdateStatus moves a lead to a new lifecycle state
func (s *LeadStore) UpdateStatus(id core.LeadID, status core.LeadStatus) error {
	res, err := s.db.conn.Exec(`
		UPDATE leads SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrLeadNotFound
	}
	return nil
}

// AssignAgent sets the assigned agent on a lead
func (s *LeadStore) AssignAgent(id core.LeadID, agentID core.AgentID) error {
	res, err := s.db.conn.Exec(`
		UPDATE leads SET assigned_agent_id = ?, updated_at = ? WHERE id = ?
	`, string(agentID), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrLeadNotFound
	}
	return nil
}

// GetRecent returns the most recently created leads
func (s *LeadStore) GetRecent(limit int) ([]*core.Lead, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, lead_type, status, priority,
		       property_id, assigned_agent_id, shortlisted_property_ids,
		       notes, summary, created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

// GetByStatus returns leads in a given lifecycle state
func (s *LeadStore) GetByStatus(status core.LeadStatus, limit int) ([]*core.Lead, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, lead_type, status, priority,
		       property_id, assigned_agent_id, shortlisted_property_ids,
		       notes, summary, created_at, updated_at
		FROM leads
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

// GetByAgent returns leads assigned to an agent
func (s *LeadStore) GetByAgent(agentID core.AgentID, limit int) ([]*core.Lead, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, lead_type, status, priority,
		       property_id, assigned_agent_id, shortlisted_property_ids,
		       notes, summary, created_at, updated_at
		FROM leads
		WHERE assigned_agent_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, string(agentID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLeads(rows)
}

// Count returns total lead count
func (s *LeadStore) Count() (int, error) {
	var count int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM leads").Scan(&count)
	return count, err
}

func scanLead(row rowScanner) (*core.Lead, error) {
	lead := &core.Lead{}
	var propertyID, agentID sql.NullString
	var shortlist string

	err := row.Scan(
		&lead.ID, &lead.UserID, &lead.Type, &lead.Status, &lead.Priority,
		&propertyID, &agentID, &shortlist,
		&lead.Notes, &lead.Summary, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.PropertyID = core.PropertyID(propertyID.String)
	lead.AssignedAgentID = core.AgentID(agentID.String)
	json.Unmarshal([]byte(shortlist), &lead.ShortlistedPropertyIDs)

	return lead, nil
}

func scanLeads(rows *sql.Rows) ([]*core.Lead, error) {
	var leads []*core.Lead

	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
