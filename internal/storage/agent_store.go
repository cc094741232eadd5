package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/estateflow/estateflow/internal/core"
)

// AgentStore handles agent persistence
type AgentStore struct {
	db *DB
}

// NewAgentStore creates a new agent store
func NewAgentStore(db *DB) *AgentStore {
	return &AgentStore{db: db}
}

// Create creates a new agent
func (s *AgentStore) Create(agent *core.Agent) error {
	now := time.Now().UTC()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	areas, _ := json.Marshal(agent.AreasServed)
	specs, _ := json.Marshal(agent.Specializations)

	_, err := s.db.conn.Exec(`
		INSERT INTO agents (
		    id, user_id, agency_name, areas_served, specializations,
		    verified, rating, review_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		agent.ID, agent.UserID, agent.AgencyName, string(areas), string(specs),
		agent.Verified, ratingValue(agent.Rating), agent.ReviewCount,
		agent.CreatedAt, agent.UpdatedAt,
	)

	return err
}

// GetByID returns an agent by ID
func (s *AgentStore) GetByID(id core.AgentID) (*core.Agent, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, user_id, agency_name, areas_served, specializations,
		       verified, rating, review_count, created_at, updated_at
		FROM agents WHERE id = ?
	`, id)

	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrAgentNotFound
	}
	return agent, err
}

// GetVerified returns all agents eligible for matching.
// Fetch order is created_at ascending; equal-score ties in the matcher
// resolve to whichever candidate this ordering yields first.
func (s *AgentStore) GetVerified() ([]*core.Agent, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, agency_name, areas_served, specializations,
		       verified, rating, review_count, created_at, updated_at
		FROM agents
		WHERE verified = 1
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

// GetAll returns every agent, verified or not
func (s *AgentStore) GetAll() ([]*core.Agent, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, agency_name, areas_served, specializations,
		       verified, rating, review_count, created_at, updated_at
		FROM agents
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAgents(rows)
}

// Update updates an agent
func (s *AgentStore) Update(agent *core.Agent) error {
	agent.UpdatedAt = time.Now().UTC()

	areas, _ := json.Marshal(agent.AreasServed)
	specs, _ := json.Marshal(agent.Specializations)

	_, err := s.db.conn.Exec(`
		UPDATE agents SET
		    agency_name = ?, areas_served = ?, specializations = ?,
		    verified = ?, rating = ?, review_count = ?, updated_at = ?
		WHERE id = ?
	`,
		agent.AgencyName, string(areas), string(specs),
		agent.Verified, ratingValue(agent.Rating), agent.ReviewCount,
		agent.UpdatedAt, agent.ID,
	)

	return err
}

// SetVerified flips the verified flag
func (s *AgentStore) SetVerified(id core.AgentID, verified bool) error {
	res, err := s.db.conn.Exec(`
		UPDATE agents SET verified = ?, updated_at = ? WHERE id = ?
	`, verified, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrAgentNotFound
	}
	return nil
}

// Count returns total agent count
func (s *AgentStore) Count() (int, error) {
	var count int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM agents").Scan(&count)
	return count, err
}

func ratingValue(r *float64) interface{} {
	if r == nil {
		return nil
	}
	return *r
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgent(row rowScanner) (*core.Agent, error) {
	agent := &core.Agent{}
	var areas, specs string
	var rating sql.NullFloat64

	err := row.Scan(
		&agent.ID, &agent.UserID, &agent.AgencyName, &areas, &specs,
		&agent.Verified, &rating, &agent.ReviewCount,
		&agent.CreatedAt, &agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		v := rating.Float64
		agent.Rating = &v
	}

	json.Unmarshal([]byte(areas), &agent.AreasServed)
	json.Unmarshal([]byte(specs), &agent.Specializations)

	return agent, nil
}

func scanAgents(rows *sql.Rows) ([]*core.Agent, error) {
	var agents []*core.Agent

	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}

	return agents, rows.Err()
}
