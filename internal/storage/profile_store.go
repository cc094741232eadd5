package storage

import (
	"database/sql"
	"time"

	"github.com/estateflow/estateflow/internal/core"
)

// ProfileStore handles the read model of externally-owned user profiles
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new profile store
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Upsert inserts or replaces a profile projection
func (s *ProfileStore) Upsert(p *core.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO profiles (user_id, full_name, email, phone, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		    full_name = excluded.full_name,
		    email = excluded.email,
		    phone = excluded.phone,
		    role = excluded.role
	`, p.UserID, p.FullName, p.Email, p.Phone, p.Role, p.CreatedAt)

	return err
}

// GetByUserID returns a profile by user ID
func (s *ProfileStore) GetByUserID(userID string) (*core.Profile, error) {
	p := &core.Profile{}

	err := s.db.conn.QueryRow(`
		SELECT user_id, full_name, email, phone, role, created_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.Role, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, core.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}
