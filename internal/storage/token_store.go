package storage

import (
	"database/sql"
	"time"

	"github.com/estateflow/estateflow/internal/core"
)

// TokenStore resolves opaque bearer tokens to user IDs. Token issuance is
// owned by the external auth service; this table is only a lookup cache
// seeded by operations tooling.
type TokenStore struct {
	db *DB
}

// NewTokenStore creates a new token store
func NewTokenStore(db *DB) *TokenStore {
	return &TokenStore{db: db}
}

// Put registers a token for a user
func (s *TokenStore) Put(token, userID string) error {
	_, err := s.db.conn.Exec(`
		INSERT INTO api_tokens (token, user_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET user_id = excluded.user_id
	`, token, userID, time.Now().UTC())
	return err
}

// Resolve returns the session for a token, or an unauthenticated session
// when the token is unknown.
func (s *TokenStore) Resolve(token string) (core.Session, error) {
	var userID string
	err := s.db.conn.QueryRow(
		"SELECT user_id FROM api_tokens WHERE token = ?", token,
	).Scan(&userID)

	if err == sql.ErrNoRows {
		return core.Session{}, nil
	}
	if err != nil {
		return core.Session{}, err
	}

	sess := core.Session{UserID: userID}

	var role string
	err = s.db.conn.QueryRow(
		"SELECT role FROM profiles WHERE user_id = ?", userID,
	).Scan(&role)
	if err == nil {
		sess.Role = role
	}

	return sess, nil
}
