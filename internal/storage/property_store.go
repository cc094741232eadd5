package storage

import (
	"database/sql"
	"time"

	"github.com/estateflow/estateflow/internal/core"
)

// PropertyStore handles property point lookups
type PropertyStore struct {
	db *DB
}

// NewPropertyStore creates a new property store
func NewPropertyStore(db *DB) *PropertyStore {
	return &PropertyStore{db: db}
}

// Create creates a new property
func (s *PropertyStore) Create(p *core.Property) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO properties (id, title, location, city, area, property_type, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Location, p.City, p.Area, p.PropertyType, p.Price, p.CreatedAt)

	return err
}

// GetByID returns a property by ID
func (s *PropertyStore) GetByID(id core.PropertyID) (*core.Property, error) {
	p := &core.Property{}

	err := s.db.conn.QueryRow(`
		SELECT id, title, location, city, area, property_type, price, created_at
		FROM properties WHERE id = ?
	`, id).Scan(&p.ID, &p.Title, &p.Location, &p.City, &p.Area, &p.PropertyType, &p.Price, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, core.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}
