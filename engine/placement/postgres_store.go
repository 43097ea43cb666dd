package placement

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const boardSchema = `
CREATE TABLE IF NOT EXISTS boards (
	name TEXT PRIMARY KEY,
	objects JSONB NOT NULL,
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);`

// PostgresStore keeps boards in a PostgreSQL table, one row per board.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects, pings and creates the schema.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("placement: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("placement: ping database: %w", err)
	}
	if _, err := db.Exec(boardSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("placement: init schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// SaveBoard upserts the board row.
func (s *PostgresStore) SaveBoard(name string, objects []Object) error {
	if objects == nil {
		objects = []Object{}
	}
	data, err := json.Marshal(objects)
	if err != nil {
		return fmt.Errorf("placement: marshal board %q: %w", name, err)
	}

	const query = `
	INSERT INTO boards (name, objects) VALUES ($1, $2)
	ON CONFLICT (name)
	DO UPDATE SET objects = $2, updated_at = NOW()`
	if _, err := s.db.Exec(query, name, string(data)); err != nil {
		return fmt.Errorf("placement: save board %q: %w", name, err)
	}
	return nil
}

// LoadBoard reads the board row.
func (s *PostgresStore) LoadBoard(name string) ([]Object, error) {
	var data string
	err := s.db.QueryRow(`SELECT objects FROM boards WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrBoardNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("placement: load board %q: %w", name, err)
	}

	var objects []Object
	if err := json.Unmarshal([]byte(data), &objects); err != nil {
		return nil, fmt.Errorf("placement: unmarshal board %q: %w", name, err)
	}
	return objects, nil
}

// Close closes the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
