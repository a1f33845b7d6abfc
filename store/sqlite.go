package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads training positions from a SQLite database, for
// curricula too large to ship in code.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	fen      TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	title    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_positions_category ON positions(category);
`

// OpenSQLiteStore opens (creating if needed) the position database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open position db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate position db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add inserts a position and returns its assigned ID.
func (s *SQLiteStore) Add(p Position) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO positions (fen, category, title) VALUES (?, ?, ?)`,
		p.FEN, p.Category, p.Title,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert position: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) RandomPosition(category string) (Position, error) {
	query := `SELECT id, fen, category, title FROM positions`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY random() LIMIT 1`

	var p Position
	err := s.db.QueryRow(query, args...).Scan(&p.ID, &p.FEN, &p.Category, &p.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, ErrNoPositions
	}
	if err != nil {
		return Position{}, fmt.Errorf("failed to pick random position: %w", err)
	}
	return p, nil
}

func (s *SQLiteStore) PositionByID(id int64) (Position, error) {
	var p Position
	err := s.db.QueryRow(
		`SELECT id, fen, category, title FROM positions WHERE id = ?`, id,
	).Scan(&p.ID, &p.FEN, &p.Category, &p.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, ErrNotFound
	}
	if err != nil {
		return Position{}, fmt.Errorf("failed to load position %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) Categories() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category FROM positions ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
