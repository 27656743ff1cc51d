package checkpoint

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite keeps every run as one row of the runs table.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "mcsim.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		meta BLOB NOT NULL,
		state BLOB NOT NULL,
		energy BLOB NOT NULL,
		updated INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Save(run Run) error {
	if run.Meta.ID == "" {
		return fmt.Errorf("save run: empty id")
	}
	meta, err := json.Marshal(run.Meta)
	if err != nil {
		return err
	}
	energy, err := json.Marshal(run.Energy)
	if err != nil {
		return fmt.Errorf("encode energy: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO runs (id, meta, state, energy, updated) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET meta = excluded.meta, state = excluded.state,
		energy = excluded.energy, updated = excluded.updated`,
		run.Meta.ID, meta, run.State, energy, run.Meta.Updated.UnixNano())
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.Meta.ID, err)
	}
	return nil
}

func (s *SQLite) Load(id string) (*Run, error) {
	var meta, state, energy []byte
	err := s.db.QueryRow(`SELECT meta, state, energy FROM runs WHERE id = ?`, id).Scan(&meta, &state, &energy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	run := &Run{State: state}
	if err := json.Unmarshal(meta, &run.Meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if err := json.Unmarshal(energy, &run.Energy); err != nil {
		return nil, fmt.Errorf("decode energy: %w", err)
	}
	return run, nil
}

func (s *SQLite) List() ([]Meta, error) {
	rows, err := s.db.Query(`SELECT meta FROM runs ORDER BY updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]Meta, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
