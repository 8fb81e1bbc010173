// Package store provides an optional sqlite-backed durability mirror of
// a rete.Network's source registry, in the same database/sql +
// mattn/go-sqlite3 style the rest of the corpus uses for its own local
// persistence layers.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Store durably mirrors every fact asserted under a source, so a process
// restart can rebuild the network from disk via Facts/Sources without
// depending on the in-memory snapshot having been taken first.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Open creates or opens a durability database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.dbPath }

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		name       TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS facts (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		signature   TEXT NOT NULL,
		attrs_json  TEXT NOT NULL,
		asserted_at DATETIME NOT NULL,
		FOREIGN KEY (source) REFERENCES sources(name)
	);
	CREATE INDEX IF NOT EXISTS idx_facts_source ON facts(source);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_facts_source_signature ON facts(source, signature);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordFact durably mirrors one assertion of fact (keyed by sig) under
// source. Re-recording the same (source, signature) pair is a no-op,
// matching the network's own idempotent-assertion behavior.
func (s *Store) RecordFact(source, signature string, fact map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if _, err := s.db.Exec(`
		INSERT INTO sources (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING
	`, source, now); err != nil {
		return fmt.Errorf("store: record source: %w", err)
	}

	attrsJSON, err := json.Marshal(fact)
	if err != nil {
		return fmt.Errorf("store: marshal fact: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO facts (id, source, signature, attrs_json, asserted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source, signature) DO NOTHING
	`, uuid.NewString(), source, signature, attrsJSON, now)
	if err != nil {
		return fmt.Errorf("store: record fact: %w", err)
	}
	return nil
}

// RemoveSource deletes every fact recorded under source, mirroring
// rete.Network.RetractSource.
func (s *Store) RemoveSource(source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM facts WHERE source = ?`, source); err != nil {
		return fmt.Errorf("store: remove source facts: %w", err)
	}
	_, err := s.db.Exec(`DELETE FROM sources WHERE name = ?`, source)
	if err != nil {
		return fmt.Errorf("store: remove source: %w", err)
	}
	return nil
}

// Sources returns every durably recorded source name.
func (s *Store) Sources() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT name FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list sources: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// FactsOf returns every fact durably recorded under source, in insertion
// order, ready for rete.Network.Assert replay.
func (s *Store) FactsOf(source string) ([]map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT attrs_json FROM facts WHERE source = ? ORDER BY asserted_at ASC
	`, source)
	if err != nil {
		return nil, fmt.Errorf("store: load facts: %w", err)
	}
	defer rows.Close()

	var facts []map[string]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var fact map[string]string
		if err := json.Unmarshal([]byte(raw), &fact); err != nil {
			return nil, fmt.Errorf("store: unmarshal fact: %w", err)
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}
