// Package store implements the persistent record store: a SQLite-backed
// key-value medium holding the three record collections and the theme
// preference under four independent keys, each an independently serialized
// JSON value. Every Set commits durably before returning and notifies
// registered commit observers.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "github.com/mattn/go-sqlite3"

	"github.com/boazmichaely/JobHuntAI/pkg/models"
)

// Storage keys. Each key holds its own JSON document; the combined
// export/sync file format is a separate concern (see internal/filesync).
const (
	keyOpportunities = "opportunities"
	keyActivities    = "activities"
	keyContacts      = "contacts"
	keyTheme         = "theme"
)

// Store owns the three record collections and the theme preference.
// All mutation goes through full-value replacement of one key.
type Store struct {
	db *sql.DB

	mu        sync.Mutex
	observers []func()
}

// Open opens (creating if needed) the store database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	// Open with DSN options for SQLite pragmas
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

var memSeq atomic.Int64

// OpenInMemory opens a throwaway in-memory store, used by tests. Each
// call gets its own database; shared cache only ties together the pooled
// connections of this one store.
func OpenInMemory() (*Store, error) {
	dsn := fmt.Sprintf("file:mem%d?mode=memory&cache=shared&_busy_timeout=5000", memSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// runMigrations creates the key-value table.
func runMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// OnCommit registers fn to run synchronously after every successful Set.
// The file sync engine is the intended subscriber.
func (s *Store) OnCommit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

// getJSON loads and decodes one key into out. A missing key leaves out
// untouched so callers keep their zero/default value.
func (s *Store) getJSON(key string, out interface{}) error {
	var value string
	err := s.db.QueryRow(`SELECT value FROM records WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// setJSON encodes v and durably replaces key's value. Observers fire only
// after the write has committed.
func (s *Store) setJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO records (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, string(data),
	); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	s.notify()
	return nil
}

// Opportunities returns the committed opportunity collection, empty when
// nothing has been saved yet.
func (s *Store) Opportunities() ([]models.Opportunity, error) {
	opps := []models.Opportunity{}
	if err := s.getJSON(keyOpportunities, &opps); err != nil {
		return nil, err
	}
	return opps, nil
}

// SetOpportunities replaces the opportunity collection wholesale.
func (s *Store) SetOpportunities(opps []models.Opportunity) error {
	if opps == nil {
		opps = []models.Opportunity{}
	}
	return s.setJSON(keyOpportunities, opps)
}

// Activities returns the committed activity collection.
func (s *Store) Activities() ([]models.Activity, error) {
	acts := []models.Activity{}
	if err := s.getJSON(keyActivities, &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

// SetActivities replaces the activity collection wholesale.
func (s *Store) SetActivities(acts []models.Activity) error {
	if acts == nil {
		acts = []models.Activity{}
	}
	return s.setJSON(keyActivities, acts)
}

// Contacts returns the committed contact collection.
func (s *Store) Contacts() ([]models.Contact, error) {
	contacts := []models.Contact{}
	if err := s.getJSON(keyContacts, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// SetContacts replaces the contact collection wholesale.
func (s *Store) SetContacts(contacts []models.Contact) error {
	if contacts == nil {
		contacts = []models.Contact{}
	}
	return s.setJSON(keyContacts, contacts)
}

// Theme returns the saved theme preference, or the default.
func (s *Store) Theme() (models.Theme, error) {
	theme := models.DefaultTheme()
	if err := s.getJSON(keyTheme, &theme); err != nil {
		return models.DefaultTheme(), err
	}
	if _, ok := models.ThemeByName(theme.Name); !ok {
		return models.DefaultTheme(), nil
	}
	return theme, nil
}

// SetTheme saves the theme preference.
func (s *Store) SetTheme(theme models.Theme) error {
	return s.setJSON(keyTheme, theme)
}
