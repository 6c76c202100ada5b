package schema

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Store persists component descriptors in SQLite, one JSON document per type.
type Store struct {
	db     *sql.DB
	dbPath string
}

// StoreConfig holds store configuration options.
type StoreConfig struct {
	DBPath string // Path to the descriptor database (defaults to ~/.yailc/components.db)
}

// OpenStore opens (and if needed creates) the descriptor database.
// If cfg is nil, defaults are used.
func OpenStore(cfg *StoreConfig) (*Store, error) {
	s := &Store{}

	if cfg != nil && cfg.DBPath != "" {
		s.dbPath = cfg.DBPath
	} else if dbPath := os.Getenv("YAILC_COMPONENTS_DB"); dbPath != "" {
		s.dbPath = dbPath
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "getting home dir")
		}
		s.dbPath = filepath.Join(home, ".yailc", "components.db")
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	s.db = db

	// Set busy timeout for concurrent access
	if _, err = db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "setting busy timeout")
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS components (
		name TEXT PRIMARY KEY,
		data JSON NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating components table")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put validates and saves a descriptor, replacing any previous version.
func (s *Store) Put(ct ComponentType) error {
	if err := ct.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(ct)
	if err != nil {
		return errors.Wrap(err, "marshaling descriptor")
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO components (name, data) VALUES (?, ?)",
		ct.Name, string(data),
	)
	return errors.Wrapf(err, "saving %s", ct.Name)
}

// Get loads a single descriptor.
func (s *Store) Get(name string) (*ComponentType, error) {
	var data string
	err := s.db.QueryRow("SELECT data FROM components WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrTypeNotFound, "%q", name)
		}
		return nil, errors.Wrap(err, "querying descriptor")
	}
	var ct ComponentType
	if err := json.Unmarshal([]byte(data), &ct); err != nil {
		return nil, errors.Wrapf(err, "unmarshaling %s", name)
	}
	return &ct, nil
}

// Delete removes a descriptor. Deleting a missing name is not an error.
func (s *Store) Delete(name string) error {
	_, err := s.db.Exec("DELETE FROM components WHERE name = ?", name)
	return errors.Wrapf(err, "deleting %s", name)
}

// LoadInto registers every stored descriptor in reg.
func (s *Store) LoadInto(reg *MemoryRegistry) error {
	rows, err := s.db.Query("SELECT name, data FROM components ORDER BY name")
	if err != nil {
		return errors.Wrap(err, "listing descriptors")
	}
	defer rows.Close()

	for rows.Next() {
		var name, data string
		if err := rows.Scan(&name, &data); err != nil {
			return errors.Wrap(err, "scanning descriptor")
		}
		var ct ComponentType
		if err := json.Unmarshal([]byte(data), &ct); err != nil {
			return errors.Wrapf(err, "unmarshaling %s", name)
		}
		if err := reg.Register(ct); err != nil {
			return err
		}
	}
	return errors.Wrap(rows.Err(), "iterating descriptors")
}
