package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/agrovoice/agrovoice-go/internal/domain"
	"github.com/agrovoice/agrovoice-go/internal/pkg/filesystem"
	"github.com/agrovoice/agrovoice-go/internal/ports"
)

// SQLiteStore persists the offline tables in a single SQLite database.
// Each logical table maps to its own SQL table with an id primary key and a
// JSON payload column; tables are created lazily and idempotently.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	mu      sync.Mutex
	created map[string]bool
}

var tableNameRe = regexp.MustCompile(`^[a-z_]+$`)

// NewSQLiteStore creates (or opens) the ~/.agrovoice/store.db database.
// On open failure it degrades to an in-memory store so the advisory path
// keeps working for the session.
func NewSQLiteStore() ports.KeyValueStore {
	path := filepath.Join(filesystem.UserHomeDir(), ".agrovoice", "store.db")
	return NewSQLiteStoreAt(path)
}

// NewSQLiteStoreAt opens a store at an explicit path.
func NewSQLiteStoreAt(path string) ports.KeyValueStore {
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return NewMemoryStore()
	}
	return &SQLiteStore{db: db, path: path, created: map[string]bool{}}
}

func (s *SQLiteStore) ensureTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created[table] {
		return nil
	}
	_, err := s.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	);`, table))
	if err != nil {
		return err
	}
	s.created[table] = true
	return nil
}

// Get returns the payload stored under key, if present.
func (s *SQLiteStore) Get(ctx context.Context, table, key string) ([]byte, bool, error) {
	if err := s.ensureTable(table); err != nil {
		return nil, false, err
	}
	var payload string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT payload FROM %s WHERE id = ?", table), key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(payload), true, nil
}

// Put upserts the payload under key.
func (s *SQLiteStore) Put(ctx context.Context, table, key string, value []byte) error {
	if err := s.ensureTable(table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, payload) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`, table),
		key, string(value))
	return err
}

// GetAll returns every payload in the table keyed by id.
func (s *SQLiteStore) GetAll(ctx context.Context, table string) (map[string][]byte, error) {
	if err := s.ensureTable(table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, payload FROM %s", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][]byte{}
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		out[id] = []byte(payload)
	}
	return out, rows.Err()
}

// Delete removes one record; deleting an absent key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, table, key string) error {
	if err := s.ensureTable(table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), key)
	return err
}

// Clear empties the table.
func (s *SQLiteStore) Clear(ctx context.Context, table string) error {
	if err := s.ensureTable(table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
	return err
}

// Count returns the number of records in the table.
func (s *SQLiteStore) Count(ctx context.Context, table string) (int, error) {
	if err := s.ensureTable(table); err != nil {
		return 0, err
	}
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n, err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.KeyValueStore = (*SQLiteStore)(nil)
