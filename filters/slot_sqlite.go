package filters

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one filter entry per visitor in a SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path, creating its
// directory, and ensures the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers run alongside the single writer; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS filter_state (
    visitor TEXT NOT NULL,
    name TEXT NOT NULL,
    data BLOB NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (visitor, name)
);
`)
	return err
}

// Slot returns the slot for one visitor.
func (s *SQLiteStore) Slot(visitor string) Slot {
	return &sqliteSlot{store: s, visitor: visitor}
}

// Prune deletes entries not written for longer than age.
func (s *SQLiteStore) Prune(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := s.now().Add(-age).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM filter_state WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type sqliteSlot struct {
	store   *SQLiteStore
	visitor string
}

func (sl *sqliteSlot) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := sl.store.db.QueryRowContext(ctx,
		`SELECT data FROM filter_state WHERE visitor = ? AND name = ?`,
		sl.visitor, EntryName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	return data, err
}

func (sl *sqliteSlot) Write(ctx context.Context, data []byte) error {
	_, err := sl.store.db.ExecContext(ctx, `
INSERT INTO filter_state (visitor, name, data, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(visitor, name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sl.visitor, EntryName, data, sl.store.now().Unix())
	return err
}

func (sl *sqliteSlot) Remove(ctx context.Context) error {
	_, err := sl.store.db.ExecContext(ctx,
		`DELETE FROM filter_state WHERE visitor = ? AND name = ?`, sl.visitor, EntryName)
	return err
}
