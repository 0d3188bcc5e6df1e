package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/maloquacious/contactbook/internal/logger"
	"github.com/maloquacious/contactbook/internal/store"
	_ "modernc.org/sqlite"
)

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// SQLiteStore implements the Store interface using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath         string
	db             *sql.DB
	expectedSchema int64
	strict         bool
	log            logger.Logger
}

var _ store.Store = (*SQLiteStore)(nil)

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithStrict makes Update and Delete return store.ErrNotFound when no row
// matches the id. The default is a silent no-op.
func WithStrict(strict bool) Option {
	return func(s *SQLiteStore) { s.strict = strict }
}

// WithLogger sets the logger used for store and migration messages.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithExpectedSchema overrides the schema version CheckState compares against.
func WithExpectedSchema(version int64) Option {
	return func(s *SQLiteStore) { s.expectedSchema = version }
}

// New creates a new SQLiteStore for the database file at dbPath.
func New(dbPath string, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		dbPath:         dbPath,
		expectedSchema: CurrentSchemaVersion,
		log:            logger.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWithDB wraps an already opened database handle.
func NewWithDB(db *sql.DB, opts ...Option) *SQLiteStore {
	s := New("", opts...)
	s.db = db
	return s
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func dsn(path string) string {
	v := url.Values{}
	for _, p := range pragmas {
		v.Add("_pragma", p)
	}
	return path + "?" + v.Encode()
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open() error {
	db, err := sql.Open("sqlite", dsn(s.dbPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	s.log.Debug("database opened", "path", s.dbPath)
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// CheckState returns the current state of the datastore.
func (s *SQLiteStore) CheckState(ctx context.Context) (store.StoreState, error) {
	if s.db == nil {
		return store.StateMissing, store.ErrNotOpened
	}

	for _, table := range []string{versionTable, "contacts"} {
		ok, err := s.tableExists(ctx, table)
		if err != nil {
			return store.StateUninitialized, err
		}
		if !ok {
			return store.StateUninitialized, nil
		}
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to get schema version: %w", err)
	}

	if version != s.expectedSchema {
		return store.StateVersionMismatch, nil
	}

	return store.StateReady, nil
}

func (s *SQLiteStore) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check %s table: %w", name, err)
	}
	return count > 0, nil
}

// withTx runs fn inside a transaction on a dedicated connection. The
// connection and transaction are released on every return path.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s.db == nil {
		return store.ErrNotOpened
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Backup writes a consistent copy of the database to dest, which must not
// exist yet.
func (s *SQLiteStore) Backup(ctx context.Context, dest string) error {
	if s.db == nil {
		return store.ErrNotOpened
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	s.log.Info("database backed up", "path", dest)
	return nil
}
