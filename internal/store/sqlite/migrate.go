package sqlite

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/maloquacious/contactbook/internal/logger"
	"github.com/maloquacious/contactbook/internal/store"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// CurrentSchemaVersion is the newest migration shipped with this binary.
const CurrentSchemaVersion int64 = 1

// versionTable is where goose records applied migrations.
const versionTable = "goose_db_version"

// Initialize creates or migrates the schema. It is idempotent and is
// called on every startup.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("failed to initialize schema: %w", store.ErrNotOpened)
	}

	if err := configureGoose(s.log); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.log.Debug("schema initialized", "path", s.dbPath)
	return nil
}

// SchemaVersion returns the current migration version, or 0 when the
// database has never been initialized.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, store.ErrNotOpened
	}

	ok, err := s.tableExists(ctx, versionTable)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	if err := configureGoose(s.log); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to query schema version: %w", err)
	}
	return version, nil
}

func configureGoose(l logger.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: l})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// gooseLogger routes goose output into the application logger.
type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

// Fatalf panics so deferred cleanup, including terminal restore, still runs.
func (g gooseLogger) Fatalf(format string, v ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	g.log.Error(msg, "component", "migrate")
	panic("migrate: " + msg)
}
