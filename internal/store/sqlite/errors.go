package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maloquacious/contactbook/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraintError maps SQLite constraint failures onto store sentinels and
// wraps everything else with op.
func constraintError(op string, err error) error {
	switch {
	case isConstraint(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE constraint failed"):
		return fmt.Errorf("failed to %s: %w", op, store.ErrDuplicatePhone)
	case isConstraint(err, sqlite3.SQLITE_CONSTRAINT_CHECK, "CHECK constraint failed"),
		isConstraint(err, sqlite3.SQLITE_CONSTRAINT_NOTNULL, "NOT NULL constraint failed"):
		return fmt.Errorf("failed to %s: %w", op, store.ErrInvalidContact)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

// isConstraint matches the driver's extended result code, falling back to
// the message text for wrapped or foreign errors.
func isConstraint(err error, code int, text string) bool {
	if err == nil {
		return false
	}
	var se *msqlite.Error
	if errors.As(err, &se) && se.Code() == code {
		return true
	}
	return strings.Contains(err.Error(), text)
}
