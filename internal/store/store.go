package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDBFile = "contacts.db"
)

// CheckExists verifies if the database file exists at dbPath.
// Returns true if the file exists, false otherwise.
func CheckExists(dbPath string) (bool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// StorePath returns the directory holding the datastore.
// The database lives next to the working directory unless configured otherwise.
func StorePath() string {
	return "."
}

// DBPath returns the full path to the database file.
func DBPath(storePath string) string {
	return filepath.Join(storePath, DefaultDBFile)
}

// EnsureDir creates the parent directory of dbPath if needed.
func EnsureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}
