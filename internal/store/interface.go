package store

import (
	"context"
	"errors"
	"fmt"
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing         StoreState = iota // File doesn't exist
	StateUninitialized                     // File exists but no schema
	StateVersionMismatch                   // Schema exists but wrong version
	StateReady                             // Initialized and correct version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StateVersionMismatch:
		return "version-mismatch"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("StoreState(%d)", int(s))
	}
}

var (
	// ErrDuplicatePhone is returned when an insert or update would store a
	// phone number that another contact already has.
	ErrDuplicatePhone = errors.New("store: phone number already exists")

	// ErrNotFound is returned by Update and Delete in strict mode when no
	// row matches the id.
	ErrNotFound = errors.New("store: contact not found")

	// ErrInvalidContact is returned when name or phone is empty.
	ErrInvalidContact = errors.New("store: name and phone are required")

	// ErrNotOpened is returned when an operation runs before Open.
	ErrNotOpened = errors.New("store: database not opened")
)

// Contact is a single row of the contacts table.
type Contact struct {
	ID      int64
	Name    string
	Phone   string
	Email   string
	Address string
}

// Validate reports ErrInvalidContact when a required field is empty.
func (c Contact) Validate() error {
	if c.Name == "" || c.Phone == "" {
		return ErrInvalidContact
	}
	return nil
}

// Label renders the contact the way the list shows it: "{id} {name} ({phone})".
func (c Contact) Label() string {
	return fmt.Sprintf("%d %s (%s)", c.ID, c.Name, c.Phone)
}

// Contacts is the contact table contract used by the controller.
type Contacts interface {
	Insert(ctx context.Context, c Contact) (int64, error)
	Update(ctx context.Context, c Contact) error
	Delete(ctx context.Context, id int64) error
	QueryAll(ctx context.Context) ([]Contact, error)
	Search(ctx context.Context, term string) ([]Contact, error)
}

// Store defines the contactbook datastore contract.
type Store interface {
	Contacts

	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// Initialize creates or migrates the schema; safe on every startup
	Initialize(ctx context.Context) error

	// CheckState returns the current state of the datastore
	CheckState(ctx context.Context) (StoreState, error)

	// SchemaVersion returns the current schema version from the database
	SchemaVersion(ctx context.Context) (int64, error)

	// Backup writes a copy of the datastore to a new file
	Backup(ctx context.Context, dest string) error
}
