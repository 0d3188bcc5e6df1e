package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/maloquacious/contactbook/internal/store"
)

const selectContacts = `SELECT id, name, phone, email, address FROM contacts`

// Insert stores a new contact and returns its id.
// A phone number that is already stored yields store.ErrDuplicatePhone.
func (s *SQLiteStore) Insert(ctx context.Context, c store.Contact) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (name, phone, email, address) VALUES (?, ?, ?, ?)`,
			c.Name, c.Phone, c.Email, c.Address,
		)
		if err != nil {
			return constraintError("insert contact", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read contact id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Debug("contact inserted", "id", id)
	return id, nil
}

// Update replaces every mutable field of the contact with c.ID.
// When no row matches, Update succeeds unless the store is strict.
func (s *SQLiteStore) Update(ctx context.Context, c store.Contact) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE contacts SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`,
			c.Name, c.Phone, c.Email, c.Address, c.ID,
		)
		if err != nil {
			return constraintError("update contact", err)
		}
		return s.checkAffected(res, c.ID)
	})
}

// Delete removes the contact with id. A missing id is not an error
// unless the store is strict.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete contact: %w", err)
		}
		return s.checkAffected(res, id)
	})
}

func (s *SQLiteStore) checkAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		s.log.Debug("no contact matched", "id", id, "strict", s.strict)
		if s.strict {
			return fmt.Errorf("contact %d: %w", id, store.ErrNotFound)
		}
	}
	return nil
}

// QueryAll returns every contact ordered by id.
func (s *SQLiteStore) QueryAll(ctx context.Context) ([]store.Contact, error) {
	return s.query(ctx, selectContacts+` ORDER BY id`)
}

// Search returns contacts whose name or phone contains term, compared
// case-sensitively, ordered by id.
func (s *SQLiteStore) Search(ctx context.Context, term string) ([]store.Contact, error) {
	return s.query(ctx, selectContacts+` WHERE instr(name, ?) > 0 OR instr(phone, ?) > 0 ORDER BY id`, term, term)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]store.Contact, error) {
	var contacts []store.Contact
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query contacts: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var c store.Contact
			var email, address sql.NullString
			if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &email, &address); err != nil {
				return fmt.Errorf("failed to scan contact: %w", err)
			}
			c.Email = email.String
			c.Address = address.String
			contacts = append(contacts, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate contacts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}
