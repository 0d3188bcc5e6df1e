// Package controller binds the contact book actions to the store and keeps
// the projection that presentation layers display.
//
// Every action performs at most one store call. Mutating actions are followed
// by a full reload; search replaces the projection with its results only.
// Errors never escape an action: they come back as a Notice for the user.
package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/maloquacious/contactbook/internal/logger"
	"github.com/maloquacious/contactbook/internal/store"
)

// Form holds the four user-editable fields.
type Form struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

func (f Form) contact(id int64) store.Contact {
	return store.Contact{ID: id, Name: f.Name, Phone: f.Phone, Email: f.Email, Address: f.Address}
}

// FormFrom copies a contact's fields into a form.
func FormFrom(c store.Contact) Form {
	return Form{Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address}
}

// Row is one entry of the projection. The contact travels with its label so
// the id never has to be recovered from display text.
type Row struct {
	Contact store.Contact
	Label   string
}

// Outcome is the result of an action.
type Outcome struct {
	Notice    Notice
	ClearForm bool
}

// OK reports whether the action completed without a warning or error.
func (o Outcome) OK() bool {
	return o.Notice.Level == LevelNone || o.Notice.Level == LevelInfo
}

// Controller owns the projection and selection for one interactive session.
type Controller struct {
	store    store.Contacts
	log      logger.Logger
	rows     []Row
	selected int64
}

// New returns a controller over s. A nil logger uses logger.Default.
func New(s store.Contacts, l logger.Logger) *Controller {
	if l == nil {
		l = logger.Default
	}
	return &Controller{store: s, log: l}
}

// Rows returns the current projection.
func (c *Controller) Rows() []Row {
	return c.rows
}

// Selected returns the selected row, if any.
func (c *Controller) Selected() (Row, bool) {
	if c.selected == 0 {
		return Row{}, false
	}
	for _, r := range c.rows {
		if r.Contact.ID == c.selected {
			return r, true
		}
	}
	return Row{}, false
}

// Select marks the row with id as selected. The id must be in the projection.
func (c *Controller) Select(id int64) error {
	for _, r := range c.rows {
		if r.Contact.ID == id {
			c.selected = id
			return nil
		}
	}
	return fmt.Errorf("contact %d is not in the list", id)
}

// ClearSelection drops the current selection.
func (c *Controller) ClearSelection() {
	c.selected = 0
}

// Load replaces the projection with every stored contact.
func (c *Controller) Load(ctx context.Context) Outcome {
	contacts, err := c.store.QueryAll(ctx)
	if err != nil {
		return c.failure("load", err)
	}
	c.project(contacts)
	return Outcome{}
}

// Add validates the form and inserts a new contact.
func (c *Controller) Add(ctx context.Context, f Form) Outcome {
	if f.Name == "" || f.Phone == "" {
		return Outcome{Notice: requiredFields}
	}

	id, err := c.store.Insert(ctx, f.contact(0))
	if err != nil {
		return c.failure("add", err)
	}
	c.log.Info("contact added", "id", id)

	// The contact is stored, so the form is cleared even when the list is stale.
	if out := c.Load(ctx); !out.OK() {
		return Outcome{Notice: reloadFailed("Contact added", out.Notice), ClearForm: true}
	}
	return Outcome{Notice: info("Contact added successfully."), ClearForm: true}
}

// Update replaces the selected contact's fields with the form.
// The list is reloaded whether or not a row matched.
func (c *Controller) Update(ctx context.Context, f Form) Outcome {
	row, ok := c.Selected()
	if !ok {
		return Outcome{Notice: noSelection}
	}
	if f.Name == "" || f.Phone == "" {
		return Outcome{Notice: requiredFields}
	}

	err := c.store.Update(ctx, f.contact(row.Contact.ID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return c.failure("update", err)
	}
	if out := c.Load(ctx); !out.OK() {
		return out
	}
	if err != nil {
		return c.failure("update", err)
	}

	c.log.Info("contact updated", "id", row.Contact.ID)
	return Outcome{Notice: info("Contact updated successfully."), ClearForm: true}
}

// Delete removes the selected contact and reloads the list.
func (c *Controller) Delete(ctx context.Context) Outcome {
	row, ok := c.Selected()
	if !ok {
		return Outcome{Notice: noSelection}
	}

	err := c.store.Delete(ctx, row.Contact.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return c.failure("delete", err)
	}
	if out := c.Load(ctx); !out.OK() {
		return out
	}
	if err != nil {
		return c.failure("delete", err)
	}

	c.log.Info("contact deleted", "id", row.Contact.ID)
	return Outcome{Notice: info("Contact deleted successfully.")}
}

// Search replaces the projection with contacts whose name or phone contains
// term. It does not reload the full table.
func (c *Controller) Search(ctx context.Context, term string) Outcome {
	if term == "" {
		return Outcome{Notice: emptySearch}
	}

	contacts, err := c.store.Search(ctx, term)
	if err != nil {
		return c.failure("search", err)
	}
	c.project(contacts)
	return Outcome{}
}

// project rebuilds the projection and clears the selection.
func (c *Controller) project(contacts []store.Contact) {
	rows := make([]Row, 0, len(contacts))
	for _, contact := range contacts {
		rows = append(rows, Row{Contact: contact, Label: contact.Label()})
	}
	c.rows = rows
	c.selected = 0
}

// failure turns a store error into a notice. Expected errors become
// user-facing messages; anything else is logged and shown as an I/O error.
func (c *Controller) failure(action string, err error) Outcome {
	switch {
	case errors.Is(err, store.ErrDuplicatePhone):
		return Outcome{Notice: duplicatePhone}
	case errors.Is(err, store.ErrInvalidContact):
		return Outcome{Notice: requiredFields}
	case errors.Is(err, store.ErrNotFound):
		return Outcome{Notice: notFound}
	default:
		c.log.Error("action failed", "action", action, "err", err)
		return Outcome{Notice: storageError(err)}
	}
}
