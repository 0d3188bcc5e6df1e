// Package render prints a contact list for the command line.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/maloquacious/contactbook/internal/controller"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeTable Mode = "table"
	ModePlain Mode = "plain"
	ModeJSON  Mode = "json"
	ModeYAML  Mode = "yaml"
)

// record is the serialized form of one contact.
type record struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone" yaml:"phone"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// Resolve turns ModeAuto into a table on a terminal and plain text otherwise.
func Resolve(mode Mode, w io.Writer) Mode {
	if mode != ModeAuto && mode != "" {
		return mode
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return ModeTable
	}
	return ModePlain
}

// Rows writes rows to w in the given mode.
func Rows(w io.Writer, mode Mode, rows []controller.Row) error {
	switch Resolve(mode, w) {
	case ModeTable:
		return renderTable(w, rows)
	case ModePlain:
		return renderPlain(w, rows)
	case ModeJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records(rows))
	case ModeYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records(rows)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output mode %q", mode)
	}
}

func records(rows []controller.Row) []record {
	out := make([]record, 0, len(rows))
	for _, r := range rows {
		c := r.Contact
		out = append(out, record{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address})
	}
	return out
}

// renderPlain writes one display label per line.
func renderPlain(w io.Writer, rows []controller.Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.Label); err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, rows []controller.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 contacts)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Phone", "Email", "Address"})
	for _, r := range rows {
		c := r.Contact
		t.AppendRow(table.Row{c.ID, c.Name, c.Phone, c.Email, c.Address})
	}
	t.Render()

	_, _ = fmt.Fprintf(w, "(%d contacts)\n", len(rows))
	return nil
}
