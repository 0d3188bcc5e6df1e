package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/maloquacious/contactbook/internal/controller"
	"github.com/maloquacious/contactbook/internal/store"
	"github.com/maloquacious/contactbook/internal/store/sqlite"
	"github.com/maloquacious/contactbook/internal/tui"
)

// runTUI is replaced in tests.
var runTUI = tui.Run

// openStore opens the configured database and brings its schema up to date.
func (a *app) openStore(ctx context.Context) (*sqlite.SQLiteStore, error) {
	s, err := a.connect()
	if err != nil {
		return nil, err
	}
	if err := s.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// connect opens the configured database without touching its schema.
func (a *app) connect() (*sqlite.SQLiteStore, error) {
	if err := store.EnsureDir(a.cfg.DBPath); err != nil {
		return nil, err
	}
	s := sqlite.New(a.cfg.DBPath, sqlite.WithStrict(a.cfg.Strict), sqlite.WithLogger(a.log.With("component", "store")))
	if err := s.Open(); err != nil {
		return nil, err
	}
	a.log.Debug("store opened", "path", a.cfg.DBPath, "strict", a.cfg.Strict)
	return s, nil
}

func (a *app) controller(s store.Contacts) *controller.Controller {
	return controller.New(s, a.log.With("component", "controller"))
}

// report prints an action's notice. Warnings and errors go to errOut and
// turn into errReported so the process exits non-zero.
func report(out, errOut io.Writer, o controller.Outcome) error {
	n := o.Notice
	switch n.Level {
	case controller.LevelInfo:
		color.New(color.FgGreen).Fprintln(out, n.String())
	case controller.LevelWarning:
		color.New(color.FgYellow).Fprintln(errOut, n.String())
		return errReported
	case controller.LevelError:
		color.New(color.FgRed).Fprintln(errOut, n.String())
		return errReported
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contact id %q", arg)
	}
	return id, nil
}
