package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/maloquacious/contactbook/internal/store"
	"github.com/maloquacious/contactbook/internal/store/sqlite"
	"github.com/spf13/cobra"
)

// backupDir holds copies taken before an upgrade, next to the database.
const backupDir = "backups"

func (a *app) runDBCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := a.connect()
	if err != nil {
		return err
	}
	defer s.Close()

	state, err := s.CheckState(ctx)
	if err != nil {
		return err
	}
	switch state {
	case store.StateReady:
		return fmt.Errorf("datastore already initialized: %s", a.cfg.DBPath)
	case store.StateVersionMismatch:
		return fmt.Errorf("datastore exists with another schema version, run 'db upgrade': %s", a.cfg.DBPath)
	}

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Created %s (schema version %d)\n", s.Path(), sqlite.CurrentSchemaVersion)
	return nil
}

func (a *app) runDBUpgrade(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	exists, err := store.CheckExists(a.cfg.DBPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("datastore not found, run 'db create': %s", a.cfg.DBPath)
	}

	s, err := a.connect()
	if err != nil {
		return err
	}
	defer s.Close()

	from, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if from == sqlite.CurrentSchemaVersion {
		fmt.Fprintf(cmd.OutOrStdout(), "Schema already at version %d\n", from)
		return nil
	}
	if from > sqlite.CurrentSchemaVersion {
		return fmt.Errorf("schema version %d is newer than this build supports (%d)", from, sqlite.CurrentSchemaVersion)
	}

	dir := filepath.Join(filepath.Dir(a.cfg.DBPath), backupDir)
	if err := store.EnsureDir(filepath.Join(dir, store.DefaultDBFile)); err != nil {
		return err
	}
	dest := filepath.Join(dir, fmt.Sprintf("%s.%s.v%d", filepath.Base(a.cfg.DBPath), time.Now().UTC().Format("20060102T150405Z"), from))
	if err := s.Backup(ctx, dest); err != nil {
		return err
	}

	if err := s.Initialize(ctx); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Upgraded schema %d -> %d (backup %s)\n", from, sqlite.CurrentSchemaVersion, dest)
	return nil
}

// verifyReport is the JSON summary printed by db verify.
type verifyReport struct {
	Path     string `json:"path"`
	State    string `json:"state"`
	Version  int64  `json:"version"`
	Expected int64  `json:"expected"`
	App      string `json:"app"`
}

func (a *app) runDBVerify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	summary := verifyReport{
		Path:     a.cfg.DBPath,
		State:    store.StateMissing.String(),
		Expected: sqlite.CurrentSchemaVersion,
		App:      version.String(),
	}

	exists, err := store.CheckExists(a.cfg.DBPath)
	if err != nil {
		return err
	}
	if exists {
		s, err := a.connect()
		if err != nil {
			return err
		}
		defer s.Close()

		state, err := s.CheckState(ctx)
		if err != nil {
			return err
		}
		summary.State = state.String()
		if summary.Version, err = s.SchemaVersion(ctx); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}
	if summary.State != store.StateReady.String() {
		return errReported
	}
	return nil
}
