package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/maloquacious/contactbook/internal/config"
	"github.com/maloquacious/contactbook/internal/logger"
	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var (
	version   = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	buildDate = ""
)

// errReported marks failures that were already shown to the user.
var errReported = errors.New("reported")

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *logger.SlogLogger
}

func main() {
	a := &app{}
	if err := a.execute(a.rootCmd()); err != nil {
		if !errors.Is(err, errReported) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// execute runs cmd and releases the logger on every return path.
func (a *app) execute(cmd *cobra.Command) error {
	defer a.close()
	return cmd.Execute()
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Close()
		a.log = nil
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "contactbook",
		Short: "Personal contact book backed by a local SQLite file",
		Long: `contactbook stores contacts (name, phone, email, address) in a local
SQLite database. Run without arguments to open the interactive form and list.`,
		Version: version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			return a.configure(cmd)
		},
		RunE:          a.runUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().String("db", "", "path to the contacts database (default: ./contacts.db)")
	rootCmd.PersistentFlags().Bool("strict", false, "report update/delete of a missing contact as an error")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (auto|table|plain|json|yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "append logs to file")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "table", "plain", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive contact form and list",
		RunE:  a.runUI,
	}

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}
	dbCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create and initialize the datastore",
			RunE:  a.runDBCreate,
		},
		&cobra.Command{
			Use:   "upgrade",
			Short: "Apply migrations to current schema version",
			RunE:  a.runDBUpgrade,
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Verify schema integrity and version",
			RunE:  a.runDBVerify,
		},
	)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contactbook %s\n", version.String())
			if buildDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", buildDate)
			}
		},
	}

	rootCmd.AddCommand(uiCmd, dbCmd, versionCmd)
	rootCmd.AddCommand(a.contactCommands()...)

	return rootCmd
}

// configure loads configuration and builds the logger. The terminal UI owns
// the screen, so it logs to a file or nowhere.
func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := cfg.Log
	if isUI(cmd) && (opts.File == "" || opts.File == "-") {
		opts.File = os.DevNull
	}
	a.log = logger.New(opts)

	if cfg.ConfigFile != "" {
		a.log.Debug("config loaded", "file", cfg.ConfigFile)
	}
	return nil
}

func isUI(cmd *cobra.Command) bool {
	return cmd.Name() == "ui" || !cmd.HasParent()
}

func (a *app) runUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	return runTUI(ctx, a.controller(s))
}
