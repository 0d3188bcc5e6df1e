package main

import (
	"fmt"

	"github.com/maloquacious/contactbook/internal/controller"
	"github.com/maloquacious/contactbook/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// contactCommands returns the scripting counterparts of the UI actions.
// Each one drives the same controller the terminal UI uses.
func (a *app) contactCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all contacts ordered by id",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}

	searchCmd := &cobra.Command{
		Use:   "search TERM",
		Short: "List contacts whose name or phone contains TERM",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runSearch,
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE:  a.runAdd,
	}
	formFlags(addCmd.Flags())

	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace the fields of a contact; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runUpdate,
	}
	formFlags(updateCmd.Flags())

	deleteCmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a contact",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runDelete,
	}

	return []*cobra.Command{listCmd, searchCmd, addCmd, updateCmd, deleteCmd}
}

func formFlags(fs *pflag.FlagSet) {
	fs.String("name", "", "contact name")
	fs.String("phone", "", "contact phone number (unique)")
	fs.String("email", "", "contact email")
	fs.String("address", "", "contact address")
}

// applyFlags overwrites the fields of f whose flags were given.
func applyFlags(fs *pflag.FlagSet, f controller.Form) controller.Form {
	fields := map[string]*string{
		"name":    &f.Name,
		"phone":   &f.Phone,
		"email":   &f.Email,
		"address": &f.Address,
	}
	fs.Visit(func(fl *pflag.Flag) {
		if p, ok := fields[fl.Name]; ok {
			*p = fl.Value.String()
		}
	})
	return f
}

// session opens the store and hands a loaded controller to fn.
func (a *app) session(cmd *cobra.Command, fn func(ctrl *controller.Controller) error) error {
	ctx := cmd.Context()
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl := a.controller(s)
	if err := report(cmd.OutOrStdout(), cmd.ErrOrStderr(), ctrl.Load(ctx)); err != nil {
		return err
	}
	return fn(ctrl)
}

func (a *app) print(cmd *cobra.Command, ctrl *controller.Controller) error {
	return render.Rows(cmd.OutOrStdout(), render.Mode(a.cfg.Output), ctrl.Rows())
}

func (a *app) runList(cmd *cobra.Command, _ []string) error {
	return a.session(cmd, func(ctrl *controller.Controller) error {
		return a.print(cmd, ctrl)
	})
}

func (a *app) runSearch(cmd *cobra.Command, args []string) error {
	return a.session(cmd, func(ctrl *controller.Controller) error {
		if err := report(cmd.OutOrStdout(), cmd.ErrOrStderr(), ctrl.Search(cmd.Context(), args[0])); err != nil {
			return err
		}
		return a.print(cmd, ctrl)
	})
}

func (a *app) runAdd(cmd *cobra.Command, _ []string) error {
	return a.session(cmd, func(ctrl *controller.Controller) error {
		form := applyFlags(cmd.Flags(), controller.Form{})
		return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), ctrl.Add(cmd.Context(), form))
	})
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.session(cmd, func(ctrl *controller.Controller) error {
		if err := ctrl.Select(id); err != nil {
			return fmt.Errorf("update: %w", err)
		}
		row, _ := ctrl.Selected()
		form := applyFlags(cmd.Flags(), controller.FormFrom(row.Contact))
		return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), ctrl.Update(cmd.Context(), form))
	})
}

func (a *app) runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	return a.session(cmd, func(ctrl *controller.Controller) error {
		if err := ctrl.Select(id); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), ctrl.Delete(cmd.Context()))
	})
}
