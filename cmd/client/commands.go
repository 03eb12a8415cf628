package main

import (
	"fmt"

	"github.com/lostprophetsco/saasoft-tz/internal/client"
	"github.com/lostprophetsco/saasoft-tz/internal/form"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"github.com/lostprophetsco/saasoft-tz/internal/service"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Keeper Client\nVersion: %s\nBuild Date: %s\n",
				lo.CoalesceOrEmpty(version, "N/A"), lo.CoalesceOrEmpty(buildDate, "N/A"))
		},
	}
}

func newListCmd(s *session) *cobra.Command {
	var saved bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accounts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.app.List(saved)
			return nil
		},
	}
	cmd.Flags().BoolVar(&saved, "saved", false, "only saved accounts")
	return cmd
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Show(args[0])
		},
	}
}

// accountFlags are the field flags shared by add and edit.
type accountFlags struct {
	typ      string
	login    string
	labels   string
	password string
}

func (f *accountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "account type: LDAP or Local")
	cmd.Flags().StringVar(&f.login, "login", "", "login")
	cmd.Flags().StringVar(&f.labels, "labels", "", "labels separated by ';'")
	cmd.Flags().StringVar(&f.password, "password", "", "password (Local only; prompted when omitted)")
}

// set reports whether any field flag was given.
func (f *accountFlags) set(cmd *cobra.Command) bool {
	for _, name := range []string{"type", "login", "labels", "password"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply copies the flags the user set onto e. A type change resets the
// password before an explicit --password is applied.
func (f *accountFlags) apply(cmd *cobra.Command, e models.EditableAccount) (models.EditableAccount, error) {
	flags := cmd.Flags()
	if flags.Changed("type") {
		t, ok := client.ParseType(f.typ)
		if !ok {
			return e, fmt.Errorf("%w: %q", service.ErrInvalidType, f.typ)
		}
		if t != e.Type {
			e = form.ResetOnTypeChange(e, t)
		}
	}
	if flags.Changed("login") {
		e.Login = f.login
	}
	if flags.Changed("labels") {
		e.LabelsFormatted = f.labels
	}
	if flags.Changed("password") {
		e.Password = models.StringPtr(f.password)
	}
	return e, nil
}

func newAddCmd(s *session) *cobra.Command {
	var f accountFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Long: `Add an account and save it when it passes validation.

Without flags the account is entered interactively.

Example:
  keeper add --type LDAP --login alice --labels "vpn; office"
  keeper add --type Local --login bob`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !f.set(cmd) {
				return s.app.AddInteractive(cmd.Context())
			}
			if !cmd.Flags().Changed("type") {
				return fmt.Errorf("--type is required")
			}

			e, err := f.apply(cmd, form.CreateEmpty())
			if err != nil {
				return err
			}
			if e.Type == models.TypeLocal && !cmd.Flags().Changed("password") {
				pw, err := s.app.Prompter().Password("Password: ")
				if err != nil {
					return err
				}
				e.Password = models.StringPtr(pw)
			}
			return s.app.Create(cmd.Context(), e)
		},
	}
	f.register(cmd)
	return cmd
}

func newEditCmd(s *session) *cobra.Command {
	var f accountFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an account",
		Long: `Edit an account and save it when it passes validation.

Only the fields given as flags change. Without flags every field is prompted
for interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !f.set(cmd) {
				return s.app.EditInteractive(cmd.Context(), args[0])
			}
			return s.app.Edit(cmd.Context(), args[0], func(e models.EditableAccount) (models.EditableAccount, error) {
				return f.apply(cmd, e)
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newTypeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "type <id> <LDAP|Local>",
		Short: "Switch the type of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := client.ParseType(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", service.ErrInvalidType, args[1])
			}
			return s.app.ChangeType(cmd.Context(), args[0], t)
		},
	}
}

func newSaveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "save <id>",
		Short: "Validate and save an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Save(cmd.Context(), args[0])
		},
	}
}

func newDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Delete(cmd.Context(), args[0])
		},
	}
}

func newShellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Shell(cmd.Context())
		},
	}
}
