package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lostprophetsco/saasoft-tz/internal/service"
)

const shellHelp = `Available commands:
  list            list all accounts
  saved           list saved accounts
  show <id>       show one account
  add             add an account
  edit <id>       edit an account
  type <id> <t>   switch the type (LDAP or Local)
  save <id>       validate and save an account
  delete <id>     delete an account
  help            show this help
  exit            leave the shell`

// Shell runs the interactive loop until "exit", "quit" or end of input.
// Command errors are reported and the loop continues.
func (a *App) Shell(ctx context.Context) error {
	fmt.Fprintln(a.out, "Type 'help' for a list of commands.")
	for {
		line, err := a.prompt.Line("keeper> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			fmt.Fprintln(a.out, "Bye")
			return nil
		}
		if err := a.dispatch(ctx, args); err != nil {
			a.reportError(err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]

	needID := func() (string, error) {
		if len(rest) < 1 {
			return "", fmt.Errorf("usage: %s <id>", cmd)
		}
		return rest[0], nil
	}

	switch cmd {
	case "help":
		fmt.Fprintln(a.out, shellHelp)
		return nil
	case "list", "ls":
		a.List(false)
		return nil
	case "saved":
		a.List(true)
		return nil
	case "add":
		return a.AddInteractive(ctx)
	case "show", "get":
		id, err := needID()
		if err != nil {
			return err
		}
		return a.Show(id)
	case "edit":
		id, err := needID()
		if err != nil {
			return err
		}
		return a.EditInteractive(ctx, id)
	case "type":
		if len(rest) < 2 {
			return errors.New("usage: type <id> <LDAP|Local>")
		}
		t, ok := ParseType(rest[1])
		if !ok {
			return service.ErrInvalidType
		}
		return a.ChangeType(ctx, rest[0], t)
	case "save":
		id, err := needID()
		if err != nil {
			return err
		}
		return a.Save(ctx, id)
	case "delete", "rm":
		id, err := needID()
		if err != nil {
			return err
		}
		return a.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown command %q, type 'help' for a list of commands", cmd)
	}
}

func (a *App) reportError(err error) {
	var notSaveable *service.NotSaveableError
	if errors.As(err, &notSaveable) {
		// already listed by Save
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
