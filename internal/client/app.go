package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"github.com/lostprophetsco/saasoft-tz/internal/service"
)

// AccountService is the account flow the terminal front end drives.
type AccountService interface {
	Create(ctx context.Context, e models.EditableAccount) (models.Account, error)
	Editable(id string) (models.EditableAccount, error)
	ChangeType(id string, t models.AccountType) (models.EditableAccount, error)
	Update(ctx context.Context, id string, e models.EditableAccount) (models.Account, error)
	Save(ctx context.Context, id string, e models.EditableAccount) (models.Account, error)
	Delete(ctx context.Context, id string) bool
	List() []models.Account
	Saved() []models.Account
	HasLocal() bool
}

// App runs account commands against a service and reports to out.
type App struct {
	svc    AccountService
	prompt *Prompter
	out    io.Writer
}

// NewApp creates an App reading answers from in and writing to out.
func NewApp(svc AccountService, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, prompt: NewPrompter(in, out), out: out}
}

// Prompter returns the prompter bound to the app's input.
func (a *App) Prompter() *Prompter {
	return a.prompt
}

// List prints all accounts, or only saved ones.
func (a *App) List(saved bool) {
	if saved {
		PrintAccounts(a.out, a.svc.Saved())
		return
	}
	PrintAccounts(a.out, a.svc.List())
	if a.svc.HasLocal() {
		fmt.Fprintln(a.out, "Local accounts present: passwords are stored on this machine.")
	}
}

// Show prints one account in editable form with its password masked.
func (a *App) Show(id string) error {
	e, err := a.svc.Editable(id)
	if err != nil {
		return err
	}
	if e.PasswordValue() != "" {
		e.Password = models.StringPtr(passwordMask)
	}
	return PrintJSON(a.out, e)
}

// Create stores e as a new account and then tries to save it.
// A record that fails validation stays stored as unsaved.
func (a *App) Create(ctx context.Context, e models.EditableAccount) error {
	acc, err := a.svc.Create(ctx, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %s added.\n", acc.ID)

	e.ID = acc.ID
	return a.trySave(ctx, acc.ID, e)
}

// Edit loads the account with the given id, lets change modify it, stores
// the result and tries to save it.
func (a *App) Edit(ctx context.Context, id string, change func(models.EditableAccount) (models.EditableAccount, error)) error {
	e, err := a.svc.Editable(id)
	if err != nil {
		return err
	}
	e, err = change(e)
	if err != nil {
		return err
	}
	if _, err := a.svc.Update(ctx, id, e); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %s updated.\n", id)
	return a.trySave(ctx, id, e)
}

// ChangeType switches the account type, resetting its password, and stores
// the change unsaved.
func (a *App) ChangeType(ctx context.Context, id string, t models.AccountType) error {
	e, err := a.svc.ChangeType(id, t)
	if err != nil {
		return err
	}
	if _, err := a.svc.Update(ctx, id, e); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %s is now %s. Run save to commit.\n", id, t)
	return nil
}

// Save validates and commits the stored account. A validation failure is
// reported and returned.
func (a *App) Save(ctx context.Context, id string) error {
	e, err := a.svc.Editable(id)
	if err != nil {
		return err
	}
	if _, err := a.svc.Save(ctx, id, e); err != nil {
		a.reportNotSaved(id, err)
		return err
	}
	fmt.Fprintf(a.out, "Account %s saved.\n", id)
	return nil
}

// Delete removes the account with the given id.
func (a *App) Delete(ctx context.Context, id string) error {
	if !a.svc.Delete(ctx, id) {
		return service.ErrNotFound
	}
	fmt.Fprintf(a.out, "Account %s deleted.\n", id)
	return nil
}

// AddInteractive prompts for a new account and creates it.
func (a *App) AddInteractive(ctx context.Context) error {
	e, err := a.prompt.NewAccount()
	if err != nil {
		return err
	}
	return a.Create(ctx, e)
}

// EditInteractive prompts for changes to the account with the given id.
func (a *App) EditInteractive(ctx context.Context, id string) error {
	return a.Edit(ctx, id, a.prompt.EditAccount)
}

func (a *App) trySave(ctx context.Context, id string, e models.EditableAccount) error {
	if _, err := a.svc.Save(ctx, id, e); err != nil {
		var notSaveable *service.NotSaveableError
		if errors.As(err, &notSaveable) {
			a.reportNotSaved(id, err)
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Account %s saved.\n", id)
	return nil
}

func (a *App) reportNotSaved(id string, err error) {
	var notSaveable *service.NotSaveableError
	if !errors.As(err, &notSaveable) {
		return
	}
	fmt.Fprintf(a.out, "Account %s not saved:\n", id)
	for _, msg := range notSaveable.Errors {
		fmt.Fprintf(a.out, "  - %s\n", msg)
	}
}
