// Package service provides the account editing flow shared by the HTTP API
// and the CLI, combining the form controller, validation and the repository.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lostprophetsco/saasoft-tz/internal/form"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"github.com/lostprophetsco/saasoft-tz/internal/validation"
)

var (
	// ErrNotFound is returned when no stored account has the requested id.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidType is returned for an account type other than LDAP or Local.
	ErrInvalidType = errors.New("invalid account type")
)

// NotSaveableError reports why an account could not be saved.
type NotSaveableError struct {
	// Errors lists one message per failed check.
	Errors []string
	err    error
}

func (e *NotSaveableError) Error() string {
	return "account not saveable: " + strings.Join(e.Errors, "; ")
}

// Unwrap exposes the validation sentinels to errors.Is.
func (e *NotSaveableError) Unwrap() error {
	return e.err
}

// AccountRepository defines the store operations needed by AccountService.
type AccountRepository interface {
	// Add stores a new account and returns it with its assigned id.
	Add(ctx context.Context, data models.Account) models.Account
	// Update replaces an existing account. Reports false for unknown ids.
	Update(ctx context.Context, a models.Account) bool
	// Save commits an account flagged ready for save. Reports false when
	// nothing was committed.
	Save(ctx context.Context, a models.Account) bool
	// Delete removes an account. Reports false for unknown ids.
	Delete(ctx context.Context, id string) bool
	Accounts() []models.Account
	SavedAccounts() []models.Account
	HasLocalAccounts() bool
	Get(id string) (models.Account, bool)
}

// AccountService implements the account editing flow.
type AccountService struct {
	repo AccountRepository
}

// NewAccountService constructs an AccountService over repo.
func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// Template returns an empty editable account for a new record.
func (s *AccountService) Template() models.EditableAccount {
	return form.CreateEmpty()
}

// Create converts e to an account and adds it to the store.
// An unset type is accepted; an unknown one is not.
func (s *AccountService) Create(ctx context.Context, e models.EditableAccount) (models.Account, error) {
	if err := checkType(e.Type); err != nil {
		return models.Account{}, err
	}
	return s.repo.Add(ctx, form.ToAccount(e)), nil
}

// Editable returns the stored account with the given id in editable form.
func (s *AccountService) Editable(id string) (models.EditableAccount, error) {
	acc, ok := s.repo.Get(id)
	if !ok {
		return models.EditableAccount{}, ErrNotFound
	}
	return form.CreateEditable(acc), nil
}

// ChangeType returns the stored account as an editable with its type switched
// to t and the password reset accordingly. The store is not modified.
func (s *AccountService) ChangeType(id string, t models.AccountType) (models.EditableAccount, error) {
	if !t.IsValid() {
		return models.EditableAccount{}, ErrInvalidType
	}
	e, err := s.Editable(id)
	if err != nil {
		return models.EditableAccount{}, err
	}
	return form.ResetOnTypeChange(e, t), nil
}

// Update applies an edit to the account with the given id. The stored record
// loses its saved status until it is saved again.
func (s *AccountService) Update(ctx context.Context, id string, e models.EditableAccount) (models.Account, error) {
	if err := checkType(e.Type); err != nil {
		return models.Account{}, err
	}
	e.ID = id
	if !s.repo.Update(ctx, form.PrepareForUpdate(e)) {
		return models.Account{}, ErrNotFound
	}
	acc, _ := s.repo.Get(id)
	return acc, nil
}

// Save validates e and commits it as the saved version of the account with
// the given id. A record already in the store is past creation, so its new
// flag is cleared before validation. When validation fails the store keeps
// its previous version and a *NotSaveableError is returned.
func (s *AccountService) Save(ctx context.Context, id string, e models.EditableAccount) (models.Account, error) {
	if _, ok := s.repo.Get(id); !ok {
		return models.Account{}, ErrNotFound
	}

	e.ID = id
	e.IsNew = false
	ready := validation.IsSaveable(e) && validation.CheckLengths(e) == nil

	acc := form.ToAccount(e)
	acc.IsReadyForSave = ready
	if !s.repo.Save(ctx, acc) {
		if !ready {
			err := validation.Check(e)
			return models.Account{}, &NotSaveableError{Errors: validation.Messages(err), err: err}
		}
		return models.Account{}, ErrNotFound
	}

	saved, _ := s.repo.Get(id)
	return saved, nil
}

// Delete removes the account with the given id. Reports whether it existed.
func (s *AccountService) Delete(ctx context.Context, id string) bool {
	return s.repo.Delete(ctx, id)
}

// List returns every stored account.
func (s *AccountService) List() []models.Account {
	return s.repo.Accounts()
}

// Saved returns the saved accounts.
func (s *AccountService) Saved() []models.Account {
	return s.repo.SavedAccounts()
}

// HasLocal reports whether any stored account is of Local type.
func (s *AccountService) HasLocal() bool {
	return s.repo.HasLocalAccounts()
}

func checkType(t models.AccountType) error {
	if t != "" && !t.IsValid() {
		return ErrInvalidType
	}
	return nil
}
