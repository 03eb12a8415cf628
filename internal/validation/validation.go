// Package validation decides whether an editable account may be saved.
//
// The result is advisory: callers set IsReadyForSave from IsSaveable before
// asking the repository to save. The repository never validates on its own.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lostprophetsco/saasoft-tz/internal/models"
)

// Validation errors reported by Check.
var (
	ErrNewRecord        = errors.New("record is new")
	ErrTypeRequired     = errors.New("type is required")
	ErrLoginRequired    = errors.New("login is required")
	ErrPasswordRequired = errors.New("password is required for local accounts")
	ErrTooLong          = errors.New("value is too long")
)

// IsSaveable reports whether e may be committed. New records are never
// saveable; the caller must clear IsNew first.
func IsSaveable(e models.EditableAccount) bool {
	if e.IsNew {
		return false
	}
	if e.Type == "" {
		return false
	}
	if strings.TrimSpace(e.Login) == "" {
		return false
	}
	if e.Type == models.TypeLocal && (e.Password == nil || strings.TrimSpace(*e.Password) == "") {
		return false
	}
	return true
}

// Check returns every problem found in e joined into one error, or nil.
// Unlike IsSaveable it also enforces the field length limits.
func Check(e models.EditableAccount) error {
	var errs []error

	if e.IsNew {
		errs = append(errs, ErrNewRecord)
	}
	if e.Type == "" {
		errs = append(errs, ErrTypeRequired)
	}
	if strings.TrimSpace(e.Login) == "" {
		errs = append(errs, ErrLoginRequired)
	}
	if e.Type == models.TypeLocal && (e.Password == nil || strings.TrimSpace(*e.Password) == "") {
		errs = append(errs, ErrPasswordRequired)
	}
	if err := CheckLengths(e); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// CheckLengths reports fields that exceed their length limit.
func CheckLengths(e models.EditableAccount) error {
	var errs []error

	if n := utf8.RuneCountInString(e.LabelsFormatted); n > models.MaxLabelsLength {
		errs = append(errs, fieldTooLong("labels", n, models.MaxLabelsLength))
	}
	if n := utf8.RuneCountInString(e.Login); n > models.MaxLoginLength {
		errs = append(errs, fieldTooLong("login", n, models.MaxLoginLength))
	}
	if e.Password != nil {
		if n := utf8.RuneCountInString(*e.Password); n > models.MaxPasswordLength {
			errs = append(errs, fieldTooLong("password", n, models.MaxPasswordLength))
		}
	}

	return errors.Join(errs...)
}

func fieldTooLong(field string, got, limit int) error {
	return fmt.Errorf("%s: %w (%d > %d)", field, ErrTooLong, got, limit)
}

// Messages flattens an error returned by Check into one message per
// problem, in the order they were found.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Messages(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
