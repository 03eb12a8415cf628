// Package form holds the pure transformations applied to account records
// while they are edited: creating blank or editable copies, switching the
// account type and converting back into the persisted shape.
//
// No function here mutates its input; every result is a fresh value.
package form

import (
	"github.com/google/uuid"

	"github.com/lostprophetsco/saasoft-tz/internal/labels"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
)

// newPlaceholderID returns a time-ordered token for records that have not
// been added to the repository yet. The repository assigns the final id.
func newPlaceholderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// CreateEmpty returns a blank, new, unsaved record with an unset type.
func CreateEmpty() models.EditableAccount {
	return models.EditableAccount{
		Account: models.Account{
			ID:             newPlaceholderID(),
			Labels:         []models.LabelItem{},
			Login:          "",
			Password:       nil,
			IsNew:          true,
			IsReadyForSave: false,
			IsSaved:        false,
		},
		LabelsFormatted: "",
	}
}

// CreateEditable copies a into an editable record and renders its labels.
func CreateEditable(a models.Account) models.EditableAccount {
	acc := a.Clone()
	return models.EditableAccount{
		Account:         acc,
		LabelsFormatted: labels.Format(acc.Labels),
	}
}

// ToAccount converts an editable record into its persisted shape.
// Labels are parsed from LabelsFormatted, not taken from e.Labels, and
// LDAP accounts always lose their password here.
func ToAccount(e models.EditableAccount) models.Account {
	acc := e.Account.Clone()
	acc.Labels = labels.Parse(e.LabelsFormatted)
	if acc.Type == models.TypeLDAP {
		acc.Password = nil
	}
	return acc
}

// ResetOnTypeChange returns a copy of e switched to newType. LDAP drops the
// password; Local turns an absent password into an empty one.
func ResetOnTypeChange(e models.EditableAccount, newType models.AccountType) models.EditableAccount {
	out := e.Clone()
	out.Type = newType

	switch newType {
	case models.TypeLDAP:
		out.Password = nil
	case models.TypeLocal:
		if out.Password == nil {
			out.Password = models.StringPtr("")
		}
	}
	return out
}

// PrepareForUpdate converts e like ToAccount and clears IsSaved and IsNew:
// an edited record is stale until it is saved again.
func PrepareForUpdate(e models.EditableAccount) models.Account {
	acc := ToAccount(e)
	acc.IsSaved = false
	acc.IsNew = false
	return acc
}
