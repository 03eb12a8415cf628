// Package models defines the core data structures for account records.
package models

// AccountType identifies how an account authenticates.
type AccountType string

const (
	// TypeLDAP is an account authenticated against a directory. It never
	// carries a password.
	TypeLDAP AccountType = "LDAP"
	// TypeLocal is an account with a locally stored password.
	TypeLocal AccountType = "Local"
)

// AccountTypes lists the valid account types in display order.
var AccountTypes = []AccountType{TypeLDAP, TypeLocal}

// Field length limits, counted in runes.
const (
	// MaxLabelsLength bounds the formatted labels string.
	MaxLabelsLength = 50
	// MaxLoginLength bounds the login.
	MaxLoginLength = 100
	// MaxPasswordLength bounds the password.
	MaxPasswordLength = 100
)

// IsValid reports whether t is one of the known account types.
// The empty type (unset) is not valid.
func (t AccountType) IsValid() bool {
	return t == TypeLDAP || t == TypeLocal
}

// DisplayName returns a human label for t. Callers that localize the UI
// should map the tag themselves; the default is the tag itself.
func (t AccountType) DisplayName() string {
	if t == "" {
		return "-"
	}
	return string(t)
}

// LabelItem is a single free-text tag attached to an account.
type LabelItem struct {
	// Text is the label content.
	Text string `json:"text"`
}

// Account is the persisted form of an account record.
type Account struct {
	// ID is unique within the collection and assigned by the repository.
	ID string `json:"id"`
	// Labels holds the ordered tags of the account.
	Labels []LabelItem `json:"labels"`
	// Type selects how the account authenticates; empty means unset.
	Type AccountType `json:"type"`
	// Login is the account user name.
	Login string `json:"login"`
	// Password is nil for LDAP accounts and serialized as null.
	Password *string `json:"password"`

	// IsNew is true from creation until the first successful save.
	IsNew bool `json:"isNew"`
	// IsReadyForSave is asserted by the caller once validation has passed.
	IsReadyForSave bool `json:"isReadyForSave"`
	// IsSaved is true only after a successful save and cleared by updates.
	IsSaved bool `json:"isSaved"`
}

// EditableAccount is the transient form of an account used while it is
// being modified. LabelsFormatted is authoritative over Labels until the
// record is converted back into an Account.
type EditableAccount struct {
	Account
	// LabelsFormatted is the delimited-text projection of Labels.
	LabelsFormatted string `json:"labelsFormatted"`
}

// Clone returns a deep copy of a: the labels slice and the password are not
// shared with the original.
func (a Account) Clone() Account {
	out := a
	if a.Labels != nil {
		out.Labels = make([]LabelItem, len(a.Labels))
		copy(out.Labels, a.Labels)
	}
	out.Password = ClonePassword(a.Password)
	return out
}

// Clone returns a deep copy of e.
func (e EditableAccount) Clone() EditableAccount {
	out := e
	out.Account = e.Account.Clone()
	return out
}

// HasPassword reports whether the account carries a password value,
// including an empty one.
func (a Account) HasPassword() bool {
	return a.Password != nil
}

// PasswordValue returns the password or an empty string when absent.
func (a Account) PasswordValue() string {
	if a.Password == nil {
		return ""
	}
	return *a.Password
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}

// ClonePassword returns an independent copy of p, or nil.
func ClonePassword(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
