package client

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"github.com/lostprophetsco/saasoft-tz/internal/repository"
	"github.com/lostprophetsco/saasoft-tz/internal/service"
	"github.com/lostprophetsco/saasoft-tz/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubTerminal makes stdin look like a terminal and answers password reads
// with pw.
func stubTerminal(t *testing.T, pw string, err error) {
	t.Helper()
	origRead, origTerm := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
	isTerminal = func(int) bool { return true }
	t.Cleanup(func() {
		readPassword = origRead
		isTerminal = origTerm
	})
}

func noTerminal(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func newApp(t *testing.T, input string) (*App, *repository.AccountRepository, *bytes.Buffer) {
	t.Helper()
	repo := repository.NewAccountRepository(storage.NewMemoryMedium(), zap.NewNop())
	out := &bytes.Buffer{}
	return NewApp(service.NewAccountService(repo), strings.NewReader(input), out), repo, out
}

func TestPrompter_Line(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader("  hello \nlast"), out)

	got, err := p.Line("> ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = p.Line("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", got, "final line without newline")

	_, err = p.Line("> ")
	assert.Error(t, err)
	assert.Equal(t, "> > > ", out.String())
}

func TestPrompter_PasswordOnTerminal(t *testing.T) {
	stubTerminal(t, "s3cret", nil)
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader(""), out)

	got, err := p.Password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Equal(t, "Password: \n", out.String())
}

func TestPrompter_PasswordError(t *testing.T) {
	stubTerminal(t, "", errors.New("tty gone"))
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Password("Password: ")
	assert.EqualError(t, err, "tty gone")
}

func TestPrompter_PasswordFromPipe(t *testing.T) {
	noTerminal(t)
	p := NewPrompter(strings.NewReader("piped\n"), &bytes.Buffer{})

	got, err := p.Password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "piped", got)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want models.AccountType
		ok   bool
	}{
		{"LDAP", models.TypeLDAP, true},
		{"ldap", models.TypeLDAP, true},
		{"1", models.TypeLDAP, true},
		{"local", models.TypeLocal, true},
		{"2", models.TypeLocal, true},
		{"3", "", false},
		{"kerberos", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPrompter_TypeRetriesUntilValid(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader("\nnope\nlocal\n"), out)

	got, err := p.Type("")
	require.NoError(t, err)
	assert.Equal(t, models.TypeLocal, got)
	assert.Equal(t, 2, strings.Count(out.String(), "Unknown type."))
}

func TestPrompter_EditAccount(t *testing.T) {
	noTerminal(t)
	// labels, type, login, password
	p := NewPrompter(strings.NewReader("work; vpn\n2\nalice\npw\n"), &bytes.Buffer{})

	e, err := p.NewAccount()
	require.NoError(t, err)
	assert.Equal(t, "work; vpn", e.LabelsFormatted)
	assert.Equal(t, models.TypeLocal, e.Type)
	assert.Equal(t, "alice", e.Login)
	assert.Equal(t, "pw", e.PasswordValue())
	assert.True(t, e.IsNew)
}

func TestPrompter_EditAccountKeepsAndClears(t *testing.T) {
	noTerminal(t)
	start := models.EditableAccount{
		Account:         models.Account{ID: "1", Type: models.TypeLocal, Login: "alice", Password: models.StringPtr("pw")},
		LabelsFormatted: "a; b",
	}
	p := NewPrompter(strings.NewReader("-\n\n\n\n"), &bytes.Buffer{})

	e, err := p.EditAccount(start)
	require.NoError(t, err)
	assert.Equal(t, "", e.LabelsFormatted)
	assert.Equal(t, models.TypeLocal, e.Type)
	assert.Equal(t, "alice", e.Login)
	assert.Equal(t, "pw", e.PasswordValue())
}

func TestPrompter_EditAccountSwitchToLDAPDropsPassword(t *testing.T) {
	start := models.EditableAccount{
		Account: models.Account{ID: "1", Type: models.TypeLocal, Login: "alice", Password: models.StringPtr("pw")},
	}
	p := NewPrompter(strings.NewReader("\nLDAP\n\n"), &bytes.Buffer{})

	e, err := p.EditAccount(start)
	require.NoError(t, err)
	assert.Equal(t, models.TypeLDAP, e.Type)
	assert.Nil(t, e.Password)
}

func TestPrintAccounts(t *testing.T) {
	out := &bytes.Buffer{}
	PrintAccounts(out, []models.Account{
		{ID: "1", Type: models.TypeLocal, Login: "alice", Password: models.StringPtr("pw"),
			Labels: []models.LabelItem{{Text: "a"}, {Text: "b"}}, IsSaved: true},
		{ID: "2", Type: models.TypeLDAP, Login: "bob", IsNew: true},
	})

	s := out.String()
	assert.Contains(t, s, "ID  TYPE")
	assert.Contains(t, s, "********")
	assert.NotContains(t, s, "pw ")
	assert.Contains(t, s, "a; b")
	assert.Contains(t, s, "saved")
	assert.Contains(t, s, "new")
	assert.Contains(t, s, "Total: 2 account(s)")

	out.Reset()
	PrintAccounts(out, nil)
	assert.Equal(t, "No accounts.\n", out.String())
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "saved", Status(models.Account{IsSaved: true}))
	assert.Equal(t, "new", Status(models.Account{IsNew: true}))
	assert.Equal(t, "modified", Status(models.Account{}))
}

func TestApp_CreateSavesValidAccount(t *testing.T) {
	app, repo, out := newApp(t, "")

	err := app.Create(context.Background(), models.EditableAccount{
		Account: models.Account{Type: models.TypeLDAP, Login: "bob"},
	})
	require.NoError(t, err)

	acc, ok := repo.Get("1")
	require.True(t, ok)
	assert.True(t, acc.IsSaved)
	assert.Contains(t, out.String(), "Account 1 saved.")
}

func TestApp_CreateKeepsInvalidAccountUnsaved(t *testing.T) {
	app, repo, out := newApp(t, "")

	err := app.Create(context.Background(), models.EditableAccount{
		Account: models.Account{Type: models.TypeLocal, Login: "alice"},
	})
	require.NoError(t, err)

	acc, ok := repo.Get("1")
	require.True(t, ok)
	assert.False(t, acc.IsSaved)
	assert.True(t, acc.IsNew)
	assert.Contains(t, out.String(), "Account 1 not saved:")
	assert.Contains(t, out.String(), "password is required for local accounts")
}

func TestApp_SaveReturnsValidationError(t *testing.T) {
	app, repo, _ := newApp(t, "")
	repo.Add(context.Background(), models.Account{Type: models.TypeLocal, Login: "alice"})

	err := app.Save(context.Background(), "1")
	var notSaveable *service.NotSaveableError
	assert.ErrorAs(t, err, &notSaveable)
}

func TestApp_DeleteUnknown(t *testing.T) {
	app, _, _ := newApp(t, "")
	assert.ErrorIs(t, app.Delete(context.Background(), "7"), service.ErrNotFound)
}

func TestApp_ShowMasksPassword(t *testing.T) {
	app, repo, out := newApp(t, "")
	repo.Add(context.Background(), models.Account{Type: models.TypeLocal, Login: "alice", Password: models.StringPtr("pw")})

	require.NoError(t, app.Show("1"))
	assert.Contains(t, out.String(), `"password": "********"`)
}

func TestShell_Session(t *testing.T) {
	noTerminal(t)
	input := strings.Join([]string{
		"help",
		"add",
		"work", "Local", "alice", "pw",
		"list",
		"type 1 LDAP",
		"saved",
		"save 1",
		"edit 1",
		"", "", "alice2",
		"show",
		"bogus",
		"delete 1",
		"exit",
	}, "\n") + "\n"
	app, repo, out := newApp(t, input)

	require.NoError(t, app.Shell(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Available commands:")
	assert.Contains(t, s, "Account 1 added.")
	assert.Contains(t, s, "Account 1 is now LDAP.")
	assert.Contains(t, s, "Account 1 updated.")
	assert.Contains(t, s, "Error: usage: show <id>")
	assert.Contains(t, s, `Error: unknown command "bogus"`)
	assert.Contains(t, s, "Account 1 deleted.")
	assert.Contains(t, s, "Bye")
	assert.Empty(t, repo.Accounts())
}

func TestShell_EndOfInput(t *testing.T) {
	app, _, out := newApp(t, "list\n")
	require.NoError(t, app.Shell(context.Background()))
	assert.Contains(t, out.String(), "No accounts.")
}
