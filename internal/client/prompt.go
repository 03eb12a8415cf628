// Package client implements the interactive terminal front end: prompts,
// the account table and the shell loop.
package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lostprophetsco/saasoft-tz/internal/form"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"golang.org/x/term"
)

// readPassword and isTerminal are seams for tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Prompter reads answers from in and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewPrompter returns a Prompter over in and out. Passwords are read without
// echo when stdin is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: int(os.Stdin.Fd())}
}

// Line prints prompt and reads one trimmed line. A final line without a
// trailing newline is accepted.
func (p *Prompter) Line(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prints prompt and reads a password, without echo on a terminal.
func (p *Prompter) Password(prompt string) (string, error) {
	if !isTerminal(p.fd) {
		return p.Line(prompt)
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Type asks for an account type, accepting the type name in any case or its
// position in models.AccountTypes. Empty input keeps current.
func (p *Prompter) Type(current models.AccountType) (models.AccountType, error) {
	names := make([]string, len(models.AccountTypes))
	for i, t := range models.AccountTypes {
		names[i] = fmt.Sprintf("%d) %s", i+1, t)
	}
	for {
		answer, err := p.Line(fmt.Sprintf("Type [%s] (%s): ", strings.Join(names, ", "), current.DisplayName()))
		if err != nil {
			return "", err
		}
		if answer == "" && current != "" {
			return current, nil
		}
		if t, ok := ParseType(answer); ok {
			return t, nil
		}
		fmt.Fprintln(p.out, "Unknown type.")
	}
}

// ParseType matches s against the account types by name, case-insensitive,
// or by 1-based position.
func ParseType(s string) (models.AccountType, bool) {
	for i, t := range models.AccountTypes {
		if strings.EqualFold(s, string(t)) || s == fmt.Sprint(i+1) {
			return t, true
		}
	}
	return "", false
}

// NewAccount walks the user through a fresh editable account.
func (p *Prompter) NewAccount() (models.EditableAccount, error) {
	return p.EditAccount(form.CreateEmpty())
}

// EditAccount prompts for every field of e, showing the current value.
// Empty input keeps a field; a single "-" clears the labels. Switching
// the type resets the password as the form controller does.
func (p *Prompter) EditAccount(e models.EditableAccount) (models.EditableAccount, error) {
	labels, err := p.Line(fmt.Sprintf("Labels, separated by ';' (%s): ", e.LabelsFormatted))
	if err != nil {
		return e, err
	}
	switch labels {
	case "":
	case "-":
		e.LabelsFormatted = ""
	default:
		e.LabelsFormatted = labels
	}

	t, err := p.Type(e.Type)
	if err != nil {
		return e, err
	}
	if t != e.Type {
		e = form.ResetOnTypeChange(e, t)
	}

	login, err := p.Line(fmt.Sprintf("Login (%s): ", e.Login))
	if err != nil {
		return e, err
	}
	if login != "" {
		e.Login = login
	}

	if e.Type == models.TypeLocal {
		hint := "empty"
		if e.PasswordValue() != "" {
			hint = "keep current"
		}
		pw, err := p.Password(fmt.Sprintf("Password (%s): ", hint))
		if err != nil {
			return e, err
		}
		if pw != "" {
			e.Password = models.StringPtr(pw)
		}
	}
	return e, nil
}
