package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lostprophetsco/saasoft-tz/internal/labels"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
)

const passwordMask = "********"

// PrintAccounts writes accounts as a table. Passwords are masked.
func PrintAccounts(out io.Writer, accounts []models.Account) {
	if len(accounts) == 0 {
		fmt.Fprintln(out, "No accounts.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTYPE\tLOGIN\tPASSWORD\tLABELS\tSTATUS")
	fmt.Fprintln(w, "--\t----\t-----\t--------\t------\t------")
	for _, a := range accounts {
		password := "-"
		if a.PasswordValue() != "" {
			password = passwordMask
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.Type.DisplayName(),
			a.Login,
			password,
			labels.Format(a.Labels),
			Status(a),
		)
	}
	w.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
	fmt.Fprintf(out, "Total: %d account(s)\n", len(accounts))
}

// Status summarizes the status flags of a for display.
func Status(a models.Account) string {
	switch {
	case a.IsSaved:
		return "saved"
	case a.IsNew:
		return "new"
	default:
		return "modified"
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
