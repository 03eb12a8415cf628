// Package labels converts between structured label lists and the
// semicolon-delimited text users edit.
//
// The codec does no escaping: a label whose text contains ';' is split on
// the next Parse. Parse(Format(x)) equals x for labels without ';' and
// without surrounding whitespace; from the second round-trip on it is
// always stable.
package labels

import (
	"strings"

	"github.com/samber/lo"

	"github.com/lostprophetsco/saasoft-tz/internal/models"
)

// Separator splits labels when parsing.
const Separator = ";"

// Delimiter joins labels when formatting.
const Delimiter = Separator + " "

// Format joins the label texts with "; ".
func Format(items []models.LabelItem) string {
	return strings.Join(lo.Map(items, func(item models.LabelItem, _ int) string {
		return item.Text
	}), Delimiter)
}

// Parse splits text on ';', trims every segment and drops empty ones.
// Blank input yields an empty, non-nil slice.
func Parse(text string) []models.LabelItem {
	if strings.TrimSpace(text) == "" {
		return []models.LabelItem{}
	}

	parts := lo.FilterMap(strings.Split(text, Separator), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})

	return lo.Map(parts, func(part string, _ int) models.LabelItem {
		return models.LabelItem{Text: part}
	})
}
