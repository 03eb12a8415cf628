package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lostprophetsco/saasoft-tz/internal/models"
)

func items(texts ...string) []models.LabelItem {
	out := make([]models.LabelItem, 0, len(texts))
	for _, t := range texts {
		out = append(out, models.LabelItem{Text: t})
	}
	return out
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   []models.LabelItem
		want string
	}{
		{"nil", nil, ""},
		{"empty", items(), ""},
		{"single", items("work"), "work"},
		{"several", items("work", "vpn", "prod"), "work; vpn; prod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []models.LabelItem
	}{
		{"empty", "", items()},
		{"spaces", "   ", items()},
		{"only separators", ";;;", items()},
		{"separators and spaces", " ; ;  ;", items()},
		{"single", "work", items("work")},
		{"trims", "  work ;vpn  ", items("work", "vpn")},
		{"drops empty segments", "a;;b; ;c", items("a", "b", "c")},
		{"keeps inner spaces", "my label; other", items("my label", "other")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	in := items("alpha", "beta gamma", "δ")
	assert.Equal(t, in, Parse(Format(in)))
}

func TestRoundTrip_LossyButStable(t *testing.T) {
	in := items(" padded ", "a;b", "")

	once := Parse(Format(in))
	assert.Equal(t, items("padded", "a", "b"), once)

	twice := Parse(Format(once))
	assert.Equal(t, once, twice)
}
