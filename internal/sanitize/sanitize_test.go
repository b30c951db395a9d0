package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "job title",
			input: "Contact [insert job title] for details.",
			want:  "Contact HR Representative for details.",
		},
		{
			name:  "company name case insensitive",
			input: "Employees of [THE COMPANY] must comply.",
			want:  "Employees of the company must comply.",
		},
		{
			name:  "logo removed",
			input: "[INSERT LOGO HERE]Sickness Policy",
			want:  "Sickness Policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestText_ContextualAmounts(t *testing.T) {
	got := Text("You receive [insert amount of days per calendar year] of paid leave.")
	assert.Equal(t, "You receive the approved number of days of paid leave.", got)

	got = Text("Pay is reduced to [insert amount] %.")
	assert.Equal(t, "Pay is reduced to the applicable percentage.", got)
}

func TestText_BracketedProseStripped(t *testing.T) {
	got := Text("[Provided the employee gives proper notice] leave may be extended.")
	assert.Equal(t, "Provided the employee gives proper notice leave may be extended.", got)
}

func TestText_ShortMarkersKept(t *testing.T) {
	assert.Equal(t, "See footnote [1].", Text("See footnote [1]."))
	assert.Equal(t, "Eligible for [SSP] payments.", Text("Eligible for [SSP] payments."))
}

func TestText_Idempotent(t *testing.T) {
	input := "Contact [insert job title] about [insert amount of weeks] leave at [the Company]."
	once := Text(input)
	assert.Equal(t, once, Text(once))
}

func TestText_Empty(t *testing.T) {
	assert.Equal(t, "", Text(""))
}
