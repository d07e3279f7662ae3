package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/domain/model"
)

func TestParse_ValidSubsets(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.ExtractedFields
	}{
		{
			name: "all fields",
			raw:  `{"company":"Acme","role":"SWE","status":"Offer","date":"2025-07-15"}`,
			want: model.ExtractedFields{Company: "Acme", Role: "SWE", Status: "offer", Date: "2025-07-15"},
		},
		{
			name: "company only",
			raw:  `{"company":"Acme"}`,
			want: model.ExtractedFields{Company: "Acme"},
		},
		{
			name: "status uppercase",
			raw:  `{"status":"INTERVIEW"}`,
			want: model.ExtractedFields{Status: "interview"},
		},
		{
			name: "empty object",
			raw:  `{}`,
		},
		{
			name: "wrong shapes stay empty",
			raw:  `{"company":42,"role":["SWE"],"status":null,"date":{"y":2025}}`,
		},
		{
			name: "free-form date kept verbatim",
			raw:  `{"date":"July 15th"}`,
			want: model.ExtractedFields{Date: "July 15th"},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"company\":\"Acme\",\"status\":\"Applied\"}\n```",
			want: model.ExtractedFields{Company: "Acme", Status: "applied"},
		},
		{
			name: "unknown status passes through lowercased",
			raw:  `{"status":"Pending Review"}`,
			want: model.ExtractedFields{Status: "pending review"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Unparseable(t *testing.T) {
	for _, raw := range []string{
		"",
		"Sorry, I can't read that screenshot.",
		`{"company": "Acme"`,
		`["company","Acme"]`,
		`"just a string"`,
		`null`,
		"```\nnot json\n```",
	} {
		t.Run(raw, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := Parse(raw)
				assert.ErrorIs(t, err, ErrUnparseableCompletion)
			})
		})
	}
}

func TestParseWithIssues_ReportsSchemaViolations(t *testing.T) {
	res, err := ParseWithIssues(`{"company":"","status":"Ghosted","date":"15/07/2025"}`)
	require.NoError(t, err)
	assert.Equal(t, "ghosted", res.Fields.Status)
	require.Len(t, res.Issues, 3)
	assert.Contains(t, res.Issues[0], "/company")
	assert.Contains(t, res.Issues[1], "/date")
	assert.Contains(t, res.Issues[2], "/status")

	clean, err := ParseWithIssues(`{"company":"Acme","status":"Offer","date":"2025-07-15"}`)
	require.NoError(t, err)
	assert.Empty(t, clean.Issues)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
