package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare array",
			in:   `[{"a":1}]`,
			want: `[{"a":1}]`,
		},
		{
			name: "json code fence",
			in:   "```json\n[{\"a\":1}]\n```",
			want: `[{"a":1}]`,
		},
		{
			name: "plain code fence",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "leading prose",
			in:   "Here are your insights:\n[{\"a\":1}]",
			want: `[{"a":1}]`,
		},
		{
			name: "trailing prose",
			in:   `{"a":1} Let me know if you need more detail.`,
			want: `{"a":1}`,
		},
		{
			name:    "no json at all",
			in:      "I'm sorry, I can't help with that.",
			wantErr: true,
		},
		{
			name:    "unterminated",
			in:      `[{"a":1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInsights(t *testing.T) {
	content := "```json\n" + `[
		{"title": "Organic traffic is surging", "description": "Sessions from organic search grew 40%.", "category": "Traffic", "impact": "HIGH", "recommendations": ["Double down on the top landing pages", "Refresh stale posts"]},
		{"title": "", "description": "no title, dropped"},
		{"title": "Mobile bounce rate is climbing", "description": "Bounce rate on mobile rose to 61%.", "category": "engagement", "impact": "medium", "recommendations": ["Audit mobile page speed"]}
	]` + "\n```"

	insights, err := ParseInsights(content)
	require.NoError(t, err)
	require.Len(t, insights, 2)

	assert.Equal(t, "Organic traffic is surging", insights[0].Title)
	assert.Equal(t, "traffic", insights[0].Category, "category is lowercased")
	assert.Equal(t, "high", insights[0].Impact)
	assert.Len(t, insights[0].Recommendations, 2)

	assert.Equal(t, "Mobile bounce rate is climbing", insights[1].Title)
}

func TestParseInsightsRejectsEmpty(t *testing.T) {
	_, err := ParseInsights(`[]`)
	assert.Error(t, err)

	_, err = ParseInsights(`[{"title": "   "}]`)
	assert.Error(t, err)

	_, err = ParseInsights(`{"title": "an object, not an array"}`)
	assert.Error(t, err)
}

func TestParsePlan(t *testing.T) {
	content := `{
		"title": "Recover mobile engagement",
		"objective": "Cut mobile bounce rate below 50% within a quarter.",
		"steps": [
			{"order": 10, "title": "Audit page speed", "description": "Run Lighthouse on the top 10 pages.", "priority": "High", "effort": "low", "estimated_time": "2-3 days"},
			{"order": 3, "title": "", "description": "untitled, dropped"},
			{"order": 5, "title": "Fix layout shifts", "description": "Address CLS offenders.", "priority": "medium", "effort": "Medium", "estimated_time": "1 week"}
		]
	}`

	plan, err := ParsePlan(content)
	require.NoError(t, err)

	assert.Equal(t, "Recover mobile engagement", plan.Title)
	assert.Equal(t, "draft", plan.Status)
	require.Len(t, plan.Steps, 2)

	// Steps are renumbered sequentially regardless of the model's ordering.
	assert.Equal(t, 1, plan.Steps[0].Order)
	assert.Equal(t, 2, plan.Steps[1].Order)
	assert.Equal(t, "high", plan.Steps[0].Priority)
	assert.Equal(t, "medium", plan.Steps[1].Effort)
	assert.Equal(t, "2-3 days", plan.Steps[0].EstimatedTime)
}

func TestParsePlanRejectsIncomplete(t *testing.T) {
	_, err := ParsePlan(`{"title": "No steps", "steps": []}`)
	assert.Error(t, err)

	_, err = ParsePlan(`{"steps": [{"title": "No plan title"}]}`)
	assert.Error(t, err)

	_, err = ParsePlan(`not json`)
	assert.Error(t, err)
}
