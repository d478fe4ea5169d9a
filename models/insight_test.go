package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsightNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           Insight
		wantCategory string
		wantImpact   string
	}{
		{
			name:         "valid values pass through",
			in:           Insight{Category: "traffic", Impact: "high"},
			wantCategory: "traffic",
			wantImpact:   "high",
		},
		{
			name:         "unknown category becomes other",
			in:           Insight{Category: "seo wizardry", Impact: "low"},
			wantCategory: "other",
			wantImpact:   "low",
		},
		{
			name:         "unknown impact becomes medium",
			in:           Insight{Category: "conversion", Impact: "catastrophic"},
			wantCategory: "conversion",
			wantImpact:   "medium",
		},
		{
			name:         "empty everything",
			in:           Insight{},
			wantCategory: "other",
			wantImpact:   "medium",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins := tt.in
			ins.Normalize()
			assert.Equal(t, tt.wantCategory, ins.Category)
			assert.Equal(t, tt.wantImpact, ins.Impact)
			assert.NotNil(t, ins.Recommendations, "recommendations never serialize as null")
		})
	}
}
