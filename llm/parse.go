package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"insightboard/api/models"
)

// ExtractJSON pulls the JSON payload out of an LLM reply. Models wrap
// JSON in ```json fences or lead with prose no matter how firmly the
// system prompt forbids it, so this slices from the first opening bracket
// to its matching closer.
func ExtractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)

	// Strip markdown code fences.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return "", fmt.Errorf("no JSON found in response")
	}

	closer := byte(']')
	if s[start] == '{' {
		closer = '}'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", fmt.Errorf("unterminated JSON in response")
	}

	return s[start : end+1], nil
}

// insightPayload tolerates the field-name drift LLMs produce.
type insightPayload struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Impact          string   `json:"impact"`
	Recommendations []string `json:"recommendations"`
}

// ParseInsights decodes an insights response into model rows. Entries
// without a title are dropped; an empty result is an error so callers
// never persist a blank generation.
func ParseInsights(content string) ([]models.Insight, error) {
	payload, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var raw []insightPayload
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("insights JSON did not decode: %w", err)
	}

	var insights []models.Insight
	for _, p := range raw {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		insights = append(insights, models.Insight{
			Title:           strings.TrimSpace(p.Title),
			Description:     strings.TrimSpace(p.Description),
			Category:        strings.ToLower(strings.TrimSpace(p.Category)),
			Impact:          strings.ToLower(strings.TrimSpace(p.Impact)),
			Recommendations: p.Recommendations,
		})
	}

	if len(insights) == 0 {
		return nil, fmt.Errorf("insights response contained no usable entries")
	}
	return insights, nil
}

type planPayload struct {
	Title     string `json:"title"`
	Objective string `json:"objective"`
	Steps     []struct {
		Order         int    `json:"order"`
		Title         string `json:"title"`
		Description   string `json:"description"`
		Priority      string `json:"priority"`
		Effort        string `json:"effort"`
		EstimatedTime string `json:"estimated_time"`
	} `json:"steps"`
}

// ParsePlan decodes a plan response. Step order is renumbered
// sequentially regardless of what the model emitted, so storage always
// holds a clean 1..n sequence.
func ParsePlan(content string) (*models.Plan, error) {
	payload, err := ExtractJSON(content)
	if err != nil {
		return nil, err
	}

	var raw planPayload
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("plan JSON did not decode: %w", err)
	}

	if strings.TrimSpace(raw.Title) == "" || len(raw.Steps) == 0 {
		return nil, fmt.Errorf("plan response is missing a title or steps")
	}

	plan := &models.Plan{
		Title:     strings.TrimSpace(raw.Title),
		Objective: strings.TrimSpace(raw.Objective),
		Status:    "draft",
		Steps:     make([]models.PlanStep, 0, len(raw.Steps)),
	}
	for i, s := range raw.Steps {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		plan.Steps = append(plan.Steps, models.PlanStep{
			Order:         i + 1,
			Title:         strings.TrimSpace(s.Title),
			Description:   strings.TrimSpace(s.Description),
			Priority:      strings.ToLower(strings.TrimSpace(s.Priority)),
			Effort:        strings.ToLower(strings.TrimSpace(s.Effort)),
			EstimatedTime: strings.TrimSpace(s.EstimatedTime),
		})
	}

	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("plan response contained no usable steps")
	}
	return plan, nil
}
