package models

import "time"

// Insight categories and impact levels accepted from the LLM. Anything
// else gets normalized before persisting.
var (
	InsightCategories = map[string]bool{
		"traffic":    true,
		"engagement": true,
		"conversion": true,
		"content":    true,
		"audience":   true,
		"other":      true,
	}
	InsightImpacts = map[string]bool{
		"high":   true,
		"medium": true,
		"low":    true,
	}
)

type Insight struct {
	ID              int       `json:"id"`
	WebsiteID       int       `json:"website_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Impact          string    `json:"impact"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}

// Normalize clamps LLM-provided category/impact values into the accepted
// sets so storage never sees free-form strings.
func (i *Insight) Normalize() {
	if !InsightCategories[i.Category] {
		i.Category = "other"
	}
	if !InsightImpacts[i.Impact] {
		i.Impact = "medium"
	}
	if i.Recommendations == nil {
		i.Recommendations = []string{}
	}
}
