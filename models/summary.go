package models

import "time"

// Summary is an LLM-written executive summary of a website's latest
// metrics. Generating a new one supersedes the old; only the latest is
// served.
type Summary struct {
	ID        int       `json:"id"`
	WebsiteID int       `json:"website_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
