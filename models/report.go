package models

import "time"

const (
	ReportStatusPending   = "pending"
	ReportStatusCompleted = "completed"
	ReportStatusFailed    = "failed"
)

// Report is an ad-hoc natural-language question answered asynchronously.
// The row exists (status pending) before generation starts; clients poll
// by id until the status is terminal.
type Report struct {
	ID          string     `json:"id"` // uuid
	WebsiteID   int        `json:"website_id"`
	Question    string     `json:"question"`
	Answer      string     `json:"answer,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CreateReportRequest struct {
	Question string `json:"question" binding:"required,min=5,max=1000"`
}
