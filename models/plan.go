package models

import "time"

var PlanStatuses = map[string]bool{
	"draft":     true,
	"active":    true,
	"completed": true,
}

// PlanStep is one ordered step of an implementation plan. Steps are stored
// as a jsonb column, not their own table; they are only ever read and
// written as a unit with the plan.
type PlanStep struct {
	Order         int    `json:"order"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`       // high|medium|low
	Effort        string `json:"effort"`         // high|medium|low
	EstimatedTime string `json:"estimated_time"` // free-form, e.g. "2-3 days"
}

type Plan struct {
	ID         int        `json:"id"`
	WebsiteID  int        `json:"website_id"`
	Title      string     `json:"title"`
	Objective  string     `json:"objective"`
	Status     string     `json:"status"`
	InsightIDs []int      `json:"insight_ids"`
	Steps      []PlanStep `json:"steps"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreatePlanRequest struct {
	InsightIDs []int `json:"insight_ids" binding:"required,min=1"`
}

type UpdatePlanRequest struct {
	Status string `json:"status" binding:"required"`
}
