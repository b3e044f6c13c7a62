package response

import (
	"time"

	"github.com/user/maps-scraper/internal/entity"
)

// RunResponse is a DTO for one query outcome, mirroring entity.QueryOutcome
type RunResponse struct {
	RunID      string     `json:"run_id"`
	Query      string     `json:"query"`
	Category   string     `json:"category"`
	Status     string     `json:"status"` // "running", "succeeded", "failed"
	Attempts   int        `json:"attempts"`
	Listings   int        `json:"listings"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

type CategoriesResponse struct {
	Categories []entity.CategoryCount `json:"categories"`
	Total      int64                  `json:"total"`
}

func NewRunResponse(o entity.QueryOutcome) RunResponse {
	return RunResponse{
		RunID:      o.RunID,
		Query:      o.Query.Text,
		Category:   o.Query.Category,
		Status:     string(o.Status),
		Attempts:   o.Attempts,
		Listings:   o.Listings,
		Error:      o.Err,
		StartedAt:  o.StartedAt,
		FinishedAt: o.FinishedAt,
	}
}
