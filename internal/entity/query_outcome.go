package entity

import "time"

type QueryStatus string

const (
	QueryPending   QueryStatus = "pending"
	QueryRunning   QueryStatus = "running"
	QuerySucceeded QueryStatus = "succeeded"
	QueryFailed    QueryStatus = "failed"
)

// QueryOutcome records how one query ended within a run.
type QueryOutcome struct {
	RunID      string
	Query      Query
	Status     QueryStatus
	Attempts   int
	Listings   int
	Err        string
	StartedAt  time.Time
	FinishedAt *time.Time
}
