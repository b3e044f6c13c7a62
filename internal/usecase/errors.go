package usecase

import "errors"

var (
	ErrSearchFailed     = errors.New("search failed")
	ErrTooFewItems      = errors.New("too few result items loaded")
	ErrRetriesExhausted = errors.New("retry budget exhausted")
	ErrSessionInit      = errors.New("browser session could not be started")
	ErrNoQueries        = errors.New("no queries configured")
	ErrAllQueriesFailed = errors.New("every query failed")
)
