package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/maps-scraper/internal/entity"
	"go.uber.org/zap"
)

type stubLifecycle struct {
	initErr    error
	restartErr error
	inits      int
	restarts   int
	closed     bool
}

func (s *stubLifecycle) Init(context.Context) error {
	s.inits++
	return s.initErr
}

func (s *stubLifecycle) Restart(context.Context) error {
	s.restarts++
	return s.restartErr
}

func (s *stubLifecycle) Close() { s.closed = true }

// stubScraper fails every query whose text is listed in fail.
type stubScraper struct {
	fail    map[string]bool
	scraped []string
}

func (s *stubScraper) Scrape(_ context.Context, q entity.Query) (ScrapeResult, error) {
	s.scraped = append(s.scraped, q.Text)
	if s.fail[q.Text] {
		return ScrapeResult{Attempts: 4}, ErrRetriesExhausted
	}
	return ScrapeResult{Attempts: 1, Batch: entity.ResultBatch{Listings: make([]entity.Listing, 3)}}, nil
}

type stubFlusher struct{ calls int }

func (f *stubFlusher) Flush(context.Context) (int, error) {
	f.calls++
	return 0, nil
}

func newTestRunner(session SessionLifecycle, scraper QueryScraper, flusher PendingFlusher) (*Runner, *RunTracker) {
	tracker := NewRunTracker()
	r := NewRunner(session, scraper, flusher, tracker, 0, 0, zap.NewNop())
	r.newID = func() string { return "run-1" }
	return r, tracker
}

var testQueries = []entity.Query{{Text: "a", Category: "ca"}, {Text: "b", Category: "cb"}, {Text: "c", Category: "cc"}}

func TestRunner_PartialSuccess(t *testing.T) {
	session := &stubLifecycle{}
	scraper := &stubScraper{fail: map[string]bool{"b": true}}
	flusher := &stubFlusher{}
	r, tracker := newTestRunner(session, scraper, flusher)

	require.NoError(t, r.Run(context.Background(), testQueries))

	assert.Equal(t, []string{"a", "b", "c"}, scraper.scraped)
	assert.Equal(t, 1, session.inits)
	assert.Equal(t, 2, session.restarts)
	assert.True(t, session.closed)
	assert.Equal(t, 2, flusher.calls)

	out := tracker.Outcomes()
	require.Len(t, out, 3)
	assert.Equal(t, entity.QuerySucceeded, out[0].Status)
	assert.Equal(t, 3, out[0].Listings)
	assert.Equal(t, entity.QueryFailed, out[1].Status)
	assert.Equal(t, 4, out[1].Attempts)
	assert.NotEmpty(t, out[1].Err)
	assert.Equal(t, "run-1", out[2].RunID)
	assert.NotNil(t, out[2].FinishedAt)
}

func TestRunner_AllFailed(t *testing.T) {
	scraper := &stubScraper{fail: map[string]bool{"a": true, "b": true, "c": true}}
	r, _ := newTestRunner(&stubLifecycle{}, scraper, nil)

	err := r.Run(context.Background(), testQueries)
	assert.ErrorIs(t, err, ErrAllQueriesFailed)
}

func TestRunner_SessionFailureFailsOnlyThatQuery(t *testing.T) {
	session := &stubLifecycle{initErr: ErrSessionInit}
	scraper := &stubScraper{}
	r, tracker := newTestRunner(session, scraper, nil)

	require.NoError(t, r.Run(context.Background(), testQueries))
	assert.Equal(t, []string{"b", "c"}, scraper.scraped)
	assert.Equal(t, entity.QueryFailed, tracker.Outcomes()[0].Status)
}

func TestRunner_NoQueries(t *testing.T) {
	r, _ := newTestRunner(&stubLifecycle{}, &stubScraper{}, nil)
	assert.ErrorIs(t, r.Run(context.Background(), nil), ErrNoQueries)
}

func TestRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scraper := &stubScraper{}
	r, _ := newTestRunner(&stubLifecycle{}, scraper, nil)

	err := r.Run(ctx, testQueries)
	assert.ErrorIs(t, err, ErrAllQueriesFailed)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, scraper.scraped)
}
