package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

type SessionLifecycle interface {
	Init(ctx context.Context) error
	Restart(ctx context.Context) error
	Close()
}

type QueryScraper interface {
	Scrape(ctx context.Context, q entity.Query) (ScrapeResult, error)
}

type PendingFlusher interface {
	Flush(ctx context.Context) (int, error)
}

// Runner drives every configured query through one browser session, one at
// a time, with a randomized pause between queries.
type Runner struct {
	session  SessionLifecycle
	scraper  QueryScraper
	flusher  PendingFlusher
	tracker  *RunTracker
	pauseMin time.Duration
	pauseMax time.Duration
	logger   *zap.Logger
	sleep    sleepFunc
	jitter   jitterFunc
	newID    func() string
}

func NewRunner(
	session SessionLifecycle,
	scraper QueryScraper,
	flusher PendingFlusher,
	tracker *RunTracker,
	pauseMin, pauseMax time.Duration,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		session:  session,
		scraper:  scraper,
		flusher:  flusher,
		tracker:  tracker,
		pauseMin: pauseMin,
		pauseMax: pauseMax,
		logger:   logger,
		sleep:    sleepCtx,
		jitter:   uniformJitter,
		newID:    uuid.NewString,
	}
}

// Run returns nil when at least one query succeeded.
func (r *Runner) Run(ctx context.Context, queries []entity.Query) error {
	if len(queries) == 0 {
		return ErrNoQueries
	}
	runID := r.newID()
	log := r.logger.With(zap.String("run_id", runID))
	log.Info("run started", zap.Int("queries", len(queries)))

	r.flush(ctx, log)
	defer r.session.Close()

	succeeded := 0
	for i, q := range queries {
		if ctx.Err() != nil {
			break
		}
		var serr error
		if i == 0 {
			serr = r.session.Init(ctx)
		} else {
			if err := r.sleep(ctx, r.jitter(r.pauseMin, r.pauseMax)); err != nil {
				break
			}
			serr = r.session.Restart(ctx)
		}

		idx := r.tracker.Start(runID, q)
		if serr != nil {
			log.Error("browser session unavailable", zap.String("query", q.Text), zap.Error(serr))
			r.tracker.Finish(idx, 0, 0, serr)
			metrics.QueriesTotal.WithLabelValues(string(entity.QueryFailed)).Inc()
			continue
		}

		start := time.Now()
		res, err := r.scraper.Scrape(ctx, q)
		metrics.QueryDuration.Observe(time.Since(start).Seconds())
		r.tracker.Finish(idx, res.Attempts, len(res.Batch.Listings), err)
		if err != nil {
			metrics.QueriesTotal.WithLabelValues(string(entity.QueryFailed)).Inc()
			continue
		}
		metrics.QueriesTotal.WithLabelValues(string(entity.QuerySucceeded)).Inc()
		succeeded++
	}

	r.flush(context.WithoutCancel(ctx), log)
	log.Info("run finished", zap.Int("succeeded", succeeded), zap.Int("queries", len(queries)))

	if succeeded == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAllQueriesFailed, err)
		}
		return ErrAllQueriesFailed
	}
	return nil
}

func (r *Runner) flush(ctx context.Context, log *zap.Logger) {
	if r.flusher == nil {
		return
	}
	if _, err := r.flusher.Flush(ctx); err != nil {
		log.Warn("flushing pending writes", zap.Error(err))
	}
}
