package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

// Emitter fans every write out to all sinks. A sink that fails gets its
// copy parked on the pending queue for a later Flush.
type Emitter struct {
	sinks   map[string]repository.Sink
	order   []string
	pending repository.PendingQueue
	logger  *zap.Logger
	now     func() time.Time
}

func NewEmitter(sinks []repository.Sink, pending repository.PendingQueue, logger *zap.Logger) *Emitter {
	e := &Emitter{
		sinks:   make(map[string]repository.Sink, len(sinks)),
		pending: pending,
		logger:  logger,
		now:     time.Now,
	}
	for _, s := range sinks {
		if _, dup := e.sinks[s.Name()]; !dup {
			e.order = append(e.order, s.Name())
		}
		e.sinks[s.Name()] = s
	}
	return e
}

// Emit writes rows to every sink. It returns an error only when a failed
// write could not be queued either.
func (e *Emitter) Emit(ctx context.Context, target string, columns []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	var errs []error
	for _, name := range e.order {
		err := e.sinks[name].Write(ctx, target, columns, rows)
		if err == nil {
			metrics.SinkWritesTotal.WithLabelValues(name, "success").Inc()
			continue
		}
		metrics.SinkWritesTotal.WithLabelValues(name, "failure").Inc()
		e.logger.Error("sink write failed, queueing for retry",
			zap.String("sink", name),
			zap.String("target", target),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		pw := entity.PendingWrite{Sink: name, Target: target, Columns: columns, Rows: rows, FailedAt: e.now()}
		if qerr := e.pending.Push(ctx, pw); qerr != nil {
			errs = append(errs, fmt.Errorf("queue pending write for %s: %w", name, qerr))
		}
	}
	return errors.Join(errs...)
}

// Flush replays queued writes in arrival order and returns how many were
// delivered. It stops at the first write that fails again, putting it back
// at the head. Writes for sinks not configured in this process stay queued.
func (e *Emitter) Flush(ctx context.Context) (int, error) {
	size, err := e.pending.Size(ctx)
	if err != nil {
		return 0, fmt.Errorf("pending queue size: %w", err)
	}

	delivered, kept := 0, 0
	defer func() {
		if left, err := e.pending.Size(ctx); err == nil {
			metrics.PendingBatches.Set(float64(left))
		}
	}()

	for i := int64(0); i < size; i++ {
		pw, err := e.pending.Pop(ctx)
		if errors.Is(err, repository.ErrQueueEmpty) {
			break
		}
		if errors.Is(err, repository.ErrUndecodable) {
			e.logger.Error("skipping undecodable pending write", zap.Error(err))
			continue
		}
		if err != nil {
			return delivered, fmt.Errorf("pop pending write: %w", err)
		}

		sink, ok := e.sinks[pw.Sink]
		if !ok {
			if perr := e.pending.Push(ctx, pw); perr != nil {
				return delivered, fmt.Errorf("keep pending write for %s: %w", pw.Sink, perr)
			}
			kept++
			continue
		}
		if err := sink.Write(ctx, pw.Target, pw.Columns, pw.Rows); err != nil {
			metrics.SinkWritesTotal.WithLabelValues(pw.Sink, "failure").Inc()
			if perr := e.pending.Requeue(ctx, pw); perr != nil {
				return delivered, fmt.Errorf("requeue pending write for %s: %w", pw.Sink, perr)
			}
			e.logger.Warn("pending write still failing", zap.String("sink", pw.Sink), zap.Error(err))
			return delivered, nil
		}
		metrics.SinkWritesTotal.WithLabelValues(pw.Sink, "success").Inc()
		delivered++
	}

	if kept > 0 {
		e.logger.Warn("pending writes kept for unconfigured sinks", zap.Int("kept", kept))
	}
	if delivered > 0 {
		e.logger.Info("pending writes flushed", zap.Int("delivered", delivered))
	}
	return delivered, nil
}
