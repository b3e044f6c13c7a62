package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/maps-scraper/internal/adapter/chromedp_browser"
	"github.com/user/maps-scraper/internal/adapter/csvfile"
	"github.com/user/maps-scraper/internal/adapter/filesystem"
	"github.com/user/maps-scraper/internal/adapter/gormstore"
	"github.com/user/maps-scraper/internal/adapter/memory"
	"github.com/user/maps-scraper/internal/adapter/postgres"
	redis_adapter "github.com/user/maps-scraper/internal/adapter/redis"
	"github.com/user/maps-scraper/internal/adapter/s3store"
	"github.com/user/maps-scraper/internal/adapter/sqsqueue"
	"github.com/user/maps-scraper/internal/delivery/http/handler"
	"github.com/user/maps-scraper/internal/delivery/http/router"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/internal/usecase"
	"github.com/user/maps-scraper/pkg/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds every long-lived dependency of one CLI invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	session     *usecase.SessionManager
	accessor    *usecase.ElementAccessor
	diagnostics *usecase.Diagnostics
	emitter     *usecase.Emitter
	tracker     *usecase.RunTracker

	pool   *pgxpool.Pool
	gormDB *gorm.DB
	rdb    *redis.Client
	server *http.Server
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, tracker: usecase.NewRunTracker()}

	// --- Storage ---
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		db, err := gormstore.Open(cfg.Postgres.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open gorm: %w", err)
		}
		a.gormDB = db
		logger.Info("PostgreSQL connection pool established")
	}

	if cfg.Redis.Addr != "" {
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := a.rdb.Ping(ctx).Result(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("Redis connection established")
	}

	var awsCfg *aws.Config
	if cfg.SQS.QueueURL != "" || cfg.Diagnostics.S3Bucket != "" {
		c, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		awsCfg = &c
	}

	// --- Sinks ---
	sinks := []repository.Sink{csvfile.NewSink(map[string]string{
		usecase.TargetListings: cfg.Output.CSVPath,
		usecase.TargetContacts: cfg.Output.ContactsPath,
		usecase.TargetReviews:  cfg.Output.ReviewsPath,
	})}
	if a.pool != nil {
		sinks = append(sinks, postgres.NewSink(a.pool, map[string]postgres.Table{
			usecase.TargetListings: {Name: cfg.Output.Table},
			usecase.TargetContacts: {Name: cfg.Output.ContactsTable, Key: []string{"link"}},
			usecase.TargetReviews:  {Name: cfg.Output.ReviewsTable, Key: []string{"link"}},
		}))
	}
	if cfg.SQS.QueueURL != "" {
		sinks = append(sinks, sqsqueue.NewPublisher(sqs.NewFromConfig(*awsCfg), cfg.SQS.QueueURL))
	}

	var pending repository.PendingQueue = memory.NewPendingQueue()
	if a.rdb != nil {
		pending = redis_adapter.NewPendingQueue(a.rdb)
	}
	a.emitter = usecase.NewEmitter(sinks, pending, logger)

	var diagSink repository.DiagnosticsSink = filesystem.NewDiagnosticsSink(cfg.Diagnostics.Dir)
	if cfg.Diagnostics.S3Bucket != "" {
		diagSink = s3store.NewDiagnosticsSink(s3store.NewClient(*awsCfg), cfg.Diagnostics.S3Bucket, cfg.Diagnostics.S3Prefix)
	}
	a.diagnostics = usecase.NewDiagnostics(diagSink, logger)

	// --- Browser ---
	launcher := chromedp_browser.NewLauncher(chromedp_browser.Options{
		Headless:      cfg.Headless,
		UserAgent:     cfg.Browser.UserAgent,
		WindowWidth:   cfg.Browser.WindowWidth,
		WindowHeight:  cfg.Browser.WindowHeight,
		ActionTimeout: cfg.Browser.ActionTimeout,
	}, logger)
	a.session = usecase.NewSessionManager(launcher, cfg.Site.HomeURL, cfg.Controller.HomeSettle, logger)
	a.accessor = usecase.NewElementAccessor(a.session, cfg.Browser.FindAttempts, logger)

	return a, nil
}

func (a *app) visited(section string) repository.VisitedRepository {
	if a.rdb != nil {
		return redis_adapter.NewVisitedRepo(a.rdb, section)
	}
	return memory.NewVisitedRepo()
}

// serveStatus starts the status API in the background when http.addr is set.
func (a *app) serveStatus(ctx context.Context) {
	if a.cfg.HTTP.Addr == "" {
		return
	}
	var stats repository.ListingStats
	if a.gormDB != nil {
		stats = gormstore.NewListingStore(a.gormDB, a.cfg.Output.Table)
	}
	a.server = &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      router.New(handler.NewHandler(a.tracker, stats, a.logger), a.logger),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		a.logger.Info("Starting status server", zap.String("addr", a.cfg.HTTP.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("status server stopped", zap.Error(err))
		}
	}()
}

func (a *app) Close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Warn("status server shutdown", zap.Error(err))
		}
	}
	if a.session != nil {
		a.session.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
