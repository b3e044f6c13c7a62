package main

import (
	"context"

	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/usecase"
	"go.uber.org/zap"
)

func (a *app) run(ctx context.Context) error {
	cfg := a.cfg
	search := usecase.NewSearchOrchestrator(
		a.session,
		a.accessor,
		usecase.DefaultSearchLocators(),
		usecase.DefaultSearchOptions(cfg.Site.MapURL, cfg.Browser.FindTimeout),
		a.diagnostics,
		a.logger,
	)
	sel := usecase.DefaultSearchLocators()
	loader := usecase.NewListLoader(sel.ResultItem, sel.ScrollContainer, usecase.LoaderOptions{
		Cap:          cfg.Loader.Cap,
		MaxStalls:    cfg.Loader.MaxStalls,
		ScrollStep:   cfg.Loader.ScrollStep,
		StepsPerPass: cfg.Loader.StepsPerPass,
		StepPause:    cfg.Loader.StepPause,
		PassPause:    cfg.Loader.PassPause,
	}, a.logger)
	controller := usecase.NewScrapeController(
		a.session,
		search,
		loader,
		usecase.NewRecordExtractor(usecase.DefaultFieldSelectors(), cfg.Site.BaseURL),
		a.emitter,
		a.diagnostics,
		sel.ResultItem,
		cfg.Controller.MinItems,
		cfg.MaxRetries,
		a.logger,
	)
	runner := usecase.NewRunner(
		a.session,
		controller,
		a.emitter,
		a.tracker,
		cfg.Controller.QueryPauseMin,
		cfg.Controller.QueryPauseMax,
		a.logger,
	)

	a.serveStatus(ctx)
	a.logger.Info("starting scrape", zap.Int("queries", len(cfg.Queries)))
	return runner.Run(ctx, cfg.Queries)
}

func queryFromMap(m map[string]string) entity.Query {
	return entity.Query{Text: m["text"], Category: m["category"]}
}
