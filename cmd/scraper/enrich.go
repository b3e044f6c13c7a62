package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/maps-scraper/internal/adapter/csvfile"
	"github.com/user/maps-scraper/internal/adapter/gormstore"
	"github.com/user/maps-scraper/internal/repository"
	"github.com/user/maps-scraper/internal/usecase"
	"go.uber.org/zap"
)

func enrichCMD(cfgPath *string) *cobra.Command {
	var revisit bool

	var enrich = &cobra.Command{
		Use:       "enrich {contacts|reviews}",
		Short:     "Visit venue pages and collect contacts or reviews",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"contacts", "reviews"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *cfgPath, func(ctx context.Context, a *app) error {
				return a.enrich(ctx, args[0], revisit)
			})
		},
	}
	enrich.Flags().BoolVar(&revisit, "revisit", false, "ignore links enriched within enrich.visited_ttl")

	return enrich
}

func (a *app) enrich(ctx context.Context, name string, revisit bool) error {
	cfg := a.cfg

	var section usecase.Section
	switch name {
	case "contacts":
		section = usecase.NewContactsSection(a.accessor, usecase.DefaultContactSelectors(), cfg.Browser.FindTimeout)
	case "reviews":
		opts := usecase.DefaultReviewsOptions(cfg.ReviewsPerCategory, cfg.Browser.FindTimeout)
		opts.FilterAttempts = cfg.Enrich.FilterAttempts
		opts.ScrollAttempts = cfg.Enrich.ScrollAttempts
		opts.ScrollPause = cfg.Enrich.ScrollPause
		section = usecase.NewReviewsSection(a.accessor, usecase.DefaultReviewSelectors(), opts, a.logger)
	default:
		return fmt.Errorf("unknown section %q", name)
	}

	source, err := a.linkSource()
	if err != nil {
		return err
	}
	links, err := source.Links(ctx)
	if err != nil {
		return fmt.Errorf("load links: %w", err)
	}
	a.logger.Info("starting enrichment", zap.String("section", name), zap.Int("links", len(links)))

	a.serveStatus(ctx)
	enricher := usecase.NewDetailEnricher(a.session, section, a.visited(name), a.emitter, usecase.EnricherOptions{
		PagePause:  cfg.Enrich.PagePause,
		VisitedTTL: cfg.Enrich.VisitedTTL,
		Revisit:    revisit,
	}, a.logger)

	stats, err := enricher.Enrich(ctx, links)
	a.logger.Info("enrichment finished",
		zap.String("section", name),
		zap.Int("visited", stats.Visited),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	if _, ferr := a.emitter.Flush(context.WithoutCancel(ctx)); ferr != nil {
		a.logger.Warn("flushing pending writes", zap.Error(ferr))
	}
	return err
}

func (a *app) linkSource() (repository.LinkSource, error) {
	if a.cfg.Enrich.LinksFrom == "postgres" {
		if a.gormDB == nil {
			return nil, fmt.Errorf("enrich.links_from is postgres but postgres.url is empty")
		}
		return gormstore.NewListingStore(a.gormDB, a.cfg.Output.Table), nil
	}
	return csvfile.NewLinkReader(a.cfg.Output.CSVPath), nil
}
