package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/maps-scraper/pkg/config"
	"github.com/user/maps-scraper/pkg/logger"
	"github.com/user/maps-scraper/pkg/metrics"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCMD().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func rootCMD() *cobra.Command {
	var cfgPath string
	var query string

	var root = &cobra.Command{
		Use:           "maps-scraper",
		Short:         "Scrape business listings from the map service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfgPath, func(ctx context.Context, a *app) error {
				if query != "" {
					queries, err := config.ParseQueries(query)
					if err != nil {
						return err
					}
					a.cfg.Queries = a.cfg.Queries[:0]
					for _, q := range queries {
						a.cfg.Queries = append(a.cfg.Queries, queryFromMap(q))
					}
				}
				return a.run(ctx)
			})
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config.yaml)")
	root.Flags().StringVarP(&query, "query", "q", "", `run only these queries, "text|category;..."`)

	root.AddCommand(enrichCMD(&cfgPath), migrateCMD(&cfgPath), flushCMD(&cfgPath))
	return root
}

// withApp loads configuration, builds the logger and the application and
// runs fn. Errors are logged before being returned.
func withApp(ctx context.Context, cfgPath string, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.Init()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize", zap.Error(err))
		return err
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		log.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}
