package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/maps-scraper/internal/adapter/postgres"
	"github.com/user/maps-scraper/pkg/config"
)

func migrateCMD(cfgPath *string) *cobra.Command {
	var direction string
	var steps int

	var migrate = &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres not configured (postgres.url)")
			}
			return postgres.Migrate(cfg.Postgres.URL, direction, steps)
		},
	}
	migrate.Flags().StringVar(&direction, "direction", "up", "up or down")
	migrate.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	return migrate
}
