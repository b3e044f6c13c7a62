package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func flushCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Retry sink writes that failed in earlier runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *cfgPath, func(ctx context.Context, a *app) error {
				n, err := a.emitter.Flush(ctx)
				if err != nil {
					return err
				}
				a.logger.Info("flush finished", zap.Int("delivered", n))
				return nil
			})
		},
	}
}
