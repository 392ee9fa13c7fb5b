package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/config"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/orchestrator"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the long-lived analysis engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			orch := orchestrator.NewOrchestrator(cfg)
			if err := orch.Start(); err != nil {
				return err
			}
			defer orch.Stop()

			orch.StartCapture()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := orch.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
