package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Togather-Foundation/eventhub/internal/config"
	"github.com/Togather-Foundation/eventhub/internal/seed"
	"github.com/Togather-Foundation/eventhub/internal/storage/postgres"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample organizations, events and users",
		Long: `Load a small sample data set in a single transaction.

Running it against a database that already holds the sample organizations
is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := config.NewLogger(cfg.Logging)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pool, err := postgres.NewPool(ctx, cfg.Database.URL, 2)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo, err := postgres.NewRepository(pool)
			if err != nil {
				return err
			}

			summary, err := seed.Run(ctx, repo, 0, logger)
			if errors.Is(err, seed.ErrAlreadySeeded) {
				fmt.Fprintln(cmd.OutOrStdout(), "sample data already present, nothing to do")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d organizations, %d events, %d users\n",
				summary.Organizations, summary.Events, summary.Users)
			return nil
		},
	}
}
