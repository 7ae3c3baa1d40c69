package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/eventus-be/internal/auth"
	"github.com/hongminglow/eventus-be/internal/config"
	"github.com/hongminglow/eventus-be/internal/seed"
	"github.com/hongminglow/eventus-be/internal/storage/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Wipe the database and load demo accounts and events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.StorageDriver != config.DriverPostgres {
			return fmt.Errorf("seed requires STORAGE_DRIVER=%s", config.DriverPostgres)
		}
		logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

		store, err := postgres.NewStore(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		defer store.Close()

		res, err := seed.Run(cmd.Context(), store, auth.NewHasher(cfg.BcryptCost), cfg.AdminEmail, cfg.AdminPassword, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users and %d events\nadmin email: %s\n", len(res.Users), len(res.Events), cfg.AdminEmail)
		return nil
	},
}
