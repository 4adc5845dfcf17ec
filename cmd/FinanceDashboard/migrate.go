package main

import (
	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.RequireDatabase(); err != nil {
				return err
			}
			dbService, err := database.NewDBService(cfg.DBDriver, cfg.DBConnectionString)
			if err != nil {
				return err
			}
			defer dbService.Close()

			if err := dbService.Migrate(cmd.Context()); err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())
			log.Info().Str("driver", string(dbService.Dialect)).Msg("Database is up to date")
			return nil
		},
	}
}
