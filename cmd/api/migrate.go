package main

import (
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := logger.New(cfg.LogLevel, cfg.Env)

			db, err := dbpkg.NewDB(cfg, log)
			if err != nil {
				return err
			}
			defer dbpkg.Close(db)

			if err := dbpkg.Migrate(db); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}

			log.Info().Msg("migrations applied")
			return nil
		},
	}
}
