package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/security"
	ucAuth "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/auth"
)

// createAdminCmd bootstraps administrator accounts. The public register
// route only creates administrators for an authenticated administrator.
func createAdminCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account (password read from ADMIN_PASSWORD)",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("ADMIN_PASSWORD")
			if email == "" || password == "" {
				return errors.New("--email and ADMIN_PASSWORD are required")
			}

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

			register := ucAuth.NewRegister(
				repository.NewUserGormRepository(db),
				security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
				notification.NewService(db, log),
				nil,
				nil,
			)

			session, err := register.Execute(cmd.Context(), ucAuth.RegisterInput{
				Name:      name,
				Email:     email,
				Password:  password,
				Role:      models.RoleAdministrator,
				ActorRole: models.RoleAdministrator,
			})
			if err != nil {
				log.Error().Err(err).Str("email", email).Msg("create admin failed")
				return err
			}

			log.Info().Uint("user_id", session.User.ID).Str("email", session.User.Email).Msg("administrator created")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "administrator e-mail")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the e-mail local part)")

	return cmd
}
