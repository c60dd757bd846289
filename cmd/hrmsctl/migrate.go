package main

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrms-lite/internal/config"
	"github.com/cmlabs-hris/hrms-lite/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-lite/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.envFiles()...)
			if err != nil {
				return err
			}
			db, err := database.NewPostgreSQLDB(cmd.Context(), cfg.DatabaseURL(), database.PoolOptions{MaxConns: 1, MinConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := db.Migrate(cmd.Context(), migrations.FS)
			if err != nil {
				return err
			}
			a.logger.Debug("migrations applied", slog.Any("files", applied))
			for _, name := range applied {
				fmt.Fprintln(a.stdout, "applied", name)
			}
			return nil
		},
	}
}
