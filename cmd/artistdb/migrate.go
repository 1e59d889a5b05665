package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/totegamma/artistdb/internal/infra/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := database.Migrate(db); err != nil {
				return errors.Wrap(err, "failed to migrate database")
			}
			cmd.Println("database schema is up to date")
			return nil
		},
	}
}
