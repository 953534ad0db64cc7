package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fishing-backend/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if databaseURL == "" {
				return errors.New("no database: set DATABASE_URL or pass --database-url")
			}
			if err := database.RunMigrations(databaseURL); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Database migrations applied")
			return nil
		},
	}
}
