package main

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fishing-backend/internal/database"
	"fishing-backend/internal/repository"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "fishctl",
	Short: "fishctl - operator tooling for the fishing backend",
	Long:  "fishctl applies database migrations and triages fisher feedback directly against PostgreSQL.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if databaseURL == "" {
			godotenv.Load()
			databaseURL = os.Getenv("DATABASE_URL")
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default $DATABASE_URL)")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newFeedbackCmd())
	rootCmd.AddCommand(newFisherCmd())
}

// openStore connects to the database named by --database-url. The caller
// closes the returned pool.
func openStore(ctx context.Context) (*repository.PostgresStore, *pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, nil, errors.New("no database: set DATABASE_URL or pass --database-url")
	}
	pool, err := database.NewPostgresPool(databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repository.NewPostgresStore(pool), pool, nil
}
