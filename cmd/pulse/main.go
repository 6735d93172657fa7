package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teampulse/pulse/internal/storage"
	"github.com/teampulse/pulse/internal/storage/postgres"
)

var (
	workspace   string
	dbPath      string
	postgresDSN string
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Engineering health monitoring for development workspaces",
	Long: `Pulse analyzes a workspace's development activity and raises alerts
for process problems before they become delivery problems.

It runs a battery of heuristic rules over version-control and
communication events: inactive branches, stale pull requests, assigned
issues with no commits, blocker clusters, work-in-progress overload,
change-coupling cycles, concurrency hotspots, and knowledge silos.
Alerts are deduplicated, and unresolved critical alerts escalate.`,
}

// openStore picks the backend: an explicit Postgres DSN wins, otherwise
// SQLite at the given (or default) path.
func openStore(ctx context.Context) (storage.Storage, error) {
	dsn := postgresDSN
	if dsn == "" {
		dsn = os.Getenv("PULSE_POSTGRES_DSN")
	}
	if dsn != "" {
		return postgres.NewFromDSN(ctx, dsn, nil)
	}

	path := dbPath
	if path == "" {
		path = os.Getenv("PULSE_DB")
	}
	return storage.NewStorage(ctx, &storage.Config{Path: path})
}

func requireWorkspace() {
	if workspace == "" {
		fmt.Fprintf(os.Stderr, "Error: --workspace is required\n")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace to operate on")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default .pulse/pulse.db)")
	rootCmd.PersistentFlags().StringVar(&postgresDSN, "postgres", "", "PostgreSQL connection string (overrides --db)")
}

func main() {
	// Optional .env for PULSE_DB / PULSE_POSTGRES_DSN
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
