package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Migrate flags
	reset bool
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create the users, posts and comments tables if they do not exist.

Examples:
  blog migrate                     # Create missing tables
  blog migrate --reset             # Also delete every row
  blog migrate --db-driver postgres --db postgres://localhost/blog`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&reset, "reset", false, "Delete all users, posts and comments")
}

func runMigrate(ctx context.Context) error {
	// Open creates the tables
	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if reset {
		if err := store.Truncate(ctx); err != nil {
			return err
		}
		fmt.Printf("Reset %s database\n", cfg.DBDriver)
		return nil
	}
	fmt.Printf("Schema ready on %s\n", cfg.DBDriver)
	return nil
}
