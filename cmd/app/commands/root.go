package commands

import (
	"context"
	"fmt"
	"os"

	"blog-platform/internal/config"
	"blog-platform/internal/db"

	"github.com/spf13/cobra"
)

var (
	// Global flags, overriding DB_DRIVER and DATABASE_URL
	dbDriver string
	dbURL    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "blog",
	Short: "Blog platform API server",
	Long: `Blog platform API server and operator tools.

Configuration is read from the environment and an optional .env file.
SIGN_KEY must be set for every command.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbDriver, "db-driver", "", "Database driver: sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL or SQLite file path")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbDriver != "" {
		cfg.DBDriver = dbDriver
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	return cfg, nil
}

func openStore(ctx context.Context) (*config.Config, db.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
