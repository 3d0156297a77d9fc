package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"blog-platform/internal/auth"
	"blog-platform/internal/config"
	"blog-platform/internal/server"
	"blog-platform/internal/types"
	"blog-platform/pkg/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until interrupted.

When ADMIN_EMAIL, ADMIN_USER and ADMIN_PASS are set, an admin account with
that email is created on startup unless one already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	clock := utils.NewRealClock()
	if err := seedAdmin(ctx, cfg, auth.NewCredentials(store, cfg.BcryptCost, clock)); err != nil {
		return err
	}

	return server.New(cfg, store, clock).Start(ctx)
}

func seedAdmin(ctx context.Context, cfg *config.Config, creds *auth.Credentials) error {
	if cfg.AdminEmail == "" || cfg.AdminUser == "" || cfg.AdminPass == "" {
		return nil
	}
	_, err := creds.CreateAdmin(ctx, cfg.AdminEmail, cfg.AdminUser, cfg.AdminPass)
	switch {
	case errors.Is(err, types.ErrDuplicateEmail):
		log.Printf("Admin %s already exists", cfg.AdminEmail)
		return nil
	case err != nil:
		return errors.Wrap(err, "seeding admin failed")
	}
	log.Printf("Created admin %s", cfg.AdminEmail)
	return nil
}
