package commands

import (
	"context"
	"fmt"

	"blog-platform/internal/auth"
	"blog-platform/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	// create-admin flags
	adminEmail    string
	adminUsername string
	adminPassword string

	// promote flags
	revoke bool
)

// createAdminCmd creates an admin without going through the API
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account directly in the database.

Use this to bootstrap the first admin; later admins can be created
through POST /user/create-admin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreateAdmin(cmd.Context())
	},
}

// promoteCmd changes the role of an existing user
var promoteCmd = &cobra.Command{
	Use:   "promote EMAIL",
	Short: "Grant or revoke admin rights",
	Long: `Grant admin rights to an existing user, or revoke them with --revoke.

Tokens issued before the change keep the old role until they expire.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPromote(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd, promoteCmd)

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")

	promoteCmd.Flags().BoolVar(&revoke, "revoke", false, "Revoke admin rights instead")
}

func newCredentials(ctx context.Context) (*auth.Credentials, func() error, error) {
	cfg, store, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return auth.NewCredentials(store, cfg.BcryptCost, utils.NewRealClock()), store.Close, nil
}

func runCreateAdmin(ctx context.Context) error {
	creds, closeStore, err := newCredentials(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := creds.CreateAdmin(ctx, adminEmail, adminUsername, adminPassword)
	if err != nil {
		return err
	}
	fmt.Printf("Created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

func runPromote(ctx context.Context, email string) error {
	creds, closeStore, err := newCredentials(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := creds.SetRole(ctx, email, !revoke)
	if err != nil {
		return err
	}
	fmt.Printf("%s isAdmin=%t\n", user.Email, user.IsAdmin)
	return nil
}
