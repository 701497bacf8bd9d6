package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/internal/password"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var createAdminFlags struct {
	Username string
	Password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long:  `Create a user with the admin role. Admins can open the feedback summary.`,
	Example: `aimarketer create-admin --username admin --password 's3cret'
AIMARKETER_DATABASE_PATH=/var/lib/aimarketer.db aimarketer create-admin -u admin -p 's3cret'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		if err := createAdmin(cmd.Context(), db, password.New(cfg.Auth.BcryptCost), createAdminFlags.Username, createAdminFlags.Password); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Admin %q created successfully!\n", createAdminFlags.Username)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVarP(&createAdminFlags.Username, "username", "u", "", "Username of the admin")
	createAdminCmd.Flags().StringVarP(&createAdminFlags.Password, "password", "p", "", "Password of the admin")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}

func createAdmin(ctx context.Context, db database.DB, hasher *password.Hasher, username, plain string) error {
	if username == "" || plain == "" {
		return errors.New("username and password must not be empty")
	}

	hash, err := hasher.Hash(plain)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := db.CreateUser(ctx, username, hash, database.RoleAdmin); err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			return fmt.Errorf("user %q already exists", username)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info("Admin created", "username", username)
	return nil
}
