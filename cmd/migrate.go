package cmd

import (
	"fmt"
	"io"

	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Run database migrations to set up or update the users and feedback tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		return migrate(cmd.OutOrStdout(), cfg.Database.Path)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate(w io.Writer, path string) error {
	db, err := database.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close() //nolint: errcheck

	fmt.Fprintln(w, "Database migrations completed successfully!")
	return nil
}
