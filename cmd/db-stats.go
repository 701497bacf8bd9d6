package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/aimarketer/aimarketer/web/templates/components"
	"github.com/ccoveille/go-safecast"
	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of users, admins and feedback submissions and the size of the database file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		return printStats(cmd.Context(), cmd.OutOrStdout(), db, cfg.Database.Path)
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}

func printStats(ctx context.Context, w io.Writer, db database.DB, path string) error {
	users, err := db.CountUsers(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	admin := database.RoleAdmin
	admins, err := db.CountUsers(ctx, &admin)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	feedback, err := db.CountFeedback(ctx)
	if err != nil {
		return fmt.Errorf("failed to count feedback: %w", err)
	}

	fmt.Fprintln(w, "Database Statistics:")
	fmt.Fprintf(w, "Users: %d\n", users)
	fmt.Fprintf(w, "Admins: %d\n", admins)
	fmt.Fprintf(w, "Feedback Submissions: %d\n", feedback)

	info, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr
	}
	size, err := safecast.Convert[uint64](info.Size())
	if err != nil {
		return fmt.Errorf("invalid database file size: %w", err)
	}
	fmt.Fprintf(w, "Database Size: %s\n", components.FormatFileSize(size))
	return nil
}
