package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/aimarketer/aimarketer/internal/api"
	"github.com/aimarketer/aimarketer/internal/database"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AIMarketer server",
	Long:  `Start the AIMarketer web server. The database is created and migrated on startup.`,
	Example: `aimarketer serve --config config.yml
aimarketer serve -c /path/to/config.yml --log-level debug
PORT=8080 aimarketer serve
`,
	Run: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint: errcheck

	server, err := api.New(cfg, db, log.GetLevel() == log.DebugLevel)
	if err != nil {
		log.Fatalf("failed to create API server: %v", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting API server", "listen", cfg.Listen)
	if err := server.Run(ctx); err != nil {
		log.Error("API server error", "error", err)
		return
	}
	log.Info("Shut down gracefully")
}
