package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kanban-chat-api/internal/config"
	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/printer"
)

var (
	version string
	commit  string
	date    string

	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kanban-admin",
	Short: "Operator tasks for the Kanban Chat API",
	Long: `kanban-admin runs maintenance against the same database and blob
storage the API server uses. It reads the server's config file and
environment overrides.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command; main exits non-zero on any error
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the server config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log library output to stderr")
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, printer.Error(
			"Failed to load configuration",
			err.Error(),
			[]string{fmt.Sprintf("Check %s and the environment overrides", configPath)},
		)
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.New(database.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, printer.Error(
			"Cannot reach the database",
			err.Error(),
			[]string{
				"Set DATABASE_URL to a reachable postgres instance",
				"Pass --config pointing at the right environment",
			},
		)
	}
	return db, nil
}
