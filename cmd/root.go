package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/config"
	"github.com/axellelanca/linkbio/internal/database"
	"github.com/axellelanca/linkbio/internal/logger"
)

// Cfg is the configuration loaded before any command runs.
var Cfg *config.Config

// Log is the application logger, built from Cfg.Log.
var Log = zap.NewNop()

// RootCmd is the base command. Subcommands (run-server, migrate, stats,
// reorder, create-link) register themselves from their own init functions.
var RootCmd = &cobra.Command{
	Use:   "linkbio",
	Short: "A link-in-bio page server",
	Long: `linkbio serves public profile pages made of ordered links and
domain-for-sale cards, records visitor clicks and reports per-item analytics.`,
	SilenceUsage: true,
}

// Execute is called from main.go.
func Execute() {
	defer func() { _ = Log.Sync() }()
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig loads the configuration and builds the logger before every command.
func initConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	Cfg = cfg

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	Log = log
}

// OpenDatabase opens the configured database and applies migrations.
func OpenDatabase() (*gorm.DB, error) {
	db, err := database.Open(Cfg.Database.Name, Log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}
