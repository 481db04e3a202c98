package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alphachest/internal/config"
)

var (
	// Global flags
	verbose  bool
	chestDir string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alphachest",
	Short: "Virtual chest storage service",
	Long: `alphachest keeps one persistent virtual chest per player, stored as one
YAML file per player UUID. Chests saved under a player name are converted to
UUID files the first time they are loaded.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if chestDir != "" {
			cfg.Chest.Dir = chestDir
		}

		zc := zap.NewProductionConfig()
		if cfg.App.IsDevelopment() {
			zc = zap.NewDevelopmentConfig()
		}
		if verbose || cfg.App.Debug {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&chestDir, "dir", "", "Chest directory (overrides CHEST_DIR)")

	rootCmd.AddCommand(serveCmd, migrateCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
