package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alphachest/internal/service"
	httpTransport "alphachest/internal/transport/http"
	"alphachest/internal/transport/http/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with periodic autosave",
	Long: `Loads every chest, serves the chest API and saves all chests on the
configured autosave interval. On SIGINT/SIGTERM the server drains and a final
save is written before exiting.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger.Info("Starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Environment),
	)

	deps, err := buildComponents(cmd.Context())
	if err != nil {
		return err
	}
	defer deps.Close()

	chestService := service.NewChestService(deps.store, deps.directory, service.DeathPolicy{
		ClearOnDeath: cfg.Chest.ClearOnDeath,
		DropOnDeath:  cfg.Chest.DropOnDeath,
	}, logger.Named("service"))

	autosaver := service.NewAutosaver(deps.store, cfg.Chest.Autosave, cfg.Chest.SilentAutosave, logger.Named("autosave"))
	defer autosaver.Close()

	if len(cfg.Server.APIKeys) == 0 {
		logger.Warn("API_KEYS is empty, the API is unauthenticated")
	}

	router := httpTransport.NewRouter(
		httpTransport.RouterConfig{APIKeys: cfg.Server.APIKeys, Logger: logger.Named("http")},
		handler.New(cfg.App.Version, deps.checks...),
		handler.NewChestHandler(chestService),
	)

	// Configure HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.Server.Address()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", zap.Error(err))
			return err
		}
	}

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
