package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorechart/internal/chore"
	"github.com/dukerupert/chorechart/internal/config"
	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/logging"
	"github.com/dukerupert/chorechart/internal/server"
	"github.com/dukerupert/chorechart/internal/store"
)

const (
	shutdownTimeout = 5 * time.Second
	cleanupInterval = 5 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the chore chart web server.

Examples:
  # Listen on the default 0.0.0.0:5000 with chores.db
  chorechart serve

  # Debug logging on a different port
  chorechart serve --port 8080 --debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "listen host (overrides CHORECHART_HOST)")
	cmd.Flags().String("port", "", "listen port (overrides CHORECHART_PORT)")
	cmd.Flags().String("db", "", "database path (overrides CHORECHART_DB_PATH)")
	cmd.Flags().Bool("debug", false, "debug logging (overrides CHORECHART_DEBUG)")
}

// loadConfig reads the environment and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()
	if f := flags.Lookup("host"); f != nil && f.Changed {
		cfg.Host = f.Value.String()
	}
	if f := flags.Lookup("port"); f != nil && f.Changed {
		cfg.Port = f.Value.String()
	}
	if f := flags.Lookup("db"); f != nil && f.Changed {
		cfg.DBPath = f.Value.String()
	}
	if f := flags.Lookup("debug"); f != nil && f.Changed {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	return cfg
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	logger, flush := logging.Setup(cfg.Level(), cfg.SentryDSN)
	defer flush()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		return err
	}
	defer db.Close()

	if cfg.Seed {
		n, err := store.NewTaskStore(db).SeedIfEmpty(store.DefaultTasks)
		if err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
		if n > 0 {
			logger.Info("seeded default tasks", "count", n)
		}
	}

	srv, err := server.New(db, server.Options{
		Clock:           chore.SystemClock(loc),
		UpdateRateLimit: cfg.UpdateRateLimit,
	}, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chorechart listening", "addr", cfg.Addr(), "db", cfg.DBPath, "timezone", loc.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
