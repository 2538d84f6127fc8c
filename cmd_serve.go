package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skycast/api"
	"skycast/collector"
	"skycast/config"
	"skycast/session"
)

var (
	servePort      int
	serveRefresh   time.Duration
	serveRateLimit bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SkyCast API server",
	Long: `Start the HTTP API used by the web front end. Every browser gets its own
selection session; sessions with a location are refreshed periodically.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to run the server on")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "Refresh interval for active sessions (0 disables)")
	serveCmd.Flags().BoolVar(&serveRateLimit, "rate-limit", true, "Enable API rate limiting")
	rootCmd.AddCommand(serveCmd)
}

// applyCommandFlags copies explicitly set subcommand flags into cfg
func applyCommandFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd != serveCmd {
		return nil
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("refresh") {
		cfg.Server.RefreshInterval = config.Duration(serveRefresh)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger := current.cfg, current.logger

	geocoder, forecasts := sources(cfg, logger, serveRateLimit)
	viewOpts := cfg.ViewOptions()
	sessionLogger := logger.Named("session")

	registry := api.NewSessionRegistry(func() *session.Session {
		return session.New(geocoder, forecasts, viewOpts, sessionLogger)
	})
	server := api.NewServer(registry, api.Options{
		Port:        cfg.Server.Port,
		Icons:       cfg.Icons(),
		DefaultCity: cfg.DefaultCity,
	}, logger.Named("api"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	refresher := collector.NewRefresher(registry, cfg.Server.RefreshInterval.Std(),
		cfg.Server.RefreshConcurrency, logger.Named("refresher"))
	stopRefresh := refresher.Start(ctx)
	defer stopRefresh()

	// Periodically drop sessions nobody has used for a while
	go func() {
		idle := cfg.Server.SessionIdleTimeout.Std()
		if idle <= 0 {
			return
		}
		ticker := time.NewTicker(idle / 2)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := registry.Prune(idle); n > 0 {
					logger.Info("pruned idle sessions", zap.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}
