package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/halfway/internal/api"
	"github.com/sells-group/halfway/internal/config"
	"github.com/sells-group/halfway/internal/ranking"
	"github.com/sells-group/halfway/internal/session"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		env, err := initEnv(ctx, config.ModeServe)
		if err != nil {
			return err
		}
		defer env.Close()

		srv, err := buildServer(env)
		if err != nil {
			return err
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildServer wires the API router over env.
func buildServer(env *appEnv) (*http.Server, error) {
	defaultSort, err := ranking.ParseSortOption(cfg.Search.DefaultSort)
	if err != nil {
		return nil, err
	}
	defaults := env.Orchestrator.DefaultCategories()

	handler := api.NewRouter(api.Deps{
		Searcher:    env.Orchestrator,
		Lookup:      env.Lookup,
		Sessions:    session.NewRegistry(cfg.Server.SessionTTL(), defaults, defaultSort),
		Gatherer:    env.Registry,
		DefaultSort: defaultSort,
	}, api.Options{CORSOrigins: cfg.Server.CORSOrigins})

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
