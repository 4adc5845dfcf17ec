package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/advice"
	"github.com/sebuszqo/FinanceDashboard/internal/config"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/application"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
	"github.com/sebuszqo/FinanceDashboard/internal/ofximport"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address")
	_ = bindCommandFlag(cmd, config.KeyHTTPAddr, "addr")
	return cmd
}

// newServer wires the services on top of store and returns a server with its routes registered.
func newServer(health HealthChecker, store *application.Store, tokens identity.Provider, advisor advice.Advisor) *Server {
	adviceService := advice.NewService(store.Summaries, store, advisor)
	importer := ofximport.NewImporter(store)

	server := NewServer(
		health,
		tokens,
		interfaces.NewAccountHandler(store, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewTransactionHandler(store, store.Summaries, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewGoalHandler(store, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewAdviceHandler(adviceService, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewImportHandler(importer, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewProfileHandler(interfaces.RespondJSON, interfaces.RespondError),
	)
	server.RegisterRoutes()
	return server
}

func runServe(ctx context.Context) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	dbService, err := database.NewDBService(cfg.DBDriver, cfg.DBConnectionString)
	if err != nil {
		return err
	}
	defer dbService.Close()

	if err := dbService.Migrate(ctx); err != nil {
		return err
	}

	tokens, err := identity.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		return err
	}

	advisor, err := advice.NewAdvisor(ctx, cfg.AIProvider, cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	if err != nil {
		return err
	}
	if advisor == nil {
		log.Info().Msg("No AI provider configured, advice endpoints are disabled")
	}

	store := application.NewSQLStore(dbService.DB, dbService.Dialect)
	server := newServer(dbService, store, tokens, advisor)

	scheduler, err := StartHealthScheduler(ctx, dbService, cfg.HealthCheckSchedule, log)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	return listen(ctx, cfg.HTTPAddr, loggingMiddleware(log, server.router), log)
}

// listen serves handler until ctx is cancelled, then drains open requests.
func listen(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("Shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
