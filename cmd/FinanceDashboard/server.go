package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type Response struct {
	Message string `json:"message"`
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware attaches a request scoped logger to the context and logs each request once done.
func loggingMiddleware(base zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestLogger := base.With().Str("method", r.Method).Str("path", r.URL.Path).Logger()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r.WithContext(logger.WithContext(r.Context(), requestLogger)))

		requestLogger.Info().
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("Completed request")
	})
}

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	health             HealthChecker
	identityProvider   identity.Provider
	accountHandler     *interfaces.AccountHandler
	transactionHandler *interfaces.TransactionHandler
	goalHandler        *interfaces.GoalHandler
	adviceHandler      *interfaces.AdviceHandler
	importHandler      *interfaces.ImportHandler
	profileHandler     *interfaces.ProfileHandler
}

func NewServer(
	health HealthChecker,
	identityProvider identity.Provider,
	accountHandler *interfaces.AccountHandler,
	transactionHandler *interfaces.TransactionHandler,
	goalHandler *interfaces.GoalHandler,
	adviceHandler *interfaces.AdviceHandler,
	importHandler *interfaces.ImportHandler,
	profileHandler *interfaces.ProfileHandler,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		health:             health,
		identityProvider:   identityProvider,
		accountHandler:     accountHandler,
		transactionHandler: transactionHandler,
		goalHandler:        goalHandler,
		adviceHandler:      adviceHandler,
		importHandler:      importHandler,
		profileHandler:     profileHandler,
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

// handleReady reports ready only while the backing store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	stats := s.health.Health(ctx)
	if stats["status"] != "up" {
		interfaces.RespondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"database": stats,
		})
		return
	}
	interfaces.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"database": stats,
	})
}

func (s *Server) RegisterRoutes() {
	auth := identity.Middleware(s.identityProvider)
	validate := func(params ...string) func(http.Handler) http.Handler {
		return interfaces.ValidatePathParamsMiddleware(interfaces.RespondError, params...)
	}

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (identity provider access token)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile", auth(http.HandlerFunc(s.profileHandler.GetProfile)))

	// ACCOUNTS API
	protectedRoutes.Handle("GET /api/protected/accounts", auth(http.HandlerFunc(s.accountHandler.GetAccounts)))
	protectedRoutes.Handle("POST /api/protected/accounts", auth(http.HandlerFunc(s.accountHandler.CreateAccount)))
	protectedRoutes.Handle("PATCH /api/protected/accounts/{accountID}",
		auth(validate("accountID")(http.HandlerFunc(s.accountHandler.UpdateAccount))))
	protectedRoutes.Handle("DELETE /api/protected/accounts/{accountID}",
		auth(validate("accountID")(http.HandlerFunc(s.accountHandler.DeleteAccount))))

	// TRANSACTIONS API
	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}/transactions",
		auth(http.HandlerFunc(s.transactionHandler.GetAccountTransactions)))
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/transactions",
		auth(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/transactions/bulk",
		auth(http.HandlerFunc(s.transactionHandler.CreateTransactionsBulk)))
	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/import/ofx",
		auth(http.HandlerFunc(s.importHandler.ImportOFX)))
	protectedRoutes.Handle("PATCH /api/protected/transactions/{transactionID}",
		auth(validate("transactionID")(http.HandlerFunc(s.transactionHandler.UpdateTransaction))))
	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}",
		auth(validate("transactionID")(http.HandlerFunc(s.transactionHandler.DeleteTransaction))))
	protectedRoutes.Handle("GET /api/protected/transactions/summary",
		auth(http.HandlerFunc(s.transactionHandler.GetTransactionSummary)))

	// GOALS API
	protectedRoutes.Handle("GET /api/protected/goals", auth(http.HandlerFunc(s.goalHandler.GetGoals)))
	protectedRoutes.Handle("POST /api/protected/goals", auth(http.HandlerFunc(s.goalHandler.CreateGoal)))
	protectedRoutes.Handle("PATCH /api/protected/goals/{goalID}",
		auth(validate("goalID")(http.HandlerFunc(s.goalHandler.UpdateGoal))))
	protectedRoutes.Handle("DELETE /api/protected/goals/{goalID}",
		auth(validate("goalID")(http.HandlerFunc(s.goalHandler.DeleteGoal))))

	// ADVICE
	protectedRoutes.Handle("GET /api/protected/advice/spending", auth(http.HandlerFunc(s.adviceHandler.GetSpendingAdvice)))
	protectedRoutes.Handle("GET /api/protected/advice/goals", auth(http.HandlerFunc(s.adviceHandler.GetGoalAdvice)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

// StartHealthScheduler probes the database on schedule so that an outage shows up in
// the logs before users report it.
func StartHealthScheduler(ctx context.Context, dbService *database.DBService, schedule string, log zerolog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		stats := dbService.Health(probeCtx)
		if stats["status"] != "up" {
			log.Error().Str("error", stats["error"]).Msg("Database health check failed")
			return
		}
		log.Debug().Str("open_connections", stats["open_connections"]).Msg("Database health check passed")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
