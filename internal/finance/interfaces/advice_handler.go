package interfaces

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceDashboard/internal/advice"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type AdviceServiceInterface interface {
	SpendingAdvice(ctx context.Context, ownerID, startDate, endDate string) (*advice.Advice, error)
	GoalAdvice(ctx context.Context, ownerID string) (*advice.Advice, error)
}

type AdviceHandler struct {
	service      AdviceServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewAdviceHandler(
	service AdviceServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *AdviceHandler {
	if service == nil {
		log.Fatal().Msg("Service must not be nil")
		return nil
	}
	if respondJSON == nil || respondError == nil {
		log.Fatal().Msg("Respond functions must not be nil")
		return nil
	}
	return &AdviceHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AdviceHandler) GetSpendingAdvice(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	startDate, endDate, ok := dateRange(r)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	result, err := h.service.SpendingAdvice(r.Context(), ownerID, startDate, endDate)
	if err != nil {
		h.adviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Spending advice generated.",
		"data":    result,
	})
}

func (h *AdviceHandler) GetGoalAdvice(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.service.GoalAdvice(r.Context(), ownerID)
	if err != nil {
		h.adviceError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Goal advice generated.",
		"data":    result,
	})
}

// adviceError keeps store failures on the usual mapping; anything else came from the
// language model provider.
func (h *AdviceHandler) adviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, advice.ErrNotConfigured):
		h.respondError(w, http.StatusServiceUnavailable, "Advice is not available")
	case financeErrors.IsValidationError(err), financeErrors.IsTransientError(err):
		respondServiceError(w, r, h.respondError, err, "Failed to generate advice")
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Advice provider failed")
		h.respondError(w, http.StatusBadGateway, "Failed to generate advice")
	}
}
