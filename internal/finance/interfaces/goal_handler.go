package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/shopspring/decimal"
)

type GoalServiceInterface interface {
	CreateGoal(ctx context.Context, goal *domain.Goal) (string, error)
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error)
	UpdateGoal(ctx context.Context, goalID, ownerID string, patch domain.GoalPatch) error
	DeleteGoal(ctx context.Context, goalID, ownerID string) error
}

type GoalHandler struct {
	service      GoalServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

type goalResponse struct {
	domain.Goal
	Progress decimal.Decimal `json:"progress"`
}

func NewGoalHandler(
	service GoalServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *GoalHandler {
	if service == nil {
		log.Fatal().Msg("Service must not be nil")
		return nil
	}
	if respondJSON == nil || respondError == nil {
		log.Fatal().Msg("Respond functions must not be nil")
		return nil
	}
	return &GoalHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *GoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	goals, err := h.service.ListGoals(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to retrieve goals")
		return
	}

	response := make([]goalResponse, len(goals))
	for i := range goals {
		response[i] = goalResponse{Goal: goals[i], Progress: goals[i].Progress()}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Goals successfully retrieved.",
		"data":    response,
	})
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var goal domain.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	goal.OwnerID = ownerID

	if _, err := h.service.CreateGoal(r.Context(), &goal); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to create goal")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Goal successfully created.",
		"data":    goalResponse{Goal: goal, Progress: goal.Progress()},
	})
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var patch domain.GoalPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateGoal(r.Context(), r.PathValue("goalID"), ownerID, patch); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to update goal")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Goal successfully updated.",
	})
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteGoal(r.Context(), r.PathValue("goalID"), ownerID); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to delete goal")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Goal successfully deleted.",
	})
}
