package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
)

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, account *domain.Account) (string, error)
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID, ownerID string, patch domain.AccountPatch) error
	DeleteAccount(ctx context.Context, accountID, ownerID string) error
}

type AccountHandler struct {
	service      AccountServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewAccountHandler(
	service AccountServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *AccountHandler {
	if service == nil {
		log.Fatal().Msg("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal().Msg("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal().Msg("RespondError function must not be nil")
		return nil
	}
	return &AccountHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to retrieve accounts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Accounts successfully retrieved.",
		"data":    accounts,
	})
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var account domain.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	account.OwnerID = ownerID

	if _, err := h.service.CreateAccount(r.Context(), &account); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to create account")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully created.",
		"data":    account,
	})
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")
	if accountID == "" {
		h.respondError(w, http.StatusBadRequest, "AccountID is required")
		return
	}

	var patch domain.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateAccount(r.Context(), accountID, ownerID, patch); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to update account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully updated.",
	})
}

// DeleteAccount removes the account together with all of its transactions.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accountID := r.PathValue("accountID")
	if accountID == "" {
		h.respondError(w, http.StatusBadRequest, "AccountID is required")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), accountID, ownerID); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to delete account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully deleted.",
	})
}
