package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/application"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
)

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) (string, error)
	CreateTransactionsBulk(ctx context.Context, accountID, ownerID string, transactions []*domain.Transaction) ([]string, error)
	ListTransactionsPage(ctx context.Context, accountID, ownerID, cursor string, pageSize int) (domain.Page, error)
	UpdateTransaction(ctx context.Context, transactionID, ownerID string, patch domain.TransactionPatch) error
	DeleteTransaction(ctx context.Context, transactionID, ownerID string) error
}

type SummaryServiceInterface interface {
	GetTransactionSummary(ctx context.Context, ownerID, startDate, endDate string) (*application.SpendingSummary, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	summaries    SummaryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	summaries SummaryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *TransactionHandler {
	if service == nil || summaries == nil {
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
	return &TransactionHandler{
		service:      service,
		summaries:    summaries,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// withDefaultIcon fills the icon from the category when the client omitted it.
func withDefaultIcon(transaction *domain.Transaction) {
	if transaction.Icon == "" {
		transaction.Icon = domain.CategoryIcon(transaction.Category)
	}
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var transaction domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	transaction.OwnerID = ownerID
	transaction.AccountID = r.PathValue("accountID")
	withDefaultIcon(&transaction)

	if _, err := h.service.CreateTransaction(r.Context(), &transaction); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction,
	})
}

func (h *TransactionHandler) CreateTransactionsBulk(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		Transactions []*domain.Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Transactions) == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body - no transactions provided")
		return
	}
	for _, transaction := range req.Transactions {
		if transaction == nil {
			h.respondError(w, http.StatusBadRequest, "Invalid request body - empty transaction")
			return
		}
		withDefaultIcon(transaction)
	}

	if _, err := h.service.CreateTransactionsBulk(r.Context(), r.PathValue("accountID"), ownerID, req.Transactions); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to create transactions")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transactions successfully created.",
		"data":    req.Transactions,
	})
}

// GetAccountTransactions returns one page of the account's transactions, newest first.
// Query params: cursor (opaque, from next_cursor) and page_size.
func (h *TransactionHandler) GetAccountTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	pageSize := domain.DefaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid page_size parameter")
			return
		}
		pageSize = parsed
	}

	page, err := h.service.ListTransactionsPage(r.Context(), r.PathValue("accountID"), ownerID, r.URL.Query().Get("cursor"), pageSize)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions successfully retrieved.",
		"data":    page,
	})
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	transactionID := r.PathValue("transactionID")
	if transactionID == "" {
		h.respondError(w, http.StatusBadRequest, "TransactionID is required")
		return
	}

	var patch domain.TransactionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateTransaction(r.Context(), transactionID, ownerID, patch); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to update transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully updated.",
	})
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.OwnerID(r.Context())
	if ownerID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	transactionID := r.PathValue("transactionID")
	if transactionID == "" {
		h.respondError(w, http.StatusBadRequest, "TransactionID is required")
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), transactionID, ownerID); err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to delete transaction")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully deleted.",
	})
}

func (h *TransactionHandler) GetTransactionSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.summaries.GetTransactionSummary(r.Context(), ownerID, startDate, endDate)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to retrieve transaction summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transaction summary successfully retrieved.",
		"data":    summary,
	})
}
