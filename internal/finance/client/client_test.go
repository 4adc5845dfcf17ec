package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/application"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/dashboard"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

func TestListTransactionsPageRetriesUnavailable(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/protected/accounts/acc-1/transactions", r.URL.Path)
		assert.Equal(t, "c-1", r.URL.Query().Get("cursor"))
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))

		if atomic.AddInt32(&attempts, 1) < 3 {
			interfaces.RespondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable, please try again")
			return
		}
		interfaces.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": domain.Page{
				Transactions: []domain.Transaction{{ID: "tx-1", Date: "2024-01-01", Amount: decimal.NewFromInt(-7)}},
				NextCursor:   "c-2",
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "secret-token", WithRetryOptions(fastRetry))
	page, err := c.ListTransactionsPage(context.Background(), "acc-1", "user-1", "c-1", 10)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, "c-2", page.NextCursor)
	require.Len(t, page.Transactions, 1)
	assert.True(t, decimal.NewFromInt(-7).Equal(page.Transactions[0].Amount))
}

func TestListAccountsGivesUpAfterMaxAttempts(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		interfaces.RespondError(w, http.StatusServiceUnavailable, "down")
	}))
	defer server.Close()

	c := New(server.URL, "token", WithRetryOptions(fastRetry))
	_, err := c.ListAccounts(context.Background(), "user-1")
	assert.True(t, financeErrors.IsTransientError(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestMutationsAreNotRetried(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		interfaces.RespondError(w, http.StatusServiceUnavailable, "down")
	}))
	defer server.Close()

	c := New(server.URL, "token", WithRetryOptions(fastRetry))
	err := c.DeleteAccount(context.Background(), "acc-1", "user-1")
	assert.True(t, financeErrors.IsTransientError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestUnreachableServerIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c := New(server.URL, "token", WithRetryOptions(RetryOptions{MaxAttempts: 1}))
	_, err := c.CreateAccount(context.Background(), &domain.Account{Name: "x"})
	assert.True(t, financeErrors.IsTransientError(err))
}

func TestErrorEnvelopeMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		errors []string
		check  func(t *testing.T, err error)
	}{
		{name: "validation", status: http.StatusBadRequest, check: func(t *testing.T, err error) {
			assert.True(t, financeErrors.IsValidationError(err))
			assert.Equal(t, "server message", err.Error())
		}},
		{name: "validation list", status: http.StatusBadRequest, errors: []string{"a", "b"}, check: func(t *testing.T, err error) {
			var validationErrors *financeErrors.ValidationErrors
			require.True(t, errors.As(err, &validationErrors))
			assert.Equal(t, []string{"a", "b"}, validationErrors.Messages())
		}},
		{name: "unauthorized", status: http.StatusUnauthorized, check: func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{name: "permission", status: http.StatusForbidden, check: func(t *testing.T, err error) {
			assert.True(t, financeErrors.IsPermissionError(err))
			assert.Contains(t, err.Error(), "transaction tx-1")
		}},
		{name: "not found", status: http.StatusNotFound, check: func(t *testing.T, err error) {
			assert.True(t, financeErrors.IsNotFoundError(err))
		}},
		{name: "internal", status: http.StatusInternalServerError, check: func(t *testing.T, err error) {
			assert.Contains(t, err.Error(), "unexpected status 500")
			assert.False(t, financeErrors.IsTransientError(err))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				interfaces.RespondError(w, tt.status, "server message", tt.errors)
			}))
			defer server.Close()

			description := "new"
			err := New(server.URL, "token").UpdateTransaction(context.Background(), "tx-1", "user-1", domain.TransactionPatch{Description: &description})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return financeErrors.NewTransientError("op", errors.New("busy"))
	}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// newAPIServer serves the account and transaction routes over an in-memory store.
func newAPIServer(t *testing.T, tokens *identity.TokenManager) *httptest.Server {
	t.Helper()
	accounts := &infrastructure.MockAccountRepository{}
	transactions := &infrastructure.MockTransactionRepository{}
	store := application.NewStore(accounts, transactions, nil)

	accountHandler := interfaces.NewAccountHandler(store, interfaces.RespondJSON, interfaces.RespondError)
	transactionHandler := interfaces.NewTransactionHandler(store, store.Summaries, interfaces.RespondJSON, interfaces.RespondError)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/protected/accounts", accountHandler.GetAccounts)
	mux.HandleFunc("POST /api/protected/accounts", accountHandler.CreateAccount)
	mux.HandleFunc("PATCH /api/protected/accounts/{accountID}", accountHandler.UpdateAccount)
	mux.HandleFunc("DELETE /api/protected/accounts/{accountID}", accountHandler.DeleteAccount)
	mux.HandleFunc("GET /api/protected/accounts/{accountID}/transactions", transactionHandler.GetAccountTransactions)
	mux.HandleFunc("POST /api/protected/accounts/{accountID}/transactions", transactionHandler.CreateTransaction)
	mux.HandleFunc("PATCH /api/protected/transactions/{transactionID}", transactionHandler.UpdateTransaction)
	mux.HandleFunc("DELETE /api/protected/transactions/{transactionID}", transactionHandler.DeleteTransaction)

	return httptest.NewServer(identity.Middleware(tokens)(mux))
}

func TestViewOverHTTP(t *testing.T) {
	tokens, err := identity.NewTokenManager("test-secret")
	require.NoError(t, err)
	server := newAPIServer(t, tokens)
	defer server.Close()

	token, err := tokens.GenerateAccessJWT(identity.Identity{OwnerID: "user-1"}, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	view := dashboard.NewView(New(server.URL, token, WithRetryOptions(fastRetry)), "user-1", 2, zerolog.Nop())
	require.NoError(t, view.Load(ctx))
	assert.Empty(t, view.Snapshot().Accounts)

	accountID, err := view.CreateAccount(ctx, &domain.Account{Name: "Everyday", Type: domain.AccountTypeChecking, Icon: "wallet", Last4: "4321"})
	require.NoError(t, err)
	snapshot := view.Snapshot()
	require.Len(t, snapshot.Accounts, 1)
	assert.Equal(t, accountID, snapshot.SelectedAccountID)

	for i, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_, err := view.CreateTransaction(ctx, &domain.Transaction{
			AccountID:   accountID,
			Description: "Lunch",
			Amount:      decimal.NewFromInt(int64(-10 - i)),
			Type:        domain.TransactionTypeDebit,
			Category:    domain.CategoryFoodDining,
			Date:        date,
			Icon:        "utensils",
		})
		require.NoError(t, err)
	}

	snapshot = view.Snapshot()
	require.Len(t, snapshot.Transactions, 2)
	assert.Equal(t, "2024-01-03", snapshot.Transactions[0].Date)
	assert.True(t, snapshot.HasMore)

	require.NoError(t, view.LoadMore(ctx))
	snapshot = view.Snapshot()
	require.Len(t, snapshot.Transactions, 3)
	assert.False(t, snapshot.HasMore)

	err = view.UpdateAccount(ctx, "missing", domain.AccountPatch{Name: strPtr("Renamed")})
	assert.True(t, financeErrors.IsNotFoundError(err))

	require.NoError(t, view.DeleteAccount(ctx, accountID))
	snapshot = view.Snapshot()
	assert.Empty(t, snapshot.Accounts)
	assert.Empty(t, snapshot.SelectedAccountID)
	assert.Empty(t, snapshot.Transactions)
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	tokens, err := identity.NewTokenManager("test-secret")
	require.NoError(t, err)
	server := newAPIServer(t, tokens)
	defer server.Close()

	_, err = New(server.URL, "").ListAccounts(context.Background(), "user-1")
	assert.True(t, strings.Contains(err.Error(), "unauthorized"))
}

func strPtr(s string) *string {
	return &s
}
