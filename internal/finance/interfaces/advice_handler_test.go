package interfaces

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebuszqo/FinanceDashboard/internal/advice"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/identity"
	"github.com/sebuszqo/FinanceDashboard/internal/ofximport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdviceService struct {
	result    *advice.Advice
	err       error
	startDate string
	endDate   string
}

func (s *stubAdviceService) SpendingAdvice(ctx context.Context, ownerID, startDate, endDate string) (*advice.Advice, error) {
	s.startDate, s.endDate = startDate, endDate
	return s.result, s.err
}

func (s *stubAdviceService) GoalAdvice(ctx context.Context, ownerID string) (*advice.Advice, error) {
	return s.result, s.err
}

func TestAdviceHandler(t *testing.T) {
	service := &stubAdviceService{result: &advice.Advice{Score: 64, Explanation: "Fine", Suggestions: []string{"Save more"}}}
	handler := NewAdviceHandler(service, RespondJSON, RespondError)

	req := asOwner(httptest.NewRequest(http.MethodGet, "/advice/spending?start_date=2024-01-01&end_date=2024-01-31", nil), "user-1")
	w := httptest.NewRecorder()
	handler.GetSpendingAdvice(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-01-01", service.startDate)
	assert.Equal(t, "2024-01-31", service.endDate)
	data := decodeResponse(t, w.Result())["data"].(map[string]interface{})
	assert.Equal(t, float64(64), data["score"])

	req = asOwner(httptest.NewRequest(http.MethodGet, "/advice/goals", nil), "user-1")
	w = httptest.NewRecorder()
	handler.GetGoalAdvice(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdviceHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not configured", err: advice.ErrNotConfigured, wantStatus: http.StatusServiceUnavailable},
		{name: "provider failure", err: errors.New("429 too many requests"), wantStatus: http.StatusBadGateway},
		{name: "store down", err: financeErrors.NewTransientError("list goals", errors.New("timeout")), wantStatus: http.StatusServiceUnavailable},
		{name: "bad range", err: financeErrors.NewValidationError("Start date must not be after end date"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAdviceHandler(&stubAdviceService{err: tt.err}, RespondJSON, RespondError)

			req := asOwner(httptest.NewRequest(http.MethodGet, "/advice/goals", nil), "user-1")
			w := httptest.NewRecorder()
			handler.GetGoalAdvice(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestImportHandler(t *testing.T) {
	service := &MockTransactionService{}
	handler := NewImportHandler(ofximport.NewImporter(service), RespondJSON, RespondError)

	req := asOwner(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/import/ofx", strings.NewReader("definitely not OFX")), "user-1")
	req.SetPathValue("accountID", "acc-1")
	w := httptest.NewRecorder()
	handler.ImportOFX(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OFX statement", decodeResponse(t, w.Result())["message"])

	req = asOwner(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/import/ofx", bytes.NewReader(make([]byte, maxStatementSize+1))), "user-1")
	w = httptest.NewRecorder()
	handler.ImportOFX(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, service.Created)
}

func TestProfileHandler(t *testing.T) {
	handler := NewProfileHandler(RespondJSON, RespondError)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req = req.WithContext(identity.WithIdentity(req.Context(), &identity.Identity{OwnerID: "user-1", Email: "jane@example.com", Name: "Jane"}))
	w := httptest.NewRecorder()
	handler.GetProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w.Result())["data"].(map[string]interface{})
	assert.Equal(t, "user-1", data["owner_id"])
	assert.Equal(t, "Jane", data["name"])

	w = httptest.NewRecorder()
	handler.GetProfile(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithDefaultIconKeepsExplicitIcon(t *testing.T) {
	transaction := &domain.Transaction{Category: domain.CategoryTravel, Icon: "suitcase"}
	withDefaultIcon(transaction)
	assert.Equal(t, "suitcase", transaction.Icon)
}
