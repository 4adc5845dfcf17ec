package interfaces

import (
	"context"
	"fmt"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/application"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
)

// MockTransactionService records the calls it receives and validates input the way
// the real service does.
type MockTransactionService struct {
	Page    domain.Page
	Summary *application.SpendingSummary
	Err     error

	Created      []*domain.Transaction
	LastAccount  string
	LastOwner    string
	LastCursor   string
	LastPageSize int
	LastPatch    domain.TransactionPatch
	Deleted      []string
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (string, error) {
	if err := transaction.Validate(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	transaction.ID = fmt.Sprintf("tx-%d", len(m.Created)+1)
	m.Created = append(m.Created, transaction)
	return transaction.ID, nil
}

func (m *MockTransactionService) CreateTransactionsBulk(ctx context.Context, accountID, ownerID string, transactions []*domain.Transaction) ([]string, error) {
	var validationErrors financeErrors.ValidationErrors
	for i, transaction := range transactions {
		transaction.AccountID = accountID
		transaction.OwnerID = ownerID
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i, err.Error()))
		}
	}
	if len(validationErrors.Errors) > 0 {
		return nil, &validationErrors
	}
	if m.Err != nil {
		return nil, m.Err
	}

	ids := make([]string, len(transactions))
	for i, transaction := range transactions {
		transaction.ID = fmt.Sprintf("tx-%d", len(m.Created)+1)
		m.Created = append(m.Created, transaction)
		ids[i] = transaction.ID
	}
	return ids, nil
}

func (m *MockTransactionService) ListTransactionsPage(ctx context.Context, accountID, ownerID, cursor string, pageSize int) (domain.Page, error) {
	m.LastAccount = accountID
	m.LastOwner = ownerID
	m.LastCursor = cursor
	m.LastPageSize = pageSize
	if m.Err != nil {
		return domain.Page{}, m.Err
	}
	return m.Page, nil
}

func (m *MockTransactionService) UpdateTransaction(ctx context.Context, transactionID, ownerID string, patch domain.TransactionPatch) error {
	m.LastOwner = ownerID
	m.LastPatch = patch
	return m.Err
}

func (m *MockTransactionService) DeleteTransaction(ctx context.Context, transactionID, ownerID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, transactionID)
	return nil
}

func (m *MockTransactionService) GetTransactionSummary(ctx context.Context, ownerID, startDate, endDate string) (*application.SpendingSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Summary != nil {
		return m.Summary, nil
	}
	return &application.SpendingSummary{StartDate: startDate, EndDate: endDate}, nil
}
