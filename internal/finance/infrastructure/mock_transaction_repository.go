package infrastructure

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

// MockTransactionRepository keeps transactions in memory. Set Err to make every call fail.
type MockTransactionRepository struct {
	Transactions []domain.Transaction
	Err          error
	// DeleteByAccountErr only fails DeleteByAccount.
	DeleteByAccountErr error
	// FailBatchAt makes CreateBatch fail on that row (1-based) and store nothing.
	FailBatchAt  int
	FailBatchErr error
}

func (m *MockTransactionRepository) Create(_ context.Context, transaction *domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) CreateBatch(_ context.Context, transactions []*domain.Transaction) error {
	if m.Err != nil {
		return m.Err
	}
	staged := make([]domain.Transaction, 0, len(transactions))
	for i, transaction := range transactions {
		if m.FailBatchAt == i+1 {
			return m.FailBatchErr
		}
		if transaction.ID == "" {
			transaction.ID = uuid.NewString()
		}
		staged = append(staged, *transaction)
	}
	m.Transactions = append(m.Transactions, staged...)
	return nil
}

func (m *MockTransactionRepository) FindByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, transaction := range m.Transactions {
		if transaction.ID == transactionID {
			found := transaction
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockTransactionRepository) FindPage(_ context.Context, ownerID, accountID string, after *domain.CursorPosition, limit int) ([]domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var matching []domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.OwnerID != ownerID || transaction.AccountID != accountID {
			continue
		}
		if after != nil && !(transaction.Date < after.Date || (transaction.Date == after.Date && transaction.ID < after.ID)) {
			continue
		}
		matching = append(matching, transaction)
	}
	sortNewestFirst(matching)
	if len(matching) > limit {
		matching = matching[:limit]
	}
	return matching, nil
}

func (m *MockTransactionRepository) FindInDateRange(_ context.Context, ownerID, startDate, endDate string) ([]domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var matching []domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.OwnerID == ownerID && transaction.Date >= startDate && transaction.Date <= endDate {
			matching = append(matching, transaction)
		}
	}
	sortNewestFirst(matching)
	return matching, nil
}

func (m *MockTransactionRepository) Update(_ context.Context, transaction *domain.Transaction) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i := range m.Transactions {
		if m.Transactions[i].ID == transaction.ID && m.Transactions[i].OwnerID == transaction.OwnerID {
			m.Transactions[i] = *transaction
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockTransactionRepository) Delete(_ context.Context, transactionID, ownerID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i, transaction := range m.Transactions {
		if transaction.ID == transactionID && transaction.OwnerID == ownerID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockTransactionRepository) DeleteByAccount(_ context.Context, accountID, ownerID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if m.DeleteByAccountErr != nil {
		return 0, m.DeleteByAccountErr
	}
	kept := m.Transactions[:0]
	var removed int64
	for _, transaction := range m.Transactions {
		if transaction.AccountID == accountID && transaction.OwnerID == ownerID {
			removed++
			continue
		}
		kept = append(kept, transaction)
	}
	m.Transactions = kept
	return removed, nil
}

// MockAccountRepository keeps accounts in memory. It does not implement
// domain.CascadeDeleter, so services fall back to the two step delete.
type MockAccountRepository struct {
	Accounts []domain.Account
	Err      error
}

func (m *MockAccountRepository) Create(_ context.Context, account *domain.Account) error {
	if m.Err != nil {
		return m.Err
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	m.Accounts = append(m.Accounts, *account)
	return nil
}

func (m *MockAccountRepository) FindByID(_ context.Context, accountID string) (*domain.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, account := range m.Accounts {
		if account.ID == accountID {
			found := account
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *MockAccountRepository) FindByOwner(_ context.Context, ownerID string) ([]domain.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	accounts := []domain.Account{}
	for _, account := range m.Accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (m *MockAccountRepository) Update(_ context.Context, account *domain.Account) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i := range m.Accounts {
		if m.Accounts[i].ID == account.ID && m.Accounts[i].OwnerID == account.OwnerID {
			m.Accounts[i] = *account
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockAccountRepository) Delete(_ context.Context, accountID, ownerID string) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	for i, account := range m.Accounts {
		if account.ID == accountID && account.OwnerID == ownerID {
			m.Accounts = append(m.Accounts[:i], m.Accounts[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func sortNewestFirst(transactions []domain.Transaction) {
	sort.Slice(transactions, func(i, j int) bool {
		if transactions[i].Date != transactions[j].Date {
			return transactions[i].Date > transactions[j].Date
		}
		return transactions[i].ID > transactions[j].ID
	})
}
