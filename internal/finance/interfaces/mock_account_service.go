package interfaces

import (
	"context"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

type MockAccountService struct {
	Accounts []domain.Account
	Err      error
	Deleted  []string
}

func (m *MockAccountService) CreateAccount(ctx context.Context, account *domain.Account) (string, error) {
	if err := account.Validate(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}
	account.ID = "acc-new"
	m.Accounts = append(m.Accounts, *account)
	return account.ID, nil
}

func (m *MockAccountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	accounts := []domain.Account{}
	for _, account := range m.Accounts {
		if account.OwnerID == ownerID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID, ownerID string, patch domain.AccountPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	return m.Err
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID, ownerID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, accountID)
	return nil
}
