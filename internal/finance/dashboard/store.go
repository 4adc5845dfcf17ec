package dashboard

import (
	"context"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

// Store is the record store as seen by the view. It is implemented in process by
// application.Store and over HTTP by client.Client.
type Store interface {
	ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) (string, error)
	UpdateAccount(ctx context.Context, accountID, ownerID string, patch domain.AccountPatch) error
	DeleteAccount(ctx context.Context, accountID, ownerID string) error

	ListTransactionsPage(ctx context.Context, accountID, ownerID, cursor string, pageSize int) (domain.Page, error)
	CreateTransaction(ctx context.Context, transaction *domain.Transaction) (string, error)
	UpdateTransaction(ctx context.Context, transactionID, ownerID string, patch domain.TransactionPatch) error
	DeleteTransaction(ctx context.Context, transactionID, ownerID string) error
}
