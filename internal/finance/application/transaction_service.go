package application

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type TransactionService struct {
	repo     domain.TransactionRepository
	accounts domain.AccountRepository
}

func NewTransactionService(repo domain.TransactionRepository, accounts domain.AccountRepository) *TransactionService {
	return &TransactionService{repo: repo, accounts: accounts}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (string, error) {
	transaction.Description = strings.TrimSpace(transaction.Description)
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return "", err
	}

	if _, err := findOwnedAccount(ctx, s.accounts, transaction.AccountID, transaction.OwnerID); err != nil {
		return "", err
	}

	transaction.ID = uuid.NewString()
	if err := s.repo.Create(ctx, transaction); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).
			Str("owner_id", transaction.OwnerID).
			Str("account_id", transaction.AccountID).
			Msg("Failed to create transaction")
		return "", err
	}
	return transaction.ID, nil
}

// CreateTransactionsBulk validates every transaction first and stores none of them
// when any is invalid or any insert fails. It returns the ids in input order.
func (s *TransactionService) CreateTransactionsBulk(ctx context.Context, accountID, ownerID string, transactions []*domain.Transaction) ([]string, error) {
	if _, err := findOwnedAccount(ctx, s.accounts, accountID, ownerID); err != nil {
		return nil, err
	}

	var validationErrors financeErrors.ValidationErrors
	for i, transaction := range transactions {
		transaction.OwnerID = ownerID
		transaction.AccountID = accountID
		transaction.Description = strings.TrimSpace(transaction.Description)
		transaction.RoundToTwoDecimalPlaces()
		if err := transaction.Validate(); err != nil {
			validationErrors.Add(financeErrors.NewIndexedValidationError(i, err.Error()))
		}
	}
	if len(validationErrors.Errors) > 0 {
		return nil, &validationErrors
	}

	ids := make([]string, 0, len(transactions))
	for _, transaction := range transactions {
		transaction.ID = uuid.NewString()
		ids = append(ids, transaction.ID)
	}
	if err := s.repo.CreateBatch(ctx, transactions); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).
			Str("owner_id", ownerID).
			Str("account_id", accountID).
			Int("transactions", len(transactions)).
			Msg("Failed to store transaction batch")
		return nil, err
	}
	return ids, nil
}

// ListTransactionsPage returns one page of the account's transactions, newest first.
// The page carries a next cursor only when it came back full.
func (s *TransactionService) ListTransactionsPage(ctx context.Context, accountID, ownerID, cursor string, pageSize int) (domain.Page, error) {
	page := domain.Page{Transactions: []domain.Transaction{}}
	if strings.TrimSpace(ownerID) == "" {
		return page, nil
	}

	after, err := domain.DecodeCursor(cursor, ownerID, accountID)
	if err != nil {
		return page, err
	}

	size := domain.NormalizePageSize(pageSize)
	transactions, err := s.repo.FindPage(ctx, ownerID, accountID, after, size)
	if err != nil {
		return page, err
	}

	page.Transactions = transactions
	if len(transactions) == size {
		page.NextCursor = domain.EncodeCursor(ownerID, accountID, transactions[len(transactions)-1])
	}
	return page, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, transactionID, ownerID string, patch domain.TransactionPatch) error {
	if patch.IsEmpty() {
		return financeErrors.NewValidationError("At least one field must be provided for update")
	}

	transaction, err := s.findOwned(ctx, transactionID, ownerID)
	if err != nil {
		return err
	}

	if patch.AccountID != nil && *patch.AccountID != transaction.AccountID {
		if _, err := findOwnedAccount(ctx, s.accounts, *patch.AccountID, ownerID); err != nil {
			return err
		}
	}

	patch.Apply(transaction)
	transaction.Description = strings.TrimSpace(transaction.Description)
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return err
	}

	affected, err := s.repo.Update(ctx, transaction)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.NewNotFoundError("transaction", transactionID)
	}
	return nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID, ownerID string) error {
	if _, err := s.findOwned(ctx, transactionID, ownerID); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, transactionID, ownerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.NewNotFoundError("transaction", transactionID)
	}
	return nil
}

func (s *TransactionService) findOwned(ctx context.Context, transactionID, ownerID string) (*domain.Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, financeErrors.ErrMissingOwner
	}
	transaction, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.NewNotFoundError("transaction", transactionID)
		}
		return nil, err
	}
	if transaction.OwnerID != ownerID {
		return nil, financeErrors.NewPermissionError("transaction", transactionID)
	}
	return transaction, nil
}
