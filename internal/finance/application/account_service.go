package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

type AccountService struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
}

func NewAccountService(accounts domain.AccountRepository, transactions domain.TransactionRepository) *AccountService {
	return &AccountService{accounts: accounts, transactions: transactions}
}

func (s *AccountService) CreateAccount(ctx context.Context, account *domain.Account) (string, error) {
	account.Name = strings.TrimSpace(account.Name)
	if err := account.Validate(); err != nil {
		return "", err
	}

	account.ID = uuid.NewString()
	if err := s.accounts.Create(ctx, account); err != nil {
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("owner_id", account.OwnerID).Msg("Failed to create account")
		return "", err
	}
	return account.ID, nil
}

// ListAccounts returns the owner's accounts sorted by name. An empty owner id has no accounts.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []domain.Account{}, nil
	}
	return s.accounts.FindByOwner(ctx, ownerID)
}

func (s *AccountService) UpdateAccount(ctx context.Context, accountID, ownerID string, patch domain.AccountPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	account, err := findOwnedAccount(ctx, s.accounts, accountID, ownerID)
	if err != nil {
		return err
	}

	patch.Apply(account)
	affected, err := s.accounts.Update(ctx, account)
	if err != nil {
		return err
	}
	if affected == 0 {
		return financeErrors.NewNotFoundError("account", accountID)
	}
	return nil
}

// DeleteAccount removes the account and every transaction recorded against it.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID, ownerID string) error {
	if _, err := findOwnedAccount(ctx, s.accounts, accountID, ownerID); err != nil {
		return err
	}

	log := logger.FromContext(ctx).With().Str("owner_id", ownerID).Str("account_id", accountID).Logger()

	var affected int64
	var err error
	if cascade, ok := s.accounts.(domain.CascadeDeleter); ok {
		affected, err = cascade.DeleteWithTransactions(ctx, accountID, ownerID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to delete account")
			return err
		}
	} else {
		// dependents go first so a failure never leaves orphaned transactions behind
		removed, err := s.transactions.DeleteByAccount(ctx, accountID, ownerID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to delete account transactions, account kept")
			return fmt.Errorf("deleting transactions of account %s: %w", accountID, err)
		}
		log.Debug().Int64("transactions", removed).Msg("Deleted account transactions")

		affected, err = s.accounts.Delete(ctx, accountID, ownerID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to delete account")
			return err
		}
	}

	if affected == 0 {
		return financeErrors.NewNotFoundError("account", accountID)
	}
	return nil
}

func findOwnedAccount(ctx context.Context, repo domain.AccountRepository, accountID, ownerID string) (*domain.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, financeErrors.ErrMissingOwner
	}
	account, err := repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.NewNotFoundError("account", accountID)
		}
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, financeErrors.NewPermissionError("account", accountID)
	}
	return account, nil
}
