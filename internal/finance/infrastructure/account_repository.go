package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

const accountColumns = "id, owner_id, name, type, icon, last4, created_at"

type AccountRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewAccountRepository(db *sql.DB, dialect database.Dialect) *AccountRepository {
	return &AccountRepository{db: db, dialect: dialect}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	account.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`INSERT INTO accounts (id, owner_id, name, type, icon, last4, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`),
		account.ID, account.OwnerID, account.Name, account.Type, account.Icon, account.Last4, account.CreatedAt,
	)
	return classify("create account", err)
}

func (r *AccountRepository) FindByID(ctx context.Context, accountID string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`), accountID)

	account, err := scanAccount(row)
	if err != nil {
		return nil, classify("find account", err)
	}
	return account, nil
}

func (r *AccountRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = ? ORDER BY name ASC, id ASC`), ownerID)
	if err != nil {
		return nil, classify("list accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, classify("list accounts", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list accounts", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE accounts SET name = ?, type = ?, icon = ?, last4 = ?
        WHERE id = ? AND owner_id = ?`),
		account.Name, account.Type, account.Icon, account.Last4, account.ID, account.OwnerID,
	)
	if err != nil {
		return 0, classify("update account", err)
	}
	return rowsAffected("update account", result)
}

func (r *AccountRepository) Delete(ctx context.Context, accountID, ownerID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM accounts WHERE id = ? AND owner_id = ?`), accountID, ownerID)
	if err != nil {
		return 0, classify("delete account", err)
	}
	return rowsAffected("delete account", result)
}

// DeleteWithTransactions removes the account and all of its transactions in one
// database transaction. Nothing is removed when the account does not match the owner.
func (r *AccountRepository) DeleteWithTransactions(ctx context.Context, accountID, ownerID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("begin account delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM transactions WHERE account_id = ? AND owner_id = ?`), accountID, ownerID); err != nil {
		return 0, classify("delete account transactions", err)
	}

	result, err := tx.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM accounts WHERE id = ? AND owner_id = ?`), accountID, ownerID)
	if err != nil {
		return 0, classify("delete account", err)
	}
	affected, err := rowsAffected("delete account", result)
	if err != nil || affected == 0 {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("commit account delete", err)
	}
	return affected, nil
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(&account.ID, &account.OwnerID, &account.Name, &account.Type,
		&account.Icon, &account.Last4, &account.CreatedAt); err != nil {
		return nil, err
	}
	return &account, nil
}
