package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

const transactionColumns = "id, owner_id, account_id, description, amount, type, category, date, icon, created_at"

type TransactionRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewTransactionRepository(db *sql.DB, dialect database.Dialect) *TransactionRepository {
	return &TransactionRepository{db: db, dialect: dialect}
}

const insertTransaction = `INSERT INTO transactions
        (id, owner_id, account_id, description, amount, type, category, date, icon, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	return classify("create transaction", r.insert(ctx, r.db, transaction))
}

// CreateBatch inserts the transactions in one database transaction. A failing row
// rolls back the rows inserted before it.
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*domain.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction batch", err)
	}
	defer tx.Rollback()

	for i, transaction := range transactions {
		if err := r.insert(ctx, tx, transaction); err != nil {
			return classify(fmt.Sprintf("create transaction %d of batch", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit transaction batch", err)
	}
	return nil
}

func (r *TransactionRepository) insert(ctx context.Context, exec execer, transaction *domain.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	transaction.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	_, err := exec.ExecContext(ctx, r.dialect.Rebind(insertTransaction),
		transaction.ID, transaction.OwnerID, transaction.AccountID, transaction.Description, transaction.Amount,
		transaction.Type, transaction.Category, transaction.Date, transaction.Icon, transaction.CreatedAt,
	)
	return err
}

func (r *TransactionRepository) FindByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`), transactionID)

	transaction, err := scanTransaction(row)
	if err != nil {
		return nil, classify("find transaction", err)
	}
	return transaction, nil
}

// FindPage returns up to limit transactions of one account, newest first, strictly
// after the given position in (date DESC, id DESC) order.
func (r *TransactionRepository) FindPage(ctx context.Context, ownerID, accountID string, after *domain.CursorPosition, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE owner_id = ? AND account_id = ?`
	args := []any{ownerID, accountID}
	if after != nil {
		query += ` AND (date < ? OR (date = ? AND id < ?))`
		args = append(args, after.Date, after.Date, after.ID)
	}
	query += ` ORDER BY date DESC, id DESC LIMIT ?`
	args = append(args, limit)

	return r.query(ctx, "list transactions", query, args...)
}

func (r *TransactionRepository) FindInDateRange(ctx context.Context, ownerID, startDate, endDate string) ([]domain.Transaction, error) {
	return r.query(ctx, "list transactions in range",
		`SELECT `+transactionColumns+` FROM transactions
        WHERE owner_id = ? AND date >= ? AND date <= ?
        ORDER BY date DESC, id DESC`,
		ownerID, startDate, endDate,
	)
}

func (r *TransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE transactions
        SET account_id = ?, description = ?, amount = ?, type = ?, category = ?, date = ?, icon = ?
        WHERE id = ? AND owner_id = ?`),
		transaction.AccountID, transaction.Description, transaction.Amount, transaction.Type,
		transaction.Category, transaction.Date, transaction.Icon, transaction.ID, transaction.OwnerID,
	)
	if err != nil {
		return 0, classify("update transaction", err)
	}
	return rowsAffected("update transaction", result)
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID, ownerID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`), transactionID, ownerID)
	if err != nil {
		return 0, classify("delete transaction", err)
	}
	return rowsAffected("delete transaction", result)
}

func (r *TransactionRepository) DeleteByAccount(ctx context.Context, accountID, ownerID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`DELETE FROM transactions WHERE account_id = ? AND owner_id = ?`), accountID, ownerID)
	if err != nil {
		return 0, classify("delete account transactions", err)
	}
	return rowsAffected("delete account transactions", result)
}

func (r *TransactionRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return transactions, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	if err := row.Scan(&transaction.ID, &transaction.OwnerID, &transaction.AccountID, &transaction.Description,
		&transaction.Amount, &transaction.Type, &transaction.Category, &transaction.Date, &transaction.Icon,
		&transaction.CreatedAt); err != nil {
		return nil, err
	}
	return &transaction, nil
}
