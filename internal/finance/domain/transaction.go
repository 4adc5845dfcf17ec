package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const (
	DateLayout           = "2006-01-02"
	maxDescriptionLength = 200
	DefaultPageSize      = 10
	MaxPageSize          = 100
)

type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

func IsValidTransactionType(transactionType TransactionType) bool {
	return transactionType == TransactionTypeDebit || transactionType == TransactionTypeCredit
}

// TypeForAmount returns the transaction type implied by the sign of amount.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

type Transaction struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Date        string          `json:"date"`
	Icon        string          `json:"icon"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *Transaction) error
	// CreateBatch stores every transaction or none of them.
	CreateBatch(ctx context.Context, transactions []*Transaction) error
	FindByID(ctx context.Context, transactionID string) (*Transaction, error)
	FindPage(ctx context.Context, ownerID, accountID string, after *CursorPosition, limit int) ([]Transaction, error)
	FindInDateRange(ctx context.Context, ownerID, startDate, endDate string) ([]Transaction, error)
	Update(ctx context.Context, transaction *Transaction) (int64, error)
	Delete(ctx context.Context, transactionID, ownerID string) (int64, error)
	DeleteByAccount(ctx context.Context, accountID, ownerID string) (int64, error)
}

func (t *Transaction) RoundToTwoDecimalPlaces() {
	t.Amount = t.Amount.Round(2)
}

func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return errors.ErrMissingOwner
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return errors.NewValidationError("Account ID is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.NewValidationError("Description is required")
	}
	if len(t.Description) > maxDescriptionLength {
		return errors.NewValidationError("Description must be of length less than 200")
	}
	if !IsValidTransactionType(t.Type) {
		return errors.NewValidationError("Type must be 'debit' or 'credit'")
	}
	if t.Amount.IsZero() {
		return errors.NewValidationError("Amount must not be zero")
	}
	if TypeForAmount(t.Amount) != t.Type {
		return errors.NewValidationError("Amount sign must match type: debit amounts are negative, credit amounts are positive")
	}
	if !IsValidCategory(t.Category) {
		return errors.NewValidationError("Invalid transaction category")
	}
	if !IsValidDate(t.Date) {
		return errors.NewValidationError("Date must be in YYYY-MM-DD format")
	}
	if strings.TrimSpace(t.Icon) == "" {
		return errors.NewValidationError("Transaction icon is required")
	}
	return nil
}

// IsValidDate reports whether date is a real calendar date in YYYY-MM-DD form.
func IsValidDate(date string) bool {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return parsed.Format(DateLayout) == date
}

type TransactionPatch struct {
	AccountID   *string          `json:"account_id"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *TransactionType `json:"type"`
	Category    *Category        `json:"category"`
	Date        *string          `json:"date"`
	Icon        *string          `json:"icon"`
}

func (p TransactionPatch) IsEmpty() bool {
	return p.AccountID == nil && p.Description == nil && p.Amount == nil && p.Type == nil &&
		p.Category == nil && p.Date == nil && p.Icon == nil
}

// Apply merges the patch into transaction. The merged record must be validated again
// because sign and type may only agree once both are applied.
func (p TransactionPatch) Apply(transaction *Transaction) {
	if p.AccountID != nil {
		transaction.AccountID = *p.AccountID
	}
	if p.Description != nil {
		transaction.Description = *p.Description
	}
	if p.Amount != nil {
		transaction.Amount = *p.Amount
	}
	if p.Type != nil {
		transaction.Type = *p.Type
	}
	if p.Category != nil {
		transaction.Category = *p.Category
	}
	if p.Date != nil {
		transaction.Date = *p.Date
	}
	if p.Icon != nil {
		transaction.Icon = *p.Icon
	}
}

type Page struct {
	Transactions []Transaction `json:"transactions"`
	NextCursor   string        `json:"next_cursor,omitempty"`
}

func (p Page) HasMore() bool {
	return p.NextCursor != ""
}

func NormalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}
