package domain

import (
	"context"
	"strings"
	"time"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
)

const maxAccountNameLength = 100

type AccountType string

const (
	AccountTypeSavings    AccountType = "Savings"
	AccountTypeChecking   AccountType = "Checking"
	AccountTypeCreditCard AccountType = "Credit Card"
	AccountTypeInvestment AccountType = "Investment"
	AccountTypeLoan       AccountType = "Loan"
	AccountTypeOther      AccountType = "Other"
)

var AccountTypes = []AccountType{
	AccountTypeSavings,
	AccountTypeChecking,
	AccountTypeCreditCard,
	AccountTypeInvestment,
	AccountTypeLoan,
	AccountTypeOther,
}

func IsValidAccountType(accountType AccountType) bool {
	for _, t := range AccountTypes {
		if t == accountType {
			return true
		}
	}
	return false
}

type Account struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Icon      string      `json:"icon"`
	Last4     string      `json:"account_number_last4,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// AccountRepository persists accounts. Lookups by id are not owner scoped so that
// callers can tell a missing record apart from one owned by someone else.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, accountID string) (*Account, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Account, error)
	Update(ctx context.Context, account *Account) (int64, error)
	Delete(ctx context.Context, accountID, ownerID string) (int64, error)
}

// CascadeDeleter is implemented by repositories that can remove an account together
// with its transactions as a single atomic unit.
type CascadeDeleter interface {
	DeleteWithTransactions(ctx context.Context, accountID, ownerID string) (int64, error)
}

// Validate checks the fields required to create an account.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.OwnerID) == "" {
		return errors.ErrMissingOwner
	}
	if err := validateAccountName(a.Name); err != nil {
		return err
	}
	if !IsValidAccountType(a.Type) {
		return errors.NewValidationError("Account type must be one of: Savings, Checking, Credit Card, Investment, Loan, Other")
	}
	if strings.TrimSpace(a.Icon) == "" {
		return errors.NewValidationError("Account icon is required")
	}
	if a.Last4 == "" {
		return errors.NewValidationError("Last 4 digits of the account number are required")
	}
	return validateLast4(a.Last4)
}

func validateAccountName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidationError("Account name is required")
	}
	if len(name) > maxAccountNameLength {
		return errors.NewValidationError("Account name must be of length less than 100")
	}
	return nil
}

func validateLast4(last4 string) error {
	if len(last4) != 4 {
		return errors.NewValidationError("Last 4 digits must be exactly 4 numeric characters")
	}
	for _, r := range last4 {
		if r < '0' || r > '9' {
			return errors.NewValidationError("Last 4 digits must be exactly 4 numeric characters")
		}
	}
	return nil
}

// AccountPatch is a partial account update. Nil fields are left untouched and an
// empty Last4 clears the stored digits.
type AccountPatch struct {
	Name  *string      `json:"name"`
	Type  *AccountType `json:"type"`
	Icon  *string      `json:"icon"`
	Last4 *string      `json:"account_number_last4"`
}

func (p AccountPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.Icon == nil && p.Last4 == nil
}

func (p AccountPatch) Validate() error {
	if p.IsEmpty() {
		return errors.NewValidationError("At least one field must be provided for update")
	}
	if p.Name != nil {
		if err := validateAccountName(*p.Name); err != nil {
			return err
		}
	}
	if p.Type != nil && !IsValidAccountType(*p.Type) {
		return errors.NewValidationError("Account type must be one of: Savings, Checking, Credit Card, Investment, Loan, Other")
	}
	if p.Icon != nil && strings.TrimSpace(*p.Icon) == "" {
		return errors.NewValidationError("Account icon must not be empty")
	}
	if p.Last4 != nil && *p.Last4 != "" {
		return validateLast4(*p.Last4)
	}
	return nil
}

func (p AccountPatch) Apply(account *Account) {
	if p.Name != nil {
		account.Name = strings.TrimSpace(*p.Name)
	}
	if p.Type != nil {
		account.Type = *p.Type
	}
	if p.Icon != nil {
		account.Icon = *p.Icon
	}
	if p.Last4 != nil {
		account.Last4 = *p.Last4
	}
}
