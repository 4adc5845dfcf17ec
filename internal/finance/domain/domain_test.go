package domain

import (
	"testing"

	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAccount() Account {
	return Account{OwnerID: "owner-1", Name: "Primary Savings", Type: AccountTypeSavings, Icon: "piggy-bank", Last4: "1234"}
}

func validTransaction() Transaction {
	return Transaction{
		OwnerID:     "owner-1",
		AccountID:   "acc-1",
		Description: "Coffee",
		Amount:      decimal.RequireFromString("-4.50"),
		Type:        TransactionTypeDebit,
		Category:    CategoryFoodDining,
		Date:        "2024-03-05",
		Icon:        CategoryIcon(CategoryFoodDining),
	}
}

func TestAccountValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Account)
		wantErr string
	}{
		{name: "valid", mutate: func(*Account) {}},
		{name: "missing owner", mutate: func(a *Account) { a.OwnerID = "" }, wantErr: "Owner id is required"},
		{name: "missing name", mutate: func(a *Account) { a.Name = "  " }, wantErr: "Account name is required"},
		{name: "unknown type", mutate: func(a *Account) { a.Type = "Brokerage" }, wantErr: "Account type must be one of"},
		{name: "missing icon", mutate: func(a *Account) { a.Icon = "" }, wantErr: "Account icon is required"},
		{name: "missing last4", mutate: func(a *Account) { a.Last4 = "" }, wantErr: "Last 4 digits of the account number are required"},
		{name: "short last4", mutate: func(a *Account) { a.Last4 = "123" }, wantErr: "exactly 4 numeric characters"},
		{name: "non numeric last4", mutate: func(a *Account) { a.Last4 = "12a4" }, wantErr: "exactly 4 numeric characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := validAccount()
			tt.mutate(&account)
			err := account.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, financeErrors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAccountPatch(t *testing.T) {
	assert.Error(t, AccountPatch{}.Validate())

	badLast4 := "12"
	assert.Error(t, AccountPatch{Last4: &badLast4}.Validate())

	cleared := ""
	name := "  Rainy Day  "
	patch := AccountPatch{Name: &name, Last4: &cleared}
	require.NoError(t, patch.Validate())

	account := validAccount()
	patch.Apply(&account)
	assert.Equal(t, "Rainy Day", account.Name)
	assert.Equal(t, "", account.Last4)
	assert.Equal(t, AccountTypeSavings, account.Type)
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr string
	}{
		{name: "valid debit", mutate: func(*Transaction) {}},
		{name: "valid credit", mutate: func(tr *Transaction) {
			tr.Amount = decimal.NewFromInt(2500)
			tr.Type = TransactionTypeCredit
		}},
		{name: "credit with negative amount", mutate: func(tr *Transaction) { tr.Type = TransactionTypeCredit }, wantErr: "Amount sign must match type"},
		{name: "debit with positive amount", mutate: func(tr *Transaction) { tr.Amount = decimal.NewFromInt(3) }, wantErr: "Amount sign must match type"},
		{name: "zero amount", mutate: func(tr *Transaction) { tr.Amount = decimal.Zero }, wantErr: "Amount must not be zero"},
		{name: "bad type", mutate: func(tr *Transaction) { tr.Type = "expense" }, wantErr: "Type must be 'debit' or 'credit'"},
		{name: "bad category", mutate: func(tr *Transaction) { tr.Category = "Pets" }, wantErr: "Invalid transaction category"},
		{name: "bad date", mutate: func(tr *Transaction) { tr.Date = "2024-02-30" }, wantErr: "YYYY-MM-DD"},
		{name: "missing account", mutate: func(tr *Transaction) { tr.AccountID = "" }, wantErr: "Account ID is required"},
		{name: "missing description", mutate: func(tr *Transaction) { tr.Description = "" }, wantErr: "Description is required"},
		{name: "missing icon", mutate: func(tr *Transaction) { tr.Icon = "" }, wantErr: "Transaction icon is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transaction := validTransaction()
			tt.mutate(&transaction)
			err := transaction.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, financeErrors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTransactionPatchMergesBeforeValidation(t *testing.T) {
	transaction := validTransaction()
	amount := decimal.NewFromInt(40)
	credit := TransactionTypeCredit

	TransactionPatch{Amount: &amount}.Apply(&transaction)
	assert.Error(t, transaction.Validate())

	TransactionPatch{Type: &credit}.Apply(&transaction)
	assert.NoError(t, transaction.Validate())
}

func TestGoalValidateAndProgress(t *testing.T) {
	goal := Goal{
		OwnerID:      "owner-1",
		Name:         "Emergency fund",
		TargetAmount: decimal.NewFromInt(1000),
		SavedAmount:  decimal.NewFromInt(1250),
		Icon:         "shield",
	}
	require.NoError(t, goal.Validate())
	assert.True(t, decimal.NewFromInt(125).Equal(goal.Progress()))

	goal.TargetAmount = decimal.Zero
	assert.Error(t, goal.Validate())

	goal.TargetAmount = decimal.NewFromInt(10)
	goal.SavedAmount = decimal.NewFromInt(-1)
	assert.Error(t, goal.Validate())
}

func TestCursorRoundTripAndScope(t *testing.T) {
	last := Transaction{ID: "tx-9", Date: "2024-03-01"}
	cursor := EncodeCursor("owner-1", "acc-1", last)

	position, err := DecodeCursor(cursor, "owner-1", "acc-1")
	require.NoError(t, err)
	assert.Equal(t, &CursorPosition{Date: "2024-03-01", ID: "tx-9"}, position)

	_, err = DecodeCursor(cursor, "owner-1", "acc-2")
	assert.True(t, financeErrors.IsValidationError(err))

	_, err = DecodeCursor(cursor, "owner-2", "acc-1")
	assert.True(t, financeErrors.IsValidationError(err))

	_, err = DecodeCursor("not-a-cursor!", "owner-1", "acc-1")
	assert.ErrorIs(t, err, financeErrors.ErrInvalidCursor)

	position, err = DecodeCursor("", "owner-1", "acc-1")
	assert.NoError(t, err)
	assert.Nil(t, position)
}

func TestNormalizePageSize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, NormalizePageSize(0))
	assert.Equal(t, 25, NormalizePageSize(25))
	assert.Equal(t, MaxPageSize, NormalizePageSize(1000))
}

func TestEveryCategoryHasIcon(t *testing.T) {
	for _, category := range Categories {
		assert.NotEmpty(t, CategoryIcon(category), category)
	}
	assert.Empty(t, CategoryIcon("Pets"))
}
