package application

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	database "github.com/sebuszqo/FinanceDashboard/db"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDashboard/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	service, err := database.NewDBService("sqlite3", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	require.NoError(t, service.Migrate(context.Background()))
	return NewSQLStore(service.DB, service.Dialect)
}

func createAccount(t *testing.T, store *Store, ownerID, name string) string {
	t.Helper()
	id, err := store.CreateAccount(context.Background(), &domain.Account{
		OwnerID: ownerID, Name: name, Type: domain.AccountTypeSavings, Icon: "piggy-bank", Last4: "1234",
	})
	require.NoError(t, err)
	return id
}

func createTransactions(t *testing.T, store *Store, ownerID, accountID string, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		_, err := store.CreateTransaction(context.Background(), &domain.Transaction{
			OwnerID:     ownerID,
			AccountID:   accountID,
			Description: fmt.Sprintf("Groceries %d", i),
			Amount:      decimal.NewFromFloat(-12.5),
			Type:        domain.TransactionTypeDebit,
			Category:    domain.CategoryGroceries,
			Date:        fmt.Sprintf("2024-01-%02d", 1+i%28),
			Icon:        domain.CategoryIcon(domain.CategoryGroceries),
		})
		require.NoError(t, err)
	}
}

func TestTwelveTransactionsPageThroughInTwoPages(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Primary Savings")
	createTransactions(t, store, "user-1", accountID, 12)

	first, err := store.ListTransactionsPage(ctx, accountID, "user-1", "", 10)
	require.NoError(t, err)
	assert.Len(t, first.Transactions, 10)
	assert.True(t, first.HasMore())

	second, err := store.ListTransactionsPage(ctx, accountID, "user-1", first.NextCursor, 10)
	require.NoError(t, err)
	assert.Len(t, second.Transactions, 2)
	assert.False(t, second.HasMore())

	seen := map[string]bool{}
	for _, tx := range append(first.Transactions, second.Transactions...) {
		assert.False(t, seen[tx.ID])
		seen[tx.ID] = true
	}
	assert.Len(t, seen, 12)
}

func TestPagingThroughRowsSharingOneDate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Checking")
	for i := 0; i < 25; i++ {
		_, err := store.CreateTransaction(ctx, &domain.Transaction{
			OwnerID:     "user-1",
			AccountID:   accountID,
			Description: fmt.Sprintf("Coffee %d", i),
			Amount:      decimal.NewFromFloat(-3.5),
			Type:        domain.TransactionTypeDebit,
			Category:    domain.CategoryFoodDining,
			Date:        "2024-06-15",
			Icon:        domain.CategoryIcon(domain.CategoryFoodDining),
		})
		require.NoError(t, err)
	}

	var ids []string
	cursor := ""
	pages := 0
	for {
		page, err := store.ListTransactionsPage(ctx, accountID, "user-1", cursor, 10)
		require.NoError(t, err)
		pages++
		for _, tx := range page.Transactions {
			ids = append(ids, tx.ID)
		}
		if !page.HasMore() {
			break
		}
		require.Less(t, pages, 5)
		cursor = page.NextCursor
	}

	assert.Equal(t, 3, pages)
	require.Len(t, ids, 25)
	seen := map[string]bool{}
	for i, id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
		if i > 0 {
			assert.Less(t, id, ids[i-1])
		}
	}
}

func TestExactMultipleOfPageSizeNeedsOneEmptyFetch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Checking")
	createTransactions(t, store, "user-1", accountID, 10)

	first, err := store.ListTransactionsPage(ctx, accountID, "user-1", "", 10)
	require.NoError(t, err)
	assert.True(t, first.HasMore())

	second, err := store.ListTransactionsPage(ctx, accountID, "user-1", first.NextCursor, 10)
	require.NoError(t, err)
	assert.Empty(t, second.Transactions)
	assert.False(t, second.HasMore())
}

func TestDeleteAccountCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Primary Savings")
	createTransactions(t, store, "user-1", accountID, 5)

	require.NoError(t, store.DeleteAccount(ctx, accountID, "user-1"))

	page, err := store.ListTransactionsPage(ctx, accountID, "user-1", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)

	accounts, err := store.ListAccounts(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, accounts)

	err = store.DeleteAccount(ctx, accountID, "user-1")
	assert.True(t, financeErrors.IsNotFoundError(err))
}

func TestUpdateAccountWithWrongOwnerChangesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Primary Savings")

	name := "Stolen"
	err := store.UpdateAccount(ctx, accountID, "user-2", domain.AccountPatch{Name: &name})
	assert.True(t, financeErrors.IsPermissionError(err))

	err = store.DeleteAccount(ctx, accountID, "user-2")
	assert.True(t, financeErrors.IsPermissionError(err))

	accounts, err := store.ListAccounts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Primary Savings", accounts[0].Name)
}

func TestListAccountsIsOwnerScopedAndSorted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	createAccount(t, store, "user-1", "Zeta")
	createAccount(t, store, "user-1", "Alpha")
	createAccount(t, store, "user-2", "Other")

	accounts, err := store.ListAccounts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Alpha", accounts[0].Name)
	assert.Equal(t, "Zeta", accounts[1].Name)
	for _, account := range accounts {
		assert.Equal(t, "user-1", account.OwnerID)
	}

	accounts, err = store.ListAccounts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestOrphanedAccountListsEmpty(t *testing.T) {
	store := newTestStore(t)
	page, err := store.ListTransactionsPage(context.Background(), "no-such-account", "user-1", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.False(t, page.HasMore())
}

func TestCursorFromAnotherAccountIsRejected(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	first := createAccount(t, store, "user-1", "First")
	second := createAccount(t, store, "user-1", "Second")
	createTransactions(t, store, "user-1", first, 3)

	page, err := store.ListTransactionsPage(ctx, first, "user-1", "", 2)
	require.NoError(t, err)
	require.True(t, page.HasMore())

	_, err = store.ListTransactionsPage(ctx, second, "user-1", page.NextCursor, 2)
	assert.True(t, financeErrors.IsValidationError(err))
}

func TestCreateTransactionChecksAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Primary Savings")

	transaction := &domain.Transaction{
		OwnerID: "user-2", AccountID: accountID, Description: "Rent",
		Amount: decimal.NewFromInt(-900), Type: domain.TransactionTypeDebit,
		Category: domain.CategoryHousing, Date: "2024-02-01", Icon: "home",
	}
	_, err := store.CreateTransaction(ctx, transaction)
	assert.True(t, financeErrors.IsPermissionError(err))

	transaction.OwnerID = "user-1"
	transaction.AccountID = "missing"
	_, err = store.CreateTransaction(ctx, transaction)
	assert.True(t, financeErrors.IsNotFoundError(err))
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	accountID := createAccount(t, store, "user-1", "Primary Savings")
	otherAccount := createAccount(t, store, "user-2", "Theirs")

	id, err := store.CreateTransaction(ctx, &domain.Transaction{
		OwnerID: "user-1", AccountID: accountID, Description: "Refund",
		Amount: decimal.RequireFromString("19.999"), Type: domain.TransactionTypeCredit,
		Category: domain.CategoryShopping, Date: "2024-02-01", Icon: "shopping-bag",
	})
	require.NoError(t, err)

	debit := domain.TransactionTypeDebit
	err = store.UpdateTransaction(ctx, id, "user-1", domain.TransactionPatch{Type: &debit})
	assert.True(t, financeErrors.IsValidationError(err))

	err = store.UpdateTransaction(ctx, id, "user-1", domain.TransactionPatch{AccountID: &otherAccount})
	assert.True(t, financeErrors.IsPermissionError(err))

	amount := decimal.NewFromInt(-20)
	require.NoError(t, store.UpdateTransaction(ctx, id, "user-1", domain.TransactionPatch{Type: &debit, Amount: &amount}))

	page, err := store.ListTransactionsPage(ctx, accountID, "user-1", "", 10)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.True(t, amount.Equal(page.Transactions[0].Amount))

	assert.True(t, financeErrors.IsPermissionError(store.DeleteTransaction(ctx, id, "user-2")))
	require.NoError(t, store.DeleteTransaction(ctx, id, "user-1"))
	assert.True(t, financeErrors.IsNotFoundError(store.DeleteTransaction(ctx, id, "user-1")))
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateGoal(ctx, &domain.Goal{
		OwnerID: "user-1", Name: "Emergency fund", TargetAmount: decimal.NewFromInt(5000),
		SavedAmount: decimal.NewFromInt(1200), Icon: "shield",
	})
	require.NoError(t, err)

	_, err = store.CreateGoal(ctx, &domain.Goal{OwnerID: "user-1", Name: "Bad", TargetAmount: decimal.Zero, Icon: "x"})
	assert.True(t, financeErrors.IsValidationError(err))

	saved := decimal.NewFromInt(6000)
	require.NoError(t, store.UpdateGoal(ctx, id, "user-1", domain.GoalPatch{SavedAmount: &saved}))
	assert.True(t, financeErrors.IsPermissionError(store.UpdateGoal(ctx, id, "user-2", domain.GoalPatch{SavedAmount: &saved})))

	goals, err := store.ListGoals(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, decimal.NewFromInt(120).Equal(goals[0].Progress()))

	require.NoError(t, store.DeleteGoal(ctx, id, "user-1"))
	goals, err = store.ListGoals(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, goals)
}
