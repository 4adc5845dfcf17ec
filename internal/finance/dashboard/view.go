package dashboard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

// Snapshot is a copy of the view state safe to hand to a renderer.
type Snapshot struct {
	OwnerID             string
	SelectedAccountID   string
	Accounts            []domain.Account
	Transactions        []domain.Transaction
	HasMore             bool
	LoadingAccounts     bool
	LoadingTransactions bool
	// Stale is true while the rows predate the last write, i.e. the refetch failed or is pending.
	Stale bool
	// Err is the last failure, shown as a banner. Successful fetches clear it.
	Err error
}

// View keeps one owner's local copy of accounts and of the selected account's
// transactions in line with the store. Every write goes to the store first and the
// affected lists are then fetched again; nothing is updated optimistically.
type View struct {
	store    Store
	ownerID  string
	pageSize int
	log      zerolog.Logger

	mu          sync.Mutex
	accounts    []domain.Account
	accountsGen uint64
	loadingAccs bool
	selected    string
	cache       *Cache
	lastErr     error
}

func NewView(store Store, ownerID string, pageSize int, log zerolog.Logger) *View {
	return &View{
		store:    store,
		ownerID:  ownerID,
		pageSize: domain.NormalizePageSize(pageSize),
		log:      log.With().Str("owner_id", ownerID).Logger(),
		accounts: []domain.Account{},
		cache:    NewCache(),
	}
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snapshot := Snapshot{
		OwnerID:           v.ownerID,
		SelectedAccountID: v.selected,
		Accounts:          append([]domain.Account(nil), v.accounts...),
		LoadingAccounts:   v.loadingAccs,
		Err:               v.lastErr,
	}
	if entry, ok := v.cache.Peek(v.key()); ok && v.selected != "" {
		snapshot.Transactions = append([]domain.Transaction(nil), entry.Transactions...)
		snapshot.HasMore = entry.Pager.HasMore()
		snapshot.LoadingTransactions = entry.Pager.InFlight()
		snapshot.Stale = entry.Stale
	}
	return snapshot
}

// Load fetches the account list, settles the selection and loads its first page.
func (v *View) Load(ctx context.Context) error {
	return v.refreshAccounts(ctx)
}

// Select switches to accountID, discarding the previous account's transactions and cursor.
func (v *View) Select(ctx context.Context, accountID string) error {
	v.mu.Lock()
	previous := v.key()
	v.selected = accountID
	v.cache.Drop(previous)
	v.cache.Drop(v.key())
	v.mu.Unlock()

	return v.loadFirstPage(ctx)
}

// LoadMore appends the next page of the selected account.
func (v *View) LoadMore(ctx context.Context) error {
	v.mu.Lock()
	if v.selected == "" {
		v.mu.Unlock()
		return ErrNotLoaded
	}
	key := v.key()
	entry := v.cache.Entry(key)
	ticket, err := entry.Pager.BeginNext()
	v.mu.Unlock()
	if err != nil {
		return err
	}

	page, err := v.store.ListTransactionsPage(ctx, key.AccountID, key.OwnerID, ticket.Cursor, v.pageSize)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.current(key, entry) {
		v.log.Debug().Str("account_id", key.AccountID).Msg("Discarding page for deselected account")
		return nil
	}
	if err != nil {
		if entry.Pager.Fail(ticket) {
			v.lastErr = err
		}
		return err
	}
	if entry.Pager.Complete(ticket, page) {
		entry.Transactions = append(entry.Transactions, page.Transactions...)
		v.lastErr = nil
	}
	return nil
}

func (v *View) CreateAccount(ctx context.Context, account *domain.Account) (string, error) {
	account.OwnerID = v.ownerID
	id, err := v.store.CreateAccount(ctx, account)
	if err != nil {
		v.fail(err)
		return "", err
	}
	return id, v.refreshAccounts(ctx)
}

func (v *View) UpdateAccount(ctx context.Context, accountID string, patch domain.AccountPatch) error {
	if err := v.store.UpdateAccount(ctx, accountID, v.ownerID, patch); err != nil {
		v.fail(err)
		return err
	}
	return v.refreshAccounts(ctx)
}

func (v *View) DeleteAccount(ctx context.Context, accountID string) error {
	if err := v.store.DeleteAccount(ctx, accountID, v.ownerID); err != nil {
		v.fail(err)
		return err
	}
	v.mu.Lock()
	v.cache.Drop(Key{OwnerID: v.ownerID, AccountID: accountID})
	v.mu.Unlock()
	return v.refreshAccounts(ctx)
}

func (v *View) CreateTransaction(ctx context.Context, transaction *domain.Transaction) (string, error) {
	transaction.OwnerID = v.ownerID
	id, err := v.store.CreateTransaction(ctx, transaction)
	if err != nil {
		v.fail(err)
		return "", err
	}
	return id, v.transactionsChanged(ctx, transaction.AccountID)
}

func (v *View) UpdateTransaction(ctx context.Context, transactionID string, patch domain.TransactionPatch) error {
	if err := v.store.UpdateTransaction(ctx, transactionID, v.ownerID, patch); err != nil {
		v.fail(err)
		return err
	}
	var moved string
	if patch.AccountID != nil {
		moved = *patch.AccountID
	}
	return v.transactionsChanged(ctx, moved)
}

func (v *View) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := v.store.DeleteTransaction(ctx, transactionID, v.ownerID); err != nil {
		v.fail(err)
		return err
	}
	return v.transactionsChanged(ctx, "")
}

// transactionsChanged invalidates the selected account, and accountID when it is a
// different one, then refetches page one. The account list is left alone.
func (v *View) transactionsChanged(ctx context.Context, accountID string) error {
	v.mu.Lock()
	v.cache.Invalidate(v.key())
	if accountID != "" && accountID != v.selected {
		v.cache.Drop(Key{OwnerID: v.ownerID, AccountID: accountID})
	}
	v.mu.Unlock()
	return v.loadFirstPage(ctx)
}

func (v *View) refreshAccounts(ctx context.Context) error {
	v.mu.Lock()
	v.accountsGen++
	generation := v.accountsGen
	v.loadingAccs = true
	v.mu.Unlock()

	accounts, err := v.store.ListAccounts(ctx, v.ownerID)

	v.mu.Lock()
	if generation != v.accountsGen {
		v.mu.Unlock()
		return nil
	}
	v.loadingAccs = false
	if err != nil {
		v.lastErr = err
		v.mu.Unlock()
		v.log.Warn().Err(err).Msg("Failed to refresh accounts, keeping previous list")
		return err
	}
	v.accounts = accounts
	v.lastErr = nil
	previous := v.selected
	v.selected = settleSelection(previous, accounts)
	if v.selected != previous {
		v.cache.Drop(Key{OwnerID: v.ownerID, AccountID: previous})
	}
	entry, cached := v.cache.Peek(v.key())
	loaded := cached && (entry.Pager.State() == PagerLoaded || entry.Pager.InFlight())
	v.mu.Unlock()

	if loaded {
		return nil
	}
	return v.loadFirstPage(ctx)
}

func (v *View) loadFirstPage(ctx context.Context) error {
	v.mu.Lock()
	if v.selected == "" {
		v.mu.Unlock()
		return nil
	}
	key := v.key()
	entry := v.cache.Entry(key)
	ticket, err := entry.Pager.BeginFirst()
	v.mu.Unlock()
	if err != nil {
		return err
	}

	page, err := v.store.ListTransactionsPage(ctx, key.AccountID, key.OwnerID, "", v.pageSize)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.current(key, entry) {
		v.log.Debug().Str("account_id", key.AccountID).Msg("Discarding page for deselected account")
		return nil
	}
	if err != nil {
		if entry.Pager.Fail(ticket) {
			v.lastErr = err
		}
		return err
	}
	if entry.Pager.Complete(ticket, page) {
		entry.Transactions = page.Transactions
		entry.Stale = false
		v.lastErr = nil
	}
	return nil
}

func (v *View) fail(err error) {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
}

// current reports whether entry is still the live entry of the selected account.
// Callers hold v.mu.
func (v *View) current(key Key, entry *Entry) bool {
	if key != v.key() {
		return false
	}
	live, ok := v.cache.Peek(key)
	return ok && live == entry
}

func (v *View) key() Key {
	return Key{OwnerID: v.ownerID, AccountID: v.selected}
}

// settleSelection keeps selected when it is still listed, otherwise falls back to
// the first account or to none.
func settleSelection(selected string, accounts []domain.Account) string {
	for _, account := range accounts {
		if account.ID == selected {
			return selected
		}
	}
	if len(accounts) > 0 {
		return accounts[0].ID
	}
	return ""
}
