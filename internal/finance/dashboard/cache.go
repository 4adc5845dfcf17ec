package dashboard

import "github.com/sebuszqo/FinanceDashboard/internal/finance/domain"

type Key struct {
	OwnerID   string
	AccountID string
}

// Entry is the locally held copy of one account's transactions.
type Entry struct {
	Transactions []domain.Transaction
	Pager        *Pager
	// Stale is set by Invalidate and cleared when page one arrives again.
	Stale bool
}

// Cache holds transaction lists keyed by owner and account. Entries are only
// refreshed through explicit invalidation.
type Cache struct {
	entries map[Key]*Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*Entry)}
}

// Entry returns the entry for key, creating an empty one if needed.
func (c *Cache) Entry(key Key) *Entry {
	entry, ok := c.entries[key]
	if !ok {
		entry = &Entry{Transactions: []domain.Transaction{}, Pager: NewPager()}
		c.entries[key] = entry
	}
	return entry
}

func (c *Cache) Peek(key Key) (*Entry, bool) {
	entry, ok := c.entries[key]
	return entry, ok
}

// Invalidate resets the pager of key. The transactions stay readable until the
// next successful first page replaces them.
func (c *Cache) Invalidate(key Key) {
	if entry, ok := c.entries[key]; ok {
		entry.Pager.Reset()
		entry.Stale = true
	}
}

// Drop forgets key entirely, including any fetch in flight for it.
func (c *Cache) Drop(key Key) {
	if entry, ok := c.entries[key]; ok {
		entry.Pager.Reset()
		delete(c.entries, key)
	}
}

func (c *Cache) Len() int {
	return len(c.entries)
}
