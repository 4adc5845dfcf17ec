package dashboard

import (
	"errors"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/domain"
)

var (
	ErrFetchInFlight = errors.New("a page fetch is already in progress")
	ErrNoMorePages   = errors.New("no more pages to load")
	ErrNotLoaded     = errors.New("first page has not been loaded")
)

type PagerState int

const (
	PagerEmpty PagerState = iota
	PagerLoaded
)

func (s PagerState) String() string {
	if s == PagerLoaded {
		return "loaded"
	}
	return "empty"
}

// Ticket identifies one fetch. A ticket issued before a Reset no longer matches.
type Ticket struct {
	generation uint64
	Cursor     string
}

// Pager tracks the cursor of one account's transaction list. It is not safe for
// concurrent use; View serializes access to it.
type Pager struct {
	state      PagerState
	cursor     string
	hasMore    bool
	inFlight   bool
	generation uint64
}

func NewPager() *Pager {
	return &Pager{}
}

func (p *Pager) State() PagerState { return p.state }
func (p *Pager) Cursor() string    { return p.cursor }
func (p *Pager) HasMore() bool     { return p.state == PagerLoaded && p.hasMore }
func (p *Pager) InFlight() bool    { return p.inFlight }

// BeginFirst starts fetching page one. It is allowed from any state.
func (p *Pager) BeginFirst() (Ticket, error) {
	if p.inFlight {
		return Ticket{}, ErrFetchInFlight
	}
	p.inFlight = true
	return Ticket{generation: p.generation}, nil
}

// BeginNext starts fetching the page after the current cursor.
func (p *Pager) BeginNext() (Ticket, error) {
	if p.inFlight {
		return Ticket{}, ErrFetchInFlight
	}
	if p.state != PagerLoaded {
		return Ticket{}, ErrNotLoaded
	}
	if !p.hasMore {
		return Ticket{}, ErrNoMorePages
	}
	p.inFlight = true
	return Ticket{generation: p.generation, Cursor: p.cursor}, nil
}

// Complete records a fetched page. It reports false and changes nothing when the
// ticket is stale.
func (p *Pager) Complete(t Ticket, page domain.Page) bool {
	if t.generation != p.generation {
		return false
	}
	p.inFlight = false
	p.state = PagerLoaded
	p.cursor = page.NextCursor
	p.hasMore = page.HasMore()
	return true
}

// Fail ends a fetch without moving the cursor.
func (p *Pager) Fail(t Ticket) bool {
	if t.generation != p.generation {
		return false
	}
	p.inFlight = false
	return true
}

// Reset returns to the empty state and invalidates outstanding tickets.
func (p *Pager) Reset() {
	p.generation++
	p.state = PagerEmpty
	p.cursor = ""
	p.hasMore = false
	p.inFlight = false
}
