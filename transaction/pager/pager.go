// Package pager holds per-chain, per-safe pagination state for the queue and
// history transaction lists. The cache is an explicit object constructed per
// session and passed by reference; there is no package-level state.
package pager

import (
	"sync"

	"github.com/aura-nw/msafe-core/exceptions"
	"github.com/aura-nw/msafe-core/transaction/common"
)

// PageQuery is the cursor for one gateway page request.
type PageQuery struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// pointer is the last-seen pagination state for one (chain, safe) list.
// next == nil means the cursor is exhausted (last page reached).
type pointer struct {
	next     *PageQuery
	previous *PageQuery
	items    []common.Transaction
}

type key struct {
	chainID     string
	safeAddress string
}

type Cache struct {
	mu      sync.Mutex
	history map[key]*pointer
	queue   map[key]*pointer
}

func New() *Cache {
	return &Cache{
		history: make(map[key]*pointer),
		queue:   make(map[key]*pointer),
	}
}

// NextHistoryPage returns the cursor for the next history page. It fails
// with exceptions.ErrNoNextPage both when no first page was ever recorded
// (caller misuse: page N+1 before page 1) and when the cursor is exhausted;
// it never silently returns an empty cursor.
func (c *Cache) NextHistoryPage(chainID, safeAddress string) (PageQuery, error) {
	return c.next(c.history, chainID, safeAddress)
}

// NextQueuePage is NextHistoryPage for the queue list.
func (c *Cache) NextQueuePage(chainID, safeAddress string) (PageQuery, error) {
	return c.next(c.queue, chainID, safeAddress)
}

func (c *Cache) next(m map[key]*pointer, chainID, safeAddress string) (PageQuery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := m[key{chainID, safeAddress}]
	if !ok || p.next == nil {
		return PageQuery{}, exceptions.ErrNoNextPage
	}
	return *p.next, nil
}

// RecordHistoryPage overwrites the stored history cursor and snapshot for
// the safe. Recording the same page twice is a no-op in effect; last writer
// wins, which is fine because cursors are re-derivable from a first-page
// fetch.
func (c *Cache) RecordHistoryPage(chainID, safeAddress string, next, previous *PageQuery, items []common.Transaction) {
	c.record(c.history, chainID, safeAddress, next, previous, items)
}

// RecordQueuePage overwrites the stored queue cursor and snapshot.
func (c *Cache) RecordQueuePage(chainID, safeAddress string, next, previous *PageQuery, items []common.Transaction) {
	c.record(c.queue, chainID, safeAddress, next, previous, items)
}

func (c *Cache) record(m map[key]*pointer, chainID, safeAddress string, next, previous *PageQuery, items []common.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m[key{chainID, safeAddress}] = &pointer{next: next, previous: previous, items: items}
}

// QueueSnapshot returns the last recorded queue page for the safe. The
// boolean is false when nothing was recorded yet.
func (c *Cache) QueueSnapshot(chainID, safeAddress string) ([]common.Transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.queue[key{chainID, safeAddress}]
	if !ok {
		return nil, false
	}
	return p.items, true
}

// HistorySnapshot returns the last recorded history page for the safe.
func (c *Cache) HistorySnapshot(chainID, safeAddress string) ([]common.Transaction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.history[key{chainID, safeAddress}]
	if !ok {
		return nil, false
	}
	return p.items, true
}

// Forget drops both pointers for a safe. Called when the session navigates
// away from the safe so a later visit starts from page one.
func (c *Cache) Forget(chainID, safeAddress string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, key{chainID, safeAddress})
	delete(c.queue, key{chainID, safeAddress})
}
