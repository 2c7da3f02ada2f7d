// Package reconcile merges freshly fetched transaction pages into the
// id-keyed collection this service serves from. A poll that returns a page
// structurally equal to the previous one produces no state write, so an
// unchanged queue head never causes downstream churn.
package reconcile

import (
	"reflect"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/pager"
)

type key struct {
	chainID     string
	safeAddress string
}

// Reconciler owns the pagination cache and the per-safe transaction
// collections. Construct one per session and pass it by reference.
type Reconciler struct {
	cache *pager.Cache

	mu          sync.Mutex
	collections map[key]map[string]*common.Transaction
}

func New() *Reconciler {
	return &Reconciler{
		cache:       pager.New(),
		collections: make(map[key]map[string]*common.Transaction),
	}
}

// Cache exposes the pagination pointer cache for callers that request pages.
func (r *Reconciler) Cache() *pager.Cache {
	return r.cache
}

// MergeQueuePage folds a fetched queue page into the collection and records
// the cursor. The boolean is false when the page equals the last snapshot:
// the "no update" signal, letting pollers skip the store write.
func (r *Reconciler) MergeQueuePage(chainID, safeAddress string, fresh []common.Transaction, next, previous *pager.PageQuery) bool {
	snapshot, seen := r.cache.QueueSnapshot(chainID, safeAddress)
	r.cache.RecordQueuePage(chainID, safeAddress, next, previous, fresh)

	if seen && reflect.DeepEqual(fresh, snapshot) {
		return false
	}
	r.merge(chainID, safeAddress, fresh)
	return true
}

// MergeHistoryPage is MergeQueuePage for the history list.
func (r *Reconciler) MergeHistoryPage(chainID, safeAddress string, fresh []common.Transaction, next, previous *pager.PageQuery) bool {
	snapshot, seen := r.cache.HistorySnapshot(chainID, safeAddress)
	r.cache.RecordHistoryPage(chainID, safeAddress, next, previous, fresh)

	if seen && reflect.DeepEqual(fresh, snapshot) {
		return false
	}
	r.merge(chainID, safeAddress, fresh)
	return true
}

// merge keys the fresh records by id, carrying over local optimistic fields
// the gateway does not know about yet.
func (r *Reconciler) merge(chainID, safeAddress string, fresh []common.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{chainID, safeAddress}
	coll, ok := r.collections[k]
	if !ok {
		coll = make(map[string]*common.Transaction)
		r.collections[k] = coll
	}

	for i := range fresh {
		tx := fresh[i]
		if prev, ok := coll[tx.ID]; ok && prev.LocalPending && !tx.Status.Terminal() {
			tx.LocalPending = true
		}
		coll[tx.ID] = &tx
	}
}

// MarkPending flags a transaction with an in-flight local action. The flag
// clears on its own once the gateway reports a terminal status.
func (r *Reconciler) MarkPending(chainID, safeAddress, txID string, pending bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if coll, ok := r.collections[key{chainID, safeAddress}]; ok {
		if tx, ok := coll[txID]; ok {
			tx.LocalPending = pending
		}
	}
}

// Get returns a transaction by id.
func (r *Reconciler) Get(chainID, safeAddress, txID string) (common.Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	coll, ok := r.collections[key{chainID, safeAddress}]
	if !ok {
		return common.Transaction{}, false
	}
	tx, ok := coll[txID]
	if !ok {
		return common.Transaction{}, false
	}
	return *tx, true
}

// Queue returns the non-terminal transactions ordered for display: ascending
// by sequence, oldest pending first.
func (r *Reconciler) Queue(chainID, safeAddress string) []common.Transaction {
	txs := r.collect(chainID, safeAddress, false)
	slices.SortFunc(txs, func(a, b common.Transaction) int {
		if a.Sequence != b.Sequence {
			if a.Sequence < b.Sequence {
				return -1
			}
			return 1
		}
		return a.Timestamp.Compare(b.Timestamp)
	})
	return txs
}

// History returns the terminal transactions ordered newest first.
func (r *Reconciler) History(chainID, safeAddress string) []common.Transaction {
	txs := r.collect(chainID, safeAddress, true)
	slices.SortFunc(txs, func(a, b common.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return txs
}

func (r *Reconciler) collect(chainID, safeAddress string, terminal bool) []common.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	var txs []common.Transaction
	for _, tx := range r.collections[key{chainID, safeAddress}] {
		if tx.Status.Terminal() == terminal {
			txs = append(txs, *tx)
		}
	}
	return txs
}

// SequenceGroup is one display bucket of the queue.
type SequenceGroup struct {
	Sequence     int64
	Transactions []common.Transaction
}

// QueueGroups buckets the queue by sequence number, ascending. Transactions
// sharing a sequence (a transaction and its replacement candidates) land in
// the same group.
func (r *Reconciler) QueueGroups(chainID, safeAddress string) []SequenceGroup {
	var groups []SequenceGroup
	for _, tx := range r.Queue(chainID, safeAddress) {
		if n := len(groups); n > 0 && groups[n-1].Sequence == tx.Sequence {
			groups[n-1].Transactions = append(groups[n-1].Transactions, tx)
			continue
		}
		groups = append(groups, SequenceGroup{Sequence: tx.Sequence, Transactions: []common.Transaction{tx}})
	}
	return groups
}

// Forget drops the collection and pagination state for a safe. Called when
// the session switches safe context.
func (r *Reconciler) Forget(chainID, safeAddress string) {
	r.mu.Lock()
	delete(r.collections, key{chainID, safeAddress})
	r.mu.Unlock()
	r.cache.Forget(chainID, safeAddress)
}
