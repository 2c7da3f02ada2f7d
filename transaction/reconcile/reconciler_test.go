package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/pager"
)

const (
	chainID = "aura-1"
	safe    = "aura1safe"
)

func tx(id string, seq int64, status common.Status, ts time.Time) common.Transaction {
	return common.Transaction{ID: id, SafeAddress: safe, Sequence: seq, Status: status, Timestamp: ts}
}

func TestMergeSamePageTwiceReportsNoUpdate(t *testing.T) {
	r := New()
	now := time.Now()

	require.True(t, r.MergeQueuePage(chainID, safe,
		[]common.Transaction{tx("tx-1", 5, common.StatusAwaitingConfirmations, now)}, nil, nil))
	require.False(t, r.MergeQueuePage(chainID, safe,
		[]common.Transaction{tx("tx-1", 5, common.StatusAwaitingConfirmations, now)}, nil, nil))

	// a changed page flips it back
	changed := tx("tx-1", 5, common.StatusAwaitingConfirmations, now)
	changed.Confirmations = []common.Confirmation{{Owner: "aura1alice"}}
	require.True(t, r.MergeQueuePage(chainID, safe, []common.Transaction{changed}, nil, nil))
}

func TestMergeRecordsCursorEvenWithoutUpdate(t *testing.T) {
	r := New()
	page := []common.Transaction{tx("tx-1", 5, common.StatusAwaitingConfirmations, time.Now())}

	r.MergeQueuePage(chainID, safe, page, &pager.PageQuery{PageIndex: 2, PageSize: 50}, nil)
	r.MergeQueuePage(chainID, safe, page, &pager.PageQuery{PageIndex: 2, PageSize: 50}, nil)

	cursor, err := r.Cache().NextQueuePage(chainID, safe)
	require.NoError(t, err)
	require.Equal(t, 2, cursor.PageIndex)
}

func TestMergePreservesLocalPending(t *testing.T) {
	r := New()
	now := time.Now()

	r.MergeQueuePage(chainID, safe, []common.Transaction{tx("tx-1", 5, common.StatusAwaitingExecution, now)}, nil, nil)
	r.MarkPending(chainID, safe, "tx-1", true)

	// gateway does not know about the in-flight broadcast yet
	fresh := tx("tx-1", 5, common.StatusAwaitingExecution, now)
	fresh.Memo = "refreshed"
	require.True(t, r.MergeQueuePage(chainID, safe, []common.Transaction{fresh}, nil, nil))

	got, ok := r.Get(chainID, safe, "tx-1")
	require.True(t, ok)
	require.True(t, got.LocalPending)
	require.Equal(t, "refreshed", got.Memo)
}

func TestTerminalStatusClearsLocalPending(t *testing.T) {
	r := New()
	now := time.Now()

	r.MergeQueuePage(chainID, safe, []common.Transaction{tx("tx-1", 5, common.StatusAwaitingExecution, now)}, nil, nil)
	r.MarkPending(chainID, safe, "tx-1", true)

	r.MergeHistoryPage(chainID, safe, []common.Transaction{tx("tx-1", 5, common.StatusSuccess, now)}, nil, nil)

	got, ok := r.Get(chainID, safe, "tx-1")
	require.True(t, ok)
	require.False(t, got.LocalPending)
	require.Equal(t, common.StatusSuccess, got.Status)
}

func TestQueueOrderedBySequenceThenTimestamp(t *testing.T) {
	r := New()
	base := time.Now()

	r.MergeQueuePage(chainID, safe, []common.Transaction{
		tx("tx-c", 7, common.StatusAwaitingConfirmations, base),
		tx("tx-a", 5, common.StatusAwaitingConfirmations, base.Add(time.Minute)),
		tx("tx-b", 5, common.StatusAwaitingConfirmations, base),
		tx("tx-done", 4, common.StatusSuccess, base),
	}, nil, nil)

	queue := r.Queue(chainID, safe)
	require.Len(t, queue, 3)
	require.Equal(t, "tx-b", queue[0].ID)
	require.Equal(t, "tx-a", queue[1].ID)
	require.Equal(t, "tx-c", queue[2].ID)
}

func TestHistoryOrderedNewestFirst(t *testing.T) {
	r := New()
	base := time.Now()

	r.MergeHistoryPage(chainID, safe, []common.Transaction{
		tx("tx-old", 1, common.StatusSuccess, base.Add(-time.Hour)),
		tx("tx-new", 3, common.StatusRejected, base),
		tx("tx-mid", 2, common.StatusFailed, base.Add(-time.Minute)),
	}, nil, nil)

	history := r.History(chainID, safe)
	require.Len(t, history, 3)
	require.Equal(t, "tx-new", history[0].ID)
	require.Equal(t, "tx-mid", history[1].ID)
	require.Equal(t, "tx-old", history[2].ID)
}

func TestQueueGroupsBucketBySequence(t *testing.T) {
	r := New()
	base := time.Now()

	r.MergeQueuePage(chainID, safe, []common.Transaction{
		tx("tx-a", 5, common.StatusAwaitingConfirmations, base),
		tx("tx-b", 5, common.StatusAwaitingConfirmations, base.Add(time.Second)),
		tx("tx-c", 6, common.StatusAwaitingConfirmations, base),
	}, nil, nil)

	groups := r.QueueGroups(chainID, safe)
	require.Len(t, groups, 2)
	require.Equal(t, int64(5), groups[0].Sequence)
	require.Len(t, groups[0].Transactions, 2)
	require.Equal(t, int64(6), groups[1].Sequence)
	require.Len(t, groups[1].Transactions, 1)
}

func TestForgetDropsCollectionAndCursors(t *testing.T) {
	r := New()

	r.MergeQueuePage(chainID, safe, []common.Transaction{
		tx("tx-1", 5, common.StatusAwaitingConfirmations, time.Now()),
	}, &pager.PageQuery{PageIndex: 2, PageSize: 50}, nil)

	r.Forget(chainID, safe)

	_, ok := r.Get(chainID, safe, "tx-1")
	require.False(t, ok)
	require.Empty(t, r.Queue(chainID, safe))
	_, err := r.Cache().NextQueuePage(chainID, safe)
	require.Error(t, err)
}
