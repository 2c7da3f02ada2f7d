package pager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-nw/msafe-core/exceptions"
	"github.com/aura-nw/msafe-core/transaction/common"
)

func TestNextPageBeforeFirstFetchFails(t *testing.T) {
	c := New()

	_, err := c.NextQueuePage("aura-1", "aura1safe")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)

	_, err = c.NextHistoryPage("aura-1", "aura1safe")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)
}

func TestRecordThenNext(t *testing.T) {
	c := New()

	c.RecordQueuePage("aura-1", "aura1safe",
		&PageQuery{PageIndex: 2, PageSize: 50}, nil,
		[]common.Transaction{{ID: "tx-1"}})

	cursor, err := c.NextQueuePage("aura-1", "aura1safe")
	require.NoError(t, err)
	require.Equal(t, PageQuery{PageIndex: 2, PageSize: 50}, cursor)

	// history pointer is independent of the queue pointer
	_, err = c.NextHistoryPage("aura-1", "aura1safe")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)
}

func TestExhaustedCursor(t *testing.T) {
	c := New()

	c.RecordHistoryPage("aura-1", "aura1safe", nil, &PageQuery{PageIndex: 1, PageSize: 50}, nil)

	_, err := c.NextHistoryPage("aura-1", "aura1safe")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)
}

func TestRecordSamePageTwiceIsIdempotent(t *testing.T) {
	c := New()
	items := []common.Transaction{{ID: "tx-1"}, {ID: "tx-2"}}

	c.RecordQueuePage("aura-1", "aura1safe", &PageQuery{PageIndex: 2, PageSize: 50}, nil, items)
	c.RecordQueuePage("aura-1", "aura1safe", &PageQuery{PageIndex: 2, PageSize: 50}, nil, items)

	cursor, err := c.NextQueuePage("aura-1", "aura1safe")
	require.NoError(t, err)
	require.Equal(t, 2, cursor.PageIndex)

	snap, ok := c.QueueSnapshot("aura-1", "aura1safe")
	require.True(t, ok)
	require.Len(t, snap, 2)
}

func TestPointersKeyedByChainAndSafe(t *testing.T) {
	c := New()

	c.RecordQueuePage("aura-1", "aura1safe", &PageQuery{PageIndex: 2, PageSize: 50}, nil, nil)

	_, err := c.NextQueuePage("aura-2", "aura1safe")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)

	_, err = c.NextQueuePage("aura-1", "aura1other")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)
}

func TestForget(t *testing.T) {
	c := New()

	c.RecordQueuePage("aura-1", "aura1safe", &PageQuery{PageIndex: 2, PageSize: 50}, nil, nil)
	c.RecordHistoryPage("aura-1", "aura1safe", &PageQuery{PageIndex: 2, PageSize: 50}, nil, nil)
	c.Forget("aura-1", "aura1safe")

	_, err := c.NextQueuePage("aura-1", "aura1safe")
	require.ErrorIs(t, err, exceptions.ErrNoNextPage)
	_, ok := c.HistorySnapshot("aura-1", "aura1safe")
	require.False(t, ok)
}
