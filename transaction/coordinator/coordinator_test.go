package coordinator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aura-nw/msafe-core/transaction/common"
)

const (
	alice = "aura1alice"
	bob   = "aura1bob"
	carol = "aura1carol"
	dave  = "aura1dave" // not an owner
)

func testSafe() *common.Safe {
	return &common.Safe{
		SafeID:    1,
		Address:   "aura1safe",
		ChainID:   "aura-1",
		Owners:    []string{alice, bob, carol},
		Threshold: 2,
		Sequence:  5,
	}
}

func queuedTx(seq int64) *common.Transaction {
	return &common.Transaction{
		ID:       "tx-1",
		Sequence: seq,
		Status:   common.StatusAwaitingConfirmations,
	}
}

func confirm(tx *common.Transaction, owners ...string) *common.Transaction {
	for _, o := range owners {
		tx.Confirmations = append(tx.Confirmations, common.Confirmation{Owner: o})
	}
	return tx
}

func TestFreshTransactionOffersAllActions(t *testing.T) {
	a := Evaluate(testSafe(), queuedTx(5), alice)

	require.Equal(t, StateAwaitingConfirmations, a.State)
	require.Equal(t, []common.Action{
		common.ActionConfirm, common.ActionReject, common.ActionDelete, common.ActionChangeSequence,
	}, a.Actions)
	require.False(t, a.AlreadyConfirmed)
	require.False(t, a.AlreadyRejected)
}

func TestThresholdMetOffersExactlyExecute(t *testing.T) {
	tx := confirm(queuedTx(5), alice, bob)

	for _, owner := range []string{alice, bob, carol} {
		a := Evaluate(testSafe(), tx, owner)
		require.Equal(t, StateAwaitingExecution, a.State)
		require.Equal(t, []common.Action{common.ActionExecute}, a.Actions, "owner %s", owner)
	}
}

// An owner who rejected still sees execute once the threshold is met:
// rejections do not veto execution.
func TestRejectionDoesNotBlockExecute(t *testing.T) {
	tx := confirm(queuedTx(5), alice, bob)
	tx.Rejections = []string{carol}

	a := Evaluate(testSafe(), tx, carol)
	require.Equal(t, StateAwaitingExecution, a.State)
	require.True(t, a.AlreadyRejected)
	require.Equal(t, []common.Action{common.ActionExecute}, a.Actions)
}

func TestSequenceMismatchOffersExactlyDeleteAndChangeSequence(t *testing.T) {
	// fully confirmed, but the safe's sequence has not reached it yet
	tx := confirm(queuedTx(6), alice, bob)

	a := Evaluate(testSafe(), tx, alice)
	require.Equal(t, StateSequenceBlocked, a.State)
	require.Equal(t, []common.Action{common.ActionDelete, common.ActionChangeSequence}, a.Actions)
}

func TestSequenceGateClearsWhenSafeAdvances(t *testing.T) {
	safe := testSafe()
	tx := confirm(queuedTx(6), alice, bob)

	require.Equal(t, StateSequenceBlocked, Evaluate(safe, tx, alice).State)

	safe.Sequence = 6
	a := Evaluate(safe, tx, alice)
	require.Equal(t, StateAwaitingExecution, a.State)
	require.Equal(t, []common.Action{common.ActionExecute}, a.Actions)
}

// Threshold-2 walk: A confirms, B looks, then B confirms, then anyone can
// execute.
func TestTwoOfThreeLifecycle(t *testing.T) {
	safe := testSafe()
	tx := confirm(queuedTx(5), alice)

	// alice already signed: she can only withdraw or reschedule
	a := Evaluate(safe, tx, alice)
	require.Equal(t, StateAwaitingConfirmations, a.State)
	require.True(t, a.AlreadyConfirmed)
	require.Equal(t, []common.Action{common.ActionDelete, common.ActionChangeSequence}, a.Actions)

	// bob has not signed yet
	b := Evaluate(safe, tx, bob)
	require.True(t, b.Allows(common.ActionConfirm))
	require.True(t, b.Allows(common.ActionReject))

	confirm(tx, bob)
	c := Evaluate(safe, tx, carol)
	require.Equal(t, StateAwaitingExecution, c.State)
	require.Equal(t, []common.Action{common.ActionExecute}, c.Actions)
}

func TestAlreadyRejectedAffordances(t *testing.T) {
	tx := queuedTx(5)
	tx.Rejections = []string{alice}

	a := Evaluate(testSafe(), tx, alice)
	require.Equal(t, StateAwaitingConfirmations, a.State)
	require.True(t, a.AlreadyRejected)
	require.Equal(t, []common.Action{common.ActionDelete, common.ActionChangeSequence}, a.Actions)
}

func TestNonOwnerGetsNoActions(t *testing.T) {
	a := Evaluate(testSafe(), confirm(queuedTx(5), alice, bob), dave)
	require.Equal(t, StateAwaitingExecution, a.State)
	require.Empty(t, a.Actions)
}

func TestPendingWithholdsAllActions(t *testing.T) {
	tx := confirm(queuedTx(5), alice, bob)
	tx.LocalPending = true

	a := Evaluate(testSafe(), tx, alice)
	require.Equal(t, StateAwaitingExecution, a.State)
	require.True(t, a.Pending)
	require.Empty(t, a.Actions)
}

func TestPerTransactionRequirementOverridesThreshold(t *testing.T) {
	tx := confirm(queuedTx(5), alice, bob)
	tx.ConfirmationsRequired = 3

	a := Evaluate(testSafe(), tx, carol)
	require.Equal(t, StateAwaitingConfirmations, a.State)
	require.True(t, a.Allows(common.ActionConfirm))
}

func TestTerminalStates(t *testing.T) {
	tests := []struct {
		status common.Status
		want   State
	}{
		{common.StatusSuccess, StateExecuted},
		{common.StatusFailed, StateFailed},
		{common.StatusRejected, StateRejected},
		{common.StatusReplaced, StateReplaced},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			tx := queuedTx(5)
			tx.Status = tt.status
			a := Evaluate(testSafe(), tx, alice)
			require.Equal(t, tt.want, a.State)
			require.Empty(t, a.Actions)
		})
	}
}
