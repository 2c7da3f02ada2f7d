// Package coordinator derives, for one owner looking at one queued
// transaction, the lifecycle state and the set of permitted actions. It is
// re-evaluated on every poll; a sequence conflict is a state here, not an
// error.
package coordinator

import "github.com/aura-nw/msafe-core/transaction/common"

type State int

const (
	StateAwaitingConfirmations State = iota
	StateAwaitingExecution
	StateExecuted
	StateFailed
	StateRejected
	StateReplaced
	// StateSequenceBlocked gates a transaction whose sequence is not the
	// safe's current sequence. Non-terminal: it clears once earlier
	// transactions execute and the account sequence advances.
	StateSequenceBlocked
)

func (s State) String() string {
	switch s {
	case StateAwaitingConfirmations:
		return "awaiting-confirmations"
	case StateAwaitingExecution:
		return "awaiting-execution"
	case StateExecuted:
		return "executed"
	case StateFailed:
		return "failed"
	case StateRejected:
		return "rejected"
	case StateReplaced:
		return "replaced"
	case StateSequenceBlocked:
		return "sequence-blocked"
	}
	return "unknown"
}

// Assessment is the coordinator's verdict for one (transaction, owner) pair.
type Assessment struct {
	State   State
	Actions []common.Action

	// AlreadyConfirmed / AlreadyRejected drive the "you confirmed" /
	// "you rejected" notices while the transaction is still collecting
	// signatures.
	AlreadyConfirmed bool
	AlreadyRejected  bool

	// Pending is set while a local action on this transaction is in flight;
	// all actions are withheld until the gateway reflects the result.
	Pending bool
}

// Allows reports whether the assessment permits the given action.
func (a Assessment) Allows(action common.Action) bool {
	for _, x := range a.Actions {
		if x == action {
			return true
		}
	}
	return false
}

// Evaluate runs the transition rules:
//
//	AwaitingConfirmations -> AwaitingExecution -> Executed
//
// with Rejected/Failed terminal branches and SequenceBlocked as a
// non-terminal gate. The sequence gate wins over everything else: strict
// FIFO execution order, because the chain account sequence is sequential.
// Once the confirmation threshold is met only execute is offered, even to an
// owner who rejected; rejections here do not block execution.
func Evaluate(safe *common.Safe, tx *common.Transaction, owner string) Assessment {
	a := Assessment{
		AlreadyConfirmed: tx.ConfirmedBy(owner),
		AlreadyRejected:  tx.RejectedBy(owner),
		Pending:          tx.LocalPending,
	}

	if tx.Status.Terminal() {
		a.State = terminalState(tx.Status)
		return a
	}

	required := tx.ConfirmationsRequired
	if required == 0 {
		required = safe.Threshold
	}

	switch {
	case tx.Sequence != safe.Sequence:
		a.State = StateSequenceBlocked
	case len(tx.Confirmations) >= required:
		a.State = StateAwaitingExecution
	default:
		a.State = StateAwaitingConfirmations
	}

	// Only owners act, and never while a local action is in flight.
	if a.Pending || !safe.IsOwner(owner) {
		return a
	}

	switch a.State {
	case StateSequenceBlocked:
		a.Actions = []common.Action{common.ActionDelete, common.ActionChangeSequence}
	case StateAwaitingExecution:
		a.Actions = []common.Action{common.ActionExecute}
	case StateAwaitingConfirmations:
		if a.AlreadyConfirmed || a.AlreadyRejected {
			a.Actions = []common.Action{common.ActionDelete, common.ActionChangeSequence}
		} else {
			a.Actions = []common.Action{
				common.ActionConfirm,
				common.ActionReject,
				common.ActionDelete,
				common.ActionChangeSequence,
			}
		}
	}
	return a
}

func terminalState(s common.Status) State {
	switch s {
	case common.StatusSuccess:
		return StateExecuted
	case common.StatusFailed:
		return StateFailed
	case common.StatusReplaced:
		return StateReplaced
	default:
		return StateRejected
	}
}
