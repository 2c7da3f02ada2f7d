package common

import (
	"encoding/json"
	"time"
)

// Status is the gateway-side lifecycle of a multisig transaction.
type Status string

const (
	StatusAwaitingConfirmations Status = "AWAITING_CONFIRMATIONS"
	StatusAwaitingExecution     Status = "AWAITING_EXECUTION"
	StatusPending               Status = "PENDING"
	StatusSuccess               Status = "SUCCESS"
	StatusFailed                Status = "FAILED"
	StatusReplaced              Status = "REPLACED"
	StatusRejected              Status = "REJECTED"
)

// Terminal reports whether no further owner action can change the transaction.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFailed, StatusReplaced, StatusRejected:
		return true
	}
	return false
}

// Action is an owner-side affordance on a queued transaction.
type Action int

const (
	ActionConfirm Action = iota
	ActionReject
	ActionExecute
	ActionDelete
	ActionChangeSequence
)

func (a Action) String() string {
	switch a {
	case ActionConfirm:
		return "confirm"
	case ActionReject:
		return "reject"
	case ActionExecute:
		return "execute"
	case ActionDelete:
		return "delete"
	case ActionChangeSequence:
		return "change-sequence"
	}
	return "unknown"
}

// ParseAction maps the wire form of an action to its tagged value. The
// boolean is false for anything outside the five known actions, so a typo
// can never fall through to a default branch.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "confirm":
		return ActionConfirm, true
	case "reject":
		return ActionReject, true
	case "execute":
		return ActionExecute, true
	case "delete":
		return ActionDelete, true
	case "change-sequence":
		return ActionChangeSequence, true
	}
	return 0, false
}

type Confirmation struct {
	Owner       string    `json:"ownerAddress"`
	Signature   string    `json:"signature"`
	SubmittedAt time.Time `json:"createdAt"`
}

type Fee struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// Transaction is a queued or historical multisig transaction as tracked by
// this service. Confirmations and Rejections are keyed by owner address on
// the gateway side; Executor is empty until broadcast.
type Transaction struct {
	ID                    string            `json:"id"`
	SafeAddress           string            `json:"safeAddress"`
	Sequence              int64             `json:"sequence"`
	Messages              []json.RawMessage `json:"messages"`
	Fee                   Fee               `json:"fee"`
	GasLimit              uint64            `json:"gasLimit"`
	Memo                  string            `json:"memo"`
	Confirmations         []Confirmation    `json:"confirmations"`
	ConfirmationsRequired int               `json:"confirmationsRequired"`
	Rejections            []string          `json:"rejections"`
	Executor              string            `json:"executor,omitempty"`
	Status                Status            `json:"status"`
	Timestamp             time.Time         `json:"timestamp"`

	// LocalPending marks a transaction with an in-flight local action
	// (broadcast submitted, result not yet reflected by the gateway). It is
	// never sent by the gateway and must survive a reconcile merge.
	LocalPending bool `json:"-"`
}

// ConfirmedBy reports whether owner already signed the transaction.
func (t *Transaction) ConfirmedBy(owner string) bool {
	for _, c := range t.Confirmations {
		if c.Owner == owner {
			return true
		}
	}
	return false
}

// RejectedBy reports whether owner already rejected the transaction.
func (t *Transaction) RejectedBy(owner string) bool {
	for _, r := range t.Rejections {
		if r == owner {
			return true
		}
	}
	return false
}

// Safe is the runtime snapshot of a multisig account, merged from the local
// store and the gateway. Threshold is always within [1, len(Owners)].
type Safe struct {
	SafeID    int64    `json:"safeId"`
	Address   string   `json:"address"`
	ChainID   string   `json:"chainId"`
	Owners    []string `json:"owners"`
	Threshold int      `json:"threshold"`
	Sequence  int64    `json:"sequence"`
}

// IsOwner reports whether addr is one of the safe's owners.
func (s *Safe) IsOwner(addr string) bool {
	for _, o := range s.Owners {
		if o == addr {
			return true
		}
	}
	return false
}
