package service

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/coordinator"
)

// TxView is one transaction as served to the dashboard: the record, its
// coordinator verdict for the requesting owner, and display fields.
type TxView struct {
	common.Transaction
	State            string   `json:"state"`
	Actions          []string `json:"actions"`
	AlreadyConfirmed bool     `json:"alreadyConfirmed"`
	AlreadyRejected  bool     `json:"alreadyRejected"`
	Pending          bool     `json:"pending"`
	Age              string   `json:"age"`
	Signed           string   `json:"signed"`
}

// QueueView returns the pending transactions for the safe, each assessed
// for the requesting owner, ordered oldest sequence first.
func (s *Service) QueueView(safe *common.Safe, owner string) []TxView {
	txs := s.Rec.Queue(s.Chain.ChainID, safe.Address)
	views := make([]TxView, 0, len(txs))
	for i := range txs {
		views = append(views, s.txView(safe, &txs[i], owner))
	}
	return views
}

// HistoryView returns terminal transactions, newest first. No actions apply.
func (s *Service) HistoryView(safe *common.Safe, owner string) []TxView {
	txs := s.Rec.History(s.Chain.ChainID, safe.Address)
	views := make([]TxView, 0, len(txs))
	for i := range txs {
		views = append(views, s.txView(safe, &txs[i], owner))
	}
	return views
}

func (s *Service) txView(safe *common.Safe, tx *common.Transaction, owner string) TxView {
	a := coordinator.Evaluate(safe, tx, owner)

	actions := make([]string, 0, len(a.Actions))
	for _, act := range a.Actions {
		actions = append(actions, act.String())
	}

	required := tx.ConfirmationsRequired
	if required == 0 {
		required = safe.Threshold
	}

	return TxView{
		Transaction:      *tx,
		State:            a.State.String(),
		Actions:          actions,
		AlreadyConfirmed: a.AlreadyConfirmed,
		AlreadyRejected:  a.AlreadyRejected,
		Pending:          a.Pending,
		Age:              humanize.Time(tx.Timestamp),
		Signed:           fmt.Sprintf("%d/%d", len(tx.Confirmations), required),
	}
}
