package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/exceptions"
	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/composer"
	"github.com/aura-nw/msafe-core/transaction/coordinator"
	"github.com/aura-nw/msafe-core/transaction/pager"
)

// nextCursor derives the follow-up cursor from the page just fetched; nil
// when the collection is exhausted.
func nextCursor(pageIndex, pageSize int, total int64) *pager.PageQuery {
	if int64(pageIndex*pageSize) >= total {
		return nil
	}
	return &pager.PageQuery{PageIndex: pageIndex + 1, PageSize: pageSize}
}

func prevCursor(pageIndex, pageSize int) *pager.PageQuery {
	if pageIndex <= gateway.FirstPageIndex {
		return nil
	}
	return &pager.PageQuery{PageIndex: pageIndex - 1, PageSize: pageSize}
}

// RefreshQueue polls the first queue page for the safe. The result is
// dropped when the session context changed while the request was in flight.
// The boolean mirrors the reconciler's no-update signal.
func (s *Service) RefreshQueue(ctx context.Context, safe *common.Safe) (bool, error) {
	gen := s.snapshotContext()

	page, err := s.Client.FetchTransactionPage(ctx, safe.Address, false, gateway.FirstPageIndex, gateway.DefaultPageSize)
	if err != nil {
		return false, exceptions.ErrQueueLoad.WithDetail(err.Error())
	}
	if s.stale(gen) {
		s.Logger.Debug("dropping stale queue page", zap.String("safe", safe.Address))
		return false, nil
	}

	next := nextCursor(gateway.FirstPageIndex, gateway.DefaultPageSize, page.TotalCount)
	return s.Rec.MergeQueuePage(s.Chain.ChainID, safe.Address, page.Results, next, nil), nil
}

// RefreshHistory polls the first history page for the safe.
func (s *Service) RefreshHistory(ctx context.Context, safe *common.Safe) (bool, error) {
	gen := s.snapshotContext()

	page, err := s.Client.FetchTransactionPage(ctx, safe.Address, true, gateway.FirstPageIndex, gateway.DefaultPageSize)
	if err != nil {
		return false, exceptions.ErrHistoryLoad.WithDetail(err.Error())
	}
	if s.stale(gen) {
		s.Logger.Debug("dropping stale history page", zap.String("safe", safe.Address))
		return false, nil
	}

	next := nextCursor(gateway.FirstPageIndex, gateway.DefaultPageSize, page.TotalCount)
	return s.Rec.MergeHistoryPage(s.Chain.ChainID, safe.Address, page.Results, next, nil), nil
}

// LoadNextQueuePage fetches the page after the last recorded queue cursor.
// Requesting it before any first-page fetch fails with ErrNoNextPage.
func (s *Service) LoadNextQueuePage(ctx context.Context, safeAddress string) ([]common.Transaction, error) {
	cursor, err := s.Rec.Cache().NextQueuePage(s.Chain.ChainID, safeAddress)
	if err != nil {
		return nil, err
	}

	page, err := s.Client.FetchTransactionPage(ctx, safeAddress, false, cursor.PageIndex, cursor.PageSize)
	if err != nil {
		return nil, exceptions.ErrQueueLoad.WithDetail(err.Error())
	}
	next := nextCursor(cursor.PageIndex, cursor.PageSize, page.TotalCount)
	s.Rec.MergeQueuePage(s.Chain.ChainID, safeAddress, page.Results, next, prevCursor(cursor.PageIndex, cursor.PageSize))
	return page.Results, nil
}

// LoadNextHistoryPage is LoadNextQueuePage for the history list.
func (s *Service) LoadNextHistoryPage(ctx context.Context, safeAddress string) ([]common.Transaction, error) {
	cursor, err := s.Rec.Cache().NextHistoryPage(s.Chain.ChainID, safeAddress)
	if err != nil {
		return nil, err
	}

	page, err := s.Client.FetchTransactionPage(ctx, safeAddress, true, cursor.PageIndex, cursor.PageSize)
	if err != nil {
		return nil, exceptions.ErrHistoryLoad.WithDetail(err.Error())
	}
	next := nextCursor(cursor.PageIndex, cursor.PageSize, page.TotalCount)
	s.Rec.MergeHistoryPage(s.Chain.ChainID, safeAddress, page.Results, next, prevCursor(cursor.PageIndex, cursor.PageSize))
	return page.Results, nil
}

// Assess runs the coordinator for one transaction as seen by owner.
func (s *Service) Assess(safe *common.Safe, txID, owner string) (coordinator.Assessment, error) {
	tx, ok := s.Rec.Get(s.Chain.ChainID, safe.Address, txID)
	if !ok {
		return coordinator.Assessment{}, errors.Errorf("transaction %s not found", txID)
	}
	return coordinator.Evaluate(safe, &tx, owner), nil
}

// ActionRequest is one owner action on a queued transaction. Signed is
// required for confirm/reject (the signature comes from the wallet
// extension); NewSequence only applies to change-sequence.
type ActionRequest struct {
	TransactionID string
	Owner         string
	Signed        composer.SignedPayload
	NewSequence   int64
}

// ApplyAction authorizes the action against the coordinator and dispatches
// it to the gateway. The switch is exhaustive over the action enum; an
// unpermitted action never reaches the network.
func (s *Service) ApplyAction(ctx context.Context, safe *common.Safe, action common.Action, req ActionRequest) error {
	tx, ok := s.Rec.Get(s.Chain.ChainID, safe.Address, req.TransactionID)
	if !ok {
		return errors.Errorf("transaction %s not found", req.TransactionID)
	}

	assessment := coordinator.Evaluate(safe, &tx, req.Owner)
	if !assessment.Allows(action) {
		return errors.Errorf("action %s not permitted in state %s", action, assessment.State)
	}

	switch action {
	case common.ActionConfirm:
		return s.Client.ConfirmTransaction(ctx, gateway.ConfirmTransactionRequest{
			TransactionID:   req.TransactionID,
			OwnerAddress:    req.Owner,
			Signature:       req.Signed.Signature,
			BodyBytes:       req.Signed.BodyBytes,
			InternalChainID: s.Chain.InternalChainID,
		})

	case common.ActionReject:
		return s.Client.RejectTransaction(ctx, gateway.ConfirmTransactionRequest{
			TransactionID:   req.TransactionID,
			OwnerAddress:    req.Owner,
			Signature:       req.Signed.Signature,
			BodyBytes:       req.Signed.BodyBytes,
			InternalChainID: s.Chain.InternalChainID,
		})

	case common.ActionExecute:
		// Optimistic pending marker: the queue shows the broadcast in
		// flight until the gateway reflects a terminal status. On failure
		// the transaction stays AwaitingExecution and the error surfaces;
		// there is no automatic retry.
		s.Rec.MarkPending(s.Chain.ChainID, safe.Address, req.TransactionID, true)
		if err := s.Client.SendTransaction(ctx, req.TransactionID, req.Owner, s.Chain.InternalChainID); err != nil {
			s.Rec.MarkPending(s.Chain.ChainID, safe.Address, req.TransactionID, false)
			return err
		}
		return nil

	case common.ActionDelete:
		return s.Client.DeleteTransaction(ctx, req.TransactionID, req.Owner)

	case common.ActionChangeSequence:
		if req.NewSequence <= 0 {
			return errors.New("change-sequence requires a new sequence number")
		}
		return s.Client.ChangeSequence(ctx, gateway.ChangeSequenceRequest{
			TransactionID: req.TransactionID,
			OwnerAddress:  req.Owner,
			NewSequence:   req.NewSequence,
		})
	}
	return errors.Errorf("unknown action %d", action)
}

// TransactionDetail fetches the full per-transaction view from the gateway.
func (s *Service) TransactionDetail(ctx context.Context, txID string) (*gateway.TxDetail, error) {
	return s.Client.GetTransactionDetail(ctx, txID)
}
