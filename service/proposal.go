package service

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/transaction/composer"
)

// ProposalView is the read-only governance projection with display fields
// attached. Nothing here is mutated by this service.
type ProposalView struct {
	gateway.Proposal
	VotingEnds   string `json:"votingEnds"`
	DepositShown string `json:"depositShown"`
}

// ListProposals returns the chain's governance proposals for display.
func (s *Service) ListProposals(ctx context.Context) ([]ProposalView, error) {
	proposals, err := s.Client.ListProposals(ctx, s.Chain.InternalChainID)
	if err != nil {
		return nil, err
	}

	views := make([]ProposalView, 0, len(proposals))
	for _, p := range proposals {
		views = append(views, s.proposalView(p))
	}
	return views, nil
}

func (s *Service) GetProposal(ctx context.Context, proposalID int64) (*ProposalView, error) {
	p, err := s.Client.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	v := s.proposalView(*p)
	return &v, nil
}

func (s *Service) proposalView(p gateway.Proposal) ProposalView {
	v := ProposalView{Proposal: p, VotingEnds: humanize.Time(p.VotingEndTime)}
	for _, d := range p.TotalDeposit {
		if d.Denom != s.Chain.Denom {
			continue
		}
		if shown, err := composer.FromBaseUnits(d.Amount, s.Chain.Decimals); err == nil {
			v.DepositShown = shown + " " + s.Chain.Symbol
		}
	}
	return v
}
