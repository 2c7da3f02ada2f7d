// Package composer turns form-level input (recipient, amount, token, memo)
// into typed outgoing messages, sizes the gas via a gateway simulation with
// a safety headroom, and hands the wallet-signed payload to the gateway.
package composer

import (
	"context"
	"encoding/json"

	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/transaction/common"
)

// ChainConfig is the per-chain coin and fee configuration the composer
// scales amounts against.
type ChainConfig struct {
	ChainID         string
	InternalChainID int64
	Prefix          string
	Denom           string
	Symbol          string
	Decimals        int32
	GasPrice        decimal.Decimal
}

// Token describes the asset being moved. Type is "native", "CW20" or "ibc".
type Token struct {
	Type        string
	Address     string
	Denom       string
	CosmosDenom string
	Decimals    int32
}

// Draft is a composed, gas-sized transaction awaiting a wallet signature.
type Draft struct {
	Messages []json.RawMessage `json:"messages"`
	GasLimit uint64            `json:"gasLimit"`
	Fee      common.Fee        `json:"fee"`
	Memo     string            `json:"memo"`
	Sequence int64             `json:"sequence"`
}

// SignedPayload is the signature material produced by the wallet extension.
type SignedPayload struct {
	Signature     string `json:"signature"`
	BodyBytes     string `json:"bodyBytes"`
	AuthInfoBytes string `json:"authInfoBytes"`
}

type Composer struct {
	client *gateway.Client
	chain  ChainConfig
	logger *zap.Logger
}

func New(client *gateway.Client, chain ChainConfig, logger *zap.Logger) *Composer {
	return &Composer{client: client, chain: chain, logger: logger}
}

// ValidateAddress checks bech32 form and the chain's address prefix. This
// runs before anything reaches the network layer.
func (c *Composer) ValidateAddress(addr string) error {
	hrp, _, err := bech32.DecodeAndConvert(addr)
	if err != nil {
		return errors.Wrapf(err, "address %q", addr)
	}
	if hrp != c.chain.Prefix {
		return errors.Errorf("address %q is not a %s address", addr, c.chain.Prefix)
	}
	return nil
}

type SendInput struct {
	SafeID      int64
	SafeAddress string
	Recipient   string
	Token       Token
	Amount      string
	Memo        string
	Sequence    int64
}

// ComposeSend builds a native send or, for CW20 tokens, a contract-execute
// transfer.
func (c *Composer) ComposeSend(ctx context.Context, in SendInput) (*Draft, error) {
	if err := c.ValidateAddress(in.Recipient); err != nil {
		return nil, err
	}

	base, err := ToBaseUnits(in.Amount, c.tokenDecimals(in.Token))
	if err != nil {
		return nil, err
	}

	var msg Msg
	if in.Token.Type == "CW20" {
		msg = newTokenTransferMsg(in.SafeAddress, in.Token.Address, in.Recipient, base)
	} else {
		denom := in.Token.Denom
		if in.Token.Type == "ibc" {
			denom = in.Token.CosmosDenom
		}
		if denom == "" {
			denom = c.chain.Denom
		}
		msg = newSendMsg(in.SafeAddress, in.Recipient, denom, base)
	}
	return c.finish(ctx, in.SafeID, []Msg{msg}, in.Memo, in.Sequence)
}

// tokenDecimals picks the scaling for a send. Decimals 0 means the token
// did not declare a decimal count and the chain default applies; a genuine
// 0-decimal token cannot be expressed. Gateway token listings always carry
// the real count.
func (c *Composer) tokenDecimals(t Token) int32 {
	if t.Decimals == 0 {
		return c.chain.Decimals
	}
	return t.Decimals
}

type StakeInput struct {
	SafeID       int64
	SafeAddress  string
	Validator    string
	SrcValidator string // redelegate only
	Amount       string
	Memo         string
	Sequence     int64
}

func (c *Composer) ComposeDelegate(ctx context.Context, in StakeInput) (*Draft, error) {
	return c.composeStake(ctx, in, TypeURLDelegate)
}

func (c *Composer) ComposeUndelegate(ctx context.Context, in StakeInput) (*Draft, error) {
	return c.composeStake(ctx, in, TypeURLUndelegate)
}

func (c *Composer) ComposeRedelegate(ctx context.Context, in StakeInput) (*Draft, error) {
	if in.SrcValidator == "" {
		return nil, errors.New("redelegate requires a source validator")
	}
	base, err := ToBaseUnits(in.Amount, c.chain.Decimals)
	if err != nil {
		return nil, err
	}
	msg := newRedelegateMsg(in.SafeAddress, in.SrcValidator, in.Validator, c.chain.Denom, base)
	return c.finish(ctx, in.SafeID, []Msg{msg}, in.Memo, in.Sequence)
}

func (c *Composer) composeStake(ctx context.Context, in StakeInput, typeURL string) (*Draft, error) {
	base, err := ToBaseUnits(in.Amount, c.chain.Decimals)
	if err != nil {
		return nil, err
	}
	msg := newDelegateMsg(typeURL, in.SafeAddress, in.Validator, c.chain.Denom, base)
	return c.finish(ctx, in.SafeID, []Msg{msg}, in.Memo, in.Sequence)
}

type VoteInput struct {
	SafeID      int64
	SafeAddress string
	ProposalID  int64
	Option      int32
	Memo        string
	Sequence    int64
}

func (c *Composer) ComposeVote(ctx context.Context, in VoteInput) (*Draft, error) {
	msg := newVoteMsg(in.SafeAddress, in.ProposalID, in.Option)
	return c.finish(ctx, in.SafeID, []Msg{msg}, in.Memo, in.Sequence)
}

type ContractExecuteInput struct {
	SafeID      int64
	SafeAddress string
	Contract    string
	ExecuteMsg  json.RawMessage
	Funds       []Coin
	Memo        string
	Sequence    int64
}

func (c *Composer) ComposeContractExecute(ctx context.Context, in ContractExecuteInput) (*Draft, error) {
	if err := c.ValidateAddress(in.Contract); err != nil {
		return nil, err
	}
	if !json.Valid(in.ExecuteMsg) {
		return nil, errors.New("execute msg is not valid JSON")
	}
	msg := newExecuteContractMsg(in.SafeAddress, in.Contract, in.ExecuteMsg, in.Funds)
	return c.finish(ctx, in.SafeID, []Msg{msg}, in.Memo, in.Sequence)
}

// finish encodes the messages, sizes gas off a simulation and prices the
// fee. Simulation is best-effort inside the gateway client, so finish
// cannot fail on estimation.
func (c *Composer) finish(ctx context.Context, safeID int64, msgs []Msg, memo string, sequence int64) (*Draft, error) {
	encoded := make([]json.RawMessage, 0, len(msgs))
	for _, m := range msgs {
		raw, err := m.encode()
		if err != nil {
			return nil, errors.Wrap(err, "encode message")
		}
		encoded = append(encoded, raw)
	}

	gasUsed := c.client.SimulateGas(ctx, gateway.SimulateRequest{
		EncodedMessages: encoded,
		SafeID:          safeID,
	})
	gasLimit := GasHeadroom(gasUsed)
	c.logger.Debug("composed transaction",
		zap.Uint64("gasUsed", gasUsed),
		zap.Uint64("gasLimit", gasLimit),
		zap.Int64("sequence", sequence))

	return &Draft{
		Messages: encoded,
		GasLimit: gasLimit,
		Fee:      common.Fee{Amount: CalcFee(gasLimit, c.chain.GasPrice), Denom: c.chain.Denom},
		Memo:     memo,
		Sequence: sequence,
	}, nil
}

// Submit hands the signed draft to the gateway. The gateway's E029 code
// ("already pending execution") passes through untouched so callers can
// surface it as its own notice.
func (c *Composer) Submit(ctx context.Context, safeAddress, creator string, draft *Draft, signed SignedPayload) (string, error) {
	return c.client.CreateTransaction(ctx, gateway.CreateTransactionRequest{
		SafeAddress:     safeAddress,
		InternalChainID: c.chain.InternalChainID,
		Messages:        draft.Messages,
		Fee:             draft.Fee,
		GasLimit:        draft.GasLimit,
		Memo:            draft.Memo,
		Sequence:        draft.Sequence,
		Signature:       signed.Signature,
		BodyBytes:       signed.BodyBytes,
		AuthInfoBytes:   signed.AuthInfoBytes,
		Creator:         creator,
	})
}
