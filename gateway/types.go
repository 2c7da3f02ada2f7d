package gateway

import (
	"encoding/json"
	"time"

	"github.com/aura-nw/msafe-core/transaction/common"
)

// envelope wraps every gateway response.
type envelope struct {
	AdditionalData []json.RawMessage `json:"AdditionalData"`
	Data           json.RawMessage   `json:"Data"`
	ErrorCode      string            `json:"ErrorCode"`
	Message        string            `json:"Message"`
}

type Balance struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type CoinConfig struct {
	Denom    string `json:"denom"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	Enabled  bool   `json:"enabled"`
}

// SafeInfo is the gateway snapshot of a multisig account.
type SafeInfo struct {
	ID              int64        `json:"id"`
	Address         string       `json:"safeAddress"`
	ChainID         string       `json:"chainId"`
	InternalChainID int64        `json:"internalChainId"`
	Owners          []string     `json:"owners"`
	Threshold       int          `json:"threshold"`
	Sequence        int64        `json:"sequence"`
	Balances        []Balance    `json:"balances"`
	Coins           []CoinConfig `json:"coins"`
	Status          string       `json:"status"`
}

// TxPage is one page of queue or history records. TotalCount is the full
// collection size so callers can tell whether another page exists.
type TxPage struct {
	TotalCount int64                `json:"totalCount"`
	Results    []common.Transaction `json:"results"`
}

type NetworkInfo struct {
	InternalChainID int64  `json:"id"`
	ChainID         string `json:"chainId"`
	Name            string `json:"name"`
	RPC             string `json:"rpc"`
	Denom           string `json:"denom"`
	Prefix          string `json:"prefix"`
}

// WalletKey identifies an owner's key as reported by the wallet extension.
type WalletKey struct {
	Address string `json:"address"`
	Pubkey  string `json:"pubkey"`
}

type CreateSafeRequest struct {
	CreatorAddress     string   `json:"creatorAddress"`
	CreatorPubkey      string   `json:"creatorPubkey"`
	OtherOwnersAddress []string `json:"otherOwnersAddress"`
	Threshold          int      `json:"threshold"`
	InternalChainID    int64    `json:"internalChainId"`
}

// CreateTransactionRequest carries a composed and wallet-signed transaction.
// Signature material is base64; this service never produces it.
type CreateTransactionRequest struct {
	SafeAddress     string            `json:"from"`
	InternalChainID int64             `json:"internalChainId"`
	Messages        []json.RawMessage `json:"messages"`
	Fee             common.Fee        `json:"fee"`
	GasLimit        uint64            `json:"gasLimit"`
	Memo            string            `json:"memo"`
	Sequence        int64             `json:"sequence"`
	Signature       string            `json:"signature"`
	BodyBytes       string            `json:"bodyBytes"`
	AuthInfoBytes   string            `json:"authInfoBytes"`
	Creator         string            `json:"creatorAddress"`
}

type ConfirmTransactionRequest struct {
	TransactionID   string `json:"transactionId"`
	OwnerAddress    string `json:"ownerAddress"`
	Signature       string `json:"signature"`
	BodyBytes       string `json:"bodyBytes"`
	InternalChainID int64  `json:"internalChainId"`
}

type ChangeSequenceRequest struct {
	TransactionID string `json:"transactionId"`
	OwnerAddress  string `json:"ownerAddress"`
	NewSequence   int64  `json:"newSequence"`
}

type SimulateRequest struct {
	EncodedMessages []json.RawMessage `json:"encodedMsgs"`
	SafeID          int64             `json:"safeId"`
}

type simulateResult struct {
	GasUsed uint64 `json:"gasUsed"`
}

// Proposal is the read-only governance projection; this service only
// displays it.
type Proposal struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Status          string    `json:"status"`
	VotingStartTime time.Time `json:"votingStartTime"`
	VotingEndTime   time.Time `json:"votingEndTime"`
	TotalDeposit    []Balance `json:"totalDeposit"`
}

type TokenDetail struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Decimals    int32  `json:"decimals"`
	Type        string `json:"type"`
	Denom       string `json:"denom"`
	CosmosDenom string `json:"cosmosDenom"`
}

// TxDetail is the per-transaction view: the list record plus the full
// signer set of the owning safe at submission time.
type TxDetail struct {
	common.Transaction
	Signers []string `json:"signers"`
}

type OwnedSafe struct {
	SafeID  int64  `json:"id"`
	Address string `json:"safeAddress"`
	Status  string `json:"status"`
}
