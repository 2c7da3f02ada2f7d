// Package gateway is the HTTP client for the multisig gateway. It does a
// request, decodes the {ErrorCode, Data, Message} envelope and hands the
// typed Data back; it never retries on its own.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 50
	FirstPageIndex  = 1

	// DefaultGasLimit is the conservative fallback when simulation fails.
	DefaultGasLimit uint64 = 400000
)

type Client struct {
	baseURL string
	rest    *resty.Client
	logger  *zap.Logger
}

// NewClient returns a gateway client for the given base URL. rest may be nil,
// in which case a fresh resty client is used.
func NewClient(baseURL string, rest *resty.Client, logger *zap.Logger) *Client {
	if rest == nil {
		rest = resty.New()
	}
	return &Client{baseURL: baseURL, rest: rest, logger: logger}
}

// do runs the prepared request and decodes the envelope into out. A
// non-SUCCESSFUL ErrorCode becomes a *Error; transport failures are wrapped
// as-is so callers can tell the two apart.
func (c *Client) do(ctx context.Context, r *resty.Request, method, url string, out interface{}) error {
	reqID := uuid.NewString()
	r.SetContext(ctx).SetHeader("X-Request-Id", reqID)

	resp, err := r.Execute(method, c.baseURL+url)
	if err != nil {
		return errors.Wrapf(err, "gateway %s %s", method, url)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return errors.Wrapf(err, "gateway %s %s: decode envelope", method, url)
	}
	if env.ErrorCode != CodeSuccess {
		c.logger.Debug("gateway error",
			zap.String("url", url),
			zap.String("code", env.ErrorCode),
			zap.String("requestId", reqID))
		return &Error{Code: env.ErrorCode, Message: env.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(err, "gateway %s %s: decode data", method, url)
	}
	return nil
}

func (c *Client) GetSafeInfo(ctx context.Context, safeID int64) (*SafeInfo, error) {
	var info SafeInfo
	if err := c.do(ctx, c.rest.R(), resty.MethodGet, fmt.Sprintf("/multisigwallet/%d", safeID), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListSafesByOwner(ctx context.Context, ownerAddress string, internalChainID int64) ([]OwnedSafe, error) {
	var safes []OwnedSafe
	r := c.rest.R().SetQueryParam("internalChainId", fmt.Sprintf("%d", internalChainID))
	if err := c.do(ctx, r, resty.MethodGet, fmt.Sprintf("/owner/%s/safes", ownerAddress), &safes); err != nil {
		return nil, err
	}
	return safes, nil
}

func (c *Client) CreateSafe(ctx context.Context, req CreateSafeRequest) (*SafeInfo, error) {
	var info SafeInfo
	if err := c.do(ctx, c.rest.R().SetBody(req), resty.MethodPost, "/multisigwallet", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AllowSafe confirms participation in a pending safe with the owner's key.
func (c *Client) AllowSafe(ctx context.Context, safeID int64, key WalletKey) (*SafeInfo, error) {
	var info SafeInfo
	if err := c.do(ctx, c.rest.R().SetBody(key), resty.MethodPost, fmt.Sprintf("/multisigwallet/%d", safeID), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) CancelSafe(ctx context.Context, safeID int64, myAddress string) error {
	body := map[string]string{"myAddress": myAddress}
	return c.do(ctx, c.rest.R().SetBody(body), resty.MethodDelete, fmt.Sprintf("/multisigwallet/%d", safeID), nil)
}

// FetchTransactionPage loads one queue or history page. Page indexes start
// at FirstPageIndex.
func (c *Client) FetchTransactionPage(ctx context.Context, safeAddress string, isHistory bool, pageIndex, pageSize int) (*TxPage, error) {
	body := map[string]interface{}{
		"safeAddress": safeAddress,
		"isHistory":   isHistory,
		"pageIndex":   pageIndex,
		"pageSize":    pageSize,
	}
	var page TxPage
	if err := c.do(ctx, c.rest.R().SetBody(body), resty.MethodPost, "/transaction/get-all-txs", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetTransactionDetail(ctx context.Context, txID string) (*TxDetail, error) {
	var detail TxDetail
	if err := c.do(ctx, c.rest.R(), resty.MethodGet, fmt.Sprintf("/transaction/transaction-details/%s", txID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SimulateGas estimates gas for the encoded messages. Estimation is
// best-effort: any failure yields DefaultGasLimit instead of an error.
func (c *Client) SimulateGas(ctx context.Context, req SimulateRequest) uint64 {
	var res simulateResult
	if err := c.do(ctx, c.rest.R().SetBody(req), resty.MethodPost, "/transaction/simulate", &res); err != nil {
		c.logger.Warn("gas simulation failed, using default", zap.Error(err), zap.Uint64("default", DefaultGasLimit))
		return DefaultGasLimit
	}
	if res.GasUsed == 0 {
		return DefaultGasLimit
	}
	return res.GasUsed
}

// CreateTransaction submits a new multisig transaction. A CodePendingExecution
// error means another transaction with this sequence is already awaiting
// broadcast; callers surface that distinctly.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (string, error) {
	var created struct {
		TransactionID string `json:"transactionId"`
	}
	if err := c.do(ctx, c.rest.R().SetBody(req), resty.MethodPost, "/transaction/create", &created); err != nil {
		return "", err
	}
	return created.TransactionID, nil
}

func (c *Client) ConfirmTransaction(ctx context.Context, req ConfirmTransactionRequest) error {
	return c.do(ctx, c.rest.R().SetBody(req), resty.MethodPost, "/transaction/confirm", nil)
}

func (c *Client) RejectTransaction(ctx context.Context, req ConfirmTransactionRequest) error {
	return c.do(ctx, c.rest.R().SetBody(req), resty.MethodPost, "/transaction/reject", nil)
}

// SendTransaction broadcasts an executable transaction through the gateway.
func (c *Client) SendTransaction(ctx context.Context, txID string, executor string, internalChainID int64) error {
	body := map[string]interface{}{
		"transactionId":   txID,
		"owner":           executor,
		"internalChainId": internalChainID,
	}
	return c.do(ctx, c.rest.R().SetBody(body), resty.MethodPost, "/transaction/send", nil)
}

func (c *Client) DeleteTransaction(ctx context.Context, txID string, ownerAddress string) error {
	body := map[string]string{"transactionId": txID, "ownerAddress": ownerAddress}
	return c.do(ctx, c.rest.R().SetBody(body), resty.MethodPost, "/transaction/delete", nil)
}

func (c *Client) ChangeSequence(ctx context.Context, req ChangeSequenceRequest) error {
	return c.do(ctx, c.rest.R().SetBody(req), resty.MethodPost, "/transaction/change-seq", nil)
}

func (c *Client) ListProposals(ctx context.Context, internalChainID int64) ([]Proposal, error) {
	var proposals []Proposal
	r := c.rest.R().SetQueryParam("internalChainId", fmt.Sprintf("%d", internalChainID))
	if err := c.do(ctx, r, resty.MethodGet, "/gov/proposals", &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

func (c *Client) GetProposal(ctx context.Context, proposalID int64) (*Proposal, error) {
	var p Proposal
	if err := c.do(ctx, c.rest.R(), resty.MethodGet, fmt.Sprintf("/gov/proposals/%d", proposalID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetTokenDetail(ctx context.Context, address string) (*TokenDetail, error) {
	var t TokenDetail
	if err := c.do(ctx, c.rest.R(), resty.MethodGet, fmt.Sprintf("/token/%s", address), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ListNetworks(ctx context.Context) ([]NetworkInfo, error) {
	var networks []NetworkInfo
	if err := c.do(ctx, c.rest.R(), resty.MethodPost, "/general/network-list", &networks); err != nil {
		return nil, err
	}
	return networks, nil
}
