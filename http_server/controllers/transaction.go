package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/thedevsaddam/govalidator"
	"go.uber.org/zap"

	"github.com/aura-nw/msafe-core/service"
	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/composer"
)

// GetQueue refreshes and serves the pending transactions for the safe,
// assessed for the owner given in the query string.
func GetQueue(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		s.SwitchSafe(safe.Address)

		if _, err := s.RefreshQueue(r.Context(), safe); err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, s.QueueView(safe, r.URL.Query().Get("owner")))
	}
}

func GetHistory(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		s.SwitchSafe(safe.Address)

		if _, err := s.RefreshHistory(r.Context(), safe); err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, s.HistoryView(safe, r.URL.Query().Get("owner")))
	}
}

// NextQueuePage pages forward. Requesting it before the first page was
// loaded is caller misuse and comes back as a coded 608 error, not an
// empty list.
func NextQueuePage(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return nextPage(s, logger, s.LoadNextQueuePage)
}

func NextHistoryPage(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return nextPage(s, logger, s.LoadNextHistoryPage)
}

func nextPage(s *service.Service, logger *zap.Logger, load func(ctx context.Context, safeAddress string) ([]common.Transaction, error)) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		txs, err := load(r.Context(), safe.Address)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, txs)
	}
}

func GetTransactionDetail(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		detail, err := s.TransactionDetail(r.Context(), mux.Vars(r)["txId"])
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, detail)
	}
}

type composeSerializer struct {
	Kind         string          `json:"kind"`
	Recipient    string          `json:"recipient"`
	Amount       string          `json:"amount"`
	TokenAddress string          `json:"tokenAddress"`
	Validator    string          `json:"validator"`
	SrcValidator string          `json:"srcValidator"`
	ProposalID   int64           `json:"proposalId"`
	Option       int32           `json:"option"`
	Contract     string          `json:"contract"`
	ExecuteMsg   json.RawMessage `json:"executeMsg"`
	Memo         string          `json:"memo"`
	Sequence     int64           `json:"sequence"`
}

// ComposeTransaction builds and gas-sizes a draft for the requested message
// kind. The draft goes back to the client for wallet signing.
func ComposeTransaction(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		var body composeSerializer
		rules := govalidator.MapData{
			"kind":     []string{"required", "in:send,delegate,undelegate,redelegate,vote,contract-execute"},
			"sequence": []string{"required"},
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}

		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}

		var draft *composer.Draft
		switch body.Kind {
		case "send":
			token := composer.Token{Type: "native"}
			if body.TokenAddress != "" {
				detail, err := s.Client.GetTokenDetail(r.Context(), body.TokenAddress)
				if err != nil {
					respondServiceError(rw, logger, err)
					return
				}
				token = composer.Token{
					Type:        detail.Type,
					Address:     detail.Address,
					Denom:       detail.Denom,
					CosmosDenom: detail.CosmosDenom,
					Decimals:    detail.Decimals,
				}
			}
			draft, err = s.Composer.ComposeSend(r.Context(), composer.SendInput{
				SafeID:      safe.SafeID,
				SafeAddress: safe.Address,
				Recipient:   body.Recipient,
				Token:       token,
				Amount:      body.Amount,
				Memo:        body.Memo,
				Sequence:    body.Sequence,
			})
		case "delegate", "undelegate", "redelegate":
			in := composer.StakeInput{
				SafeID:       safe.SafeID,
				SafeAddress:  safe.Address,
				Validator:    body.Validator,
				SrcValidator: body.SrcValidator,
				Amount:       body.Amount,
				Memo:         body.Memo,
				Sequence:     body.Sequence,
			}
			switch body.Kind {
			case "delegate":
				draft, err = s.Composer.ComposeDelegate(r.Context(), in)
			case "undelegate":
				draft, err = s.Composer.ComposeUndelegate(r.Context(), in)
			default:
				draft, err = s.Composer.ComposeRedelegate(r.Context(), in)
			}
		case "vote":
			draft, err = s.Composer.ComposeVote(r.Context(), composer.VoteInput{
				SafeID:      safe.SafeID,
				SafeAddress: safe.Address,
				ProposalID:  body.ProposalID,
				Option:      body.Option,
				Memo:        body.Memo,
				Sequence:    body.Sequence,
			})
		case "contract-execute":
			draft, err = s.Composer.ComposeContractExecute(r.Context(), composer.ContractExecuteInput{
				SafeID:      safe.SafeID,
				SafeAddress: safe.Address,
				Contract:    body.Contract,
				ExecuteMsg:  body.ExecuteMsg,
				Memo:        body.Memo,
				Sequence:    body.Sequence,
			})
		}
		if err != nil {
			respondBadRequest(rw, err.Error())
			return
		}
		respondJSON(rw, http.StatusOK, draft)
	}
}

type createTxSerializer struct {
	Creator       string          `json:"creator"`
	Draft         *composer.Draft `json:"draft"`
	Signature     string          `json:"signature"`
	BodyBytes     string          `json:"bodyBytes"`
	AuthInfoBytes string          `json:"authInfoBytes"`
}

// CreateTransaction submits a wallet-signed draft to the gateway.
func CreateTransaction(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		var body createTxSerializer
		rules := govalidator.MapData{
			"creator":   []string{"required"},
			"signature": []string{"required"},
			"bodyBytes": []string{"required"},
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}
		if body.Draft == nil {
			respondBadRequest(rw, "draft is required")
			return
		}

		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}

		txID, err := s.Composer.Submit(r.Context(), safe.Address, body.Creator, body.Draft, composer.SignedPayload{
			Signature:     body.Signature,
			BodyBytes:     body.BodyBytes,
			AuthInfoBytes: body.AuthInfoBytes,
		})
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusCreated, map[string]string{"transactionId": txID})
	}
}

type actionSerializer struct {
	Action        string `json:"action"`
	Owner         string `json:"owner"`
	Signature     string `json:"signature"`
	BodyBytes     string `json:"bodyBytes"`
	AuthInfoBytes string `json:"authInfoBytes"`
	NewSequence   int64  `json:"newSequence"`
}

// ApplyTransactionAction dispatches one owner action. The action string is
// parsed into its tagged value up front; anything unknown is rejected here.
func ApplyTransactionAction(s *service.Service, logger *zap.Logger) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := safeID(r)
		if !ok {
			respondBadRequest(rw, "safeId must be numeric")
			return
		}
		var body actionSerializer
		rules := govalidator.MapData{
			"action": []string{"required"},
			"owner":  []string{"required"},
		}
		e := govalidator.New(govalidator.Options{Request: r, Data: &body, Rules: rules}).ValidateJSON()
		if len(e) != 0 {
			respondValidation(rw, e)
			return
		}

		action, ok := common.ParseAction(body.Action)
		if !ok {
			respondBadRequest(rw, "unknown action "+body.Action)
			return
		}

		safe, err := s.BuildSafe(r.Context(), id)
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}

		err = s.ApplyAction(r.Context(), safe, action, service.ActionRequest{
			TransactionID: mux.Vars(r)["txId"],
			Owner:         body.Owner,
			Signed: composer.SignedPayload{
				Signature:     body.Signature,
				BodyBytes:     body.BodyBytes,
				AuthInfoBytes: body.AuthInfoBytes,
			},
			NewSequence: body.NewSequence,
		})
		if err != nil {
			respondServiceError(rw, logger, err)
			return
		}
		respondJSON(rw, http.StatusOK, map[string]string{"status": "submitted"})
	}
}
