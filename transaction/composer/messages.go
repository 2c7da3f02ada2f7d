package composer

import "encoding/json"

// Message type URLs for everything this wallet can compose.
const (
	TypeURLSend            = "/cosmos.bank.v1beta1.MsgSend"
	TypeURLDelegate        = "/cosmos.staking.v1beta1.MsgDelegate"
	TypeURLUndelegate      = "/cosmos.staking.v1beta1.MsgUndelegate"
	TypeURLRedelegate      = "/cosmos.staking.v1beta1.MsgBeginRedelegate"
	TypeURLVote            = "/cosmos.gov.v1beta1.MsgVote"
	TypeURLExecuteContract = "/cosmwasm.wasm.v1.MsgExecuteContract"
)

// Msg is one outgoing message in the gateway's typeUrl/value form.
type Msg struct {
	TypeURL string      `json:"typeUrl"`
	Value   interface{} `json:"value"`
}

func (m Msg) encode() (json.RawMessage, error) {
	return json.Marshal(m)
}

type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type sendValue struct {
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Amount      []Coin `json:"amount"`
}

type delegateValue struct {
	DelegatorAddress string `json:"delegatorAddress"`
	ValidatorAddress string `json:"validatorAddress"`
	Amount           Coin   `json:"amount"`
}

type redelegateValue struct {
	DelegatorAddress    string `json:"delegatorAddress"`
	ValidatorSrcAddress string `json:"validatorSrcAddress"`
	ValidatorDstAddress string `json:"validatorDstAddress"`
	Amount              Coin   `json:"amount"`
}

type voteValue struct {
	Voter      string `json:"voter"`
	ProposalID int64  `json:"proposalId"`
	Option     int32  `json:"option"`
}

type executeContractValue struct {
	Sender   string          `json:"sender"`
	Contract string          `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    []Coin          `json:"funds"`
}

// cw20Transfer is the execute payload of a CW20 token send.
type cw20Transfer struct {
	Transfer struct {
		Amount    string `json:"amount"`
		Recipient string `json:"recipient"`
	} `json:"transfer"`
}

func newSendMsg(from, to, denom, amount string) Msg {
	return Msg{TypeURL: TypeURLSend, Value: sendValue{
		FromAddress: from,
		ToAddress:   to,
		Amount:      []Coin{{Denom: denom, Amount: amount}},
	}}
}

func newDelegateMsg(typeURL, delegator, validator, denom, amount string) Msg {
	return Msg{TypeURL: typeURL, Value: delegateValue{
		DelegatorAddress: delegator,
		ValidatorAddress: validator,
		Amount:           Coin{Denom: denom, Amount: amount},
	}}
}

func newRedelegateMsg(delegator, src, dst, denom, amount string) Msg {
	return Msg{TypeURL: TypeURLRedelegate, Value: redelegateValue{
		DelegatorAddress:    delegator,
		ValidatorSrcAddress: src,
		ValidatorDstAddress: dst,
		Amount:              Coin{Denom: denom, Amount: amount},
	}}
}

func newVoteMsg(voter string, proposalID int64, option int32) Msg {
	return Msg{TypeURL: TypeURLVote, Value: voteValue{
		Voter:      voter,
		ProposalID: proposalID,
		Option:     option,
	}}
}

func newTokenTransferMsg(sender, contract, recipient, amount string) Msg {
	var transfer cw20Transfer
	transfer.Transfer.Amount = amount
	transfer.Transfer.Recipient = recipient
	raw, _ := json.Marshal(transfer)
	return Msg{TypeURL: TypeURLExecuteContract, Value: executeContractValue{
		Sender:   sender,
		Contract: contract,
		Msg:      raw,
		Funds:    []Coin{},
	}}
}

func newExecuteContractMsg(sender, contract string, execMsg json.RawMessage, funds []Coin) Msg {
	if funds == nil {
		funds = []Coin{}
	}
	return Msg{TypeURL: TypeURLExecuteContract, Value: executeContractValue{
		Sender:   sender,
		Contract: contract,
		Msg:      execMsg,
		Funds:    funds,
	}}
}
