package composer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendMsgShape(t *testing.T) {
	raw, err := newSendMsg("aura1safe", "aura1bob", "uaura", "1500000").encode()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"typeUrl": "/cosmos.bank.v1beta1.MsgSend",
		"value": {
			"fromAddress": "aura1safe",
			"toAddress": "aura1bob",
			"amount": [{"denom": "uaura", "amount": "1500000"}]
		}
	}`, string(raw))
}

func TestDelegateMsgShape(t *testing.T) {
	raw, err := newDelegateMsg(TypeURLDelegate, "aura1safe", "auravaloper1x", "uaura", "1000000").encode()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"typeUrl": "/cosmos.staking.v1beta1.MsgDelegate",
		"value": {
			"delegatorAddress": "aura1safe",
			"validatorAddress": "auravaloper1x",
			"amount": {"denom": "uaura", "amount": "1000000"}
		}
	}`, string(raw))
}

func TestRedelegateMsgShape(t *testing.T) {
	raw, err := newRedelegateMsg("aura1safe", "auravaloper1src", "auravaloper1dst", "uaura", "1").encode()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"typeUrl": "/cosmos.staking.v1beta1.MsgBeginRedelegate",
		"value": {
			"delegatorAddress": "aura1safe",
			"validatorSrcAddress": "auravaloper1src",
			"validatorDstAddress": "auravaloper1dst",
			"amount": {"denom": "uaura", "amount": "1"}
		}
	}`, string(raw))
}

func TestVoteMsgShape(t *testing.T) {
	raw, err := newVoteMsg("aura1safe", 42, 1).encode()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"typeUrl": "/cosmos.gov.v1beta1.MsgVote",
		"value": {"voter": "aura1safe", "proposalId": 42, "option": 1}
	}`, string(raw))
}

// A CW20 send is a contract execute whose msg carries the transfer payload.
func TestTokenTransferMsgShape(t *testing.T) {
	raw, err := newTokenTransferMsg("aura1safe", "aura1contract", "aura1bob", "1500000").encode()
	require.NoError(t, err)

	var decoded struct {
		TypeURL string `json:"typeUrl"`
		Value   struct {
			Sender   string          `json:"sender"`
			Contract string          `json:"contract"`
			Msg      json.RawMessage `json:"msg"`
			Funds    []Coin          `json:"funds"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, TypeURLExecuteContract, decoded.TypeURL)
	require.Equal(t, "aura1safe", decoded.Value.Sender)
	require.Equal(t, "aura1contract", decoded.Value.Contract)
	require.NotNil(t, decoded.Value.Funds)
	require.Empty(t, decoded.Value.Funds)
	require.JSONEq(t, `{"transfer": {"amount": "1500000", "recipient": "aura1bob"}}`, string(decoded.Value.Msg))
}

func TestExecuteContractMsgDefaultsFunds(t *testing.T) {
	raw, err := newExecuteContractMsg("aura1safe", "aura1contract", json.RawMessage(`{"claim":{}}`), nil).encode()
	require.NoError(t, err)

	var decoded struct {
		Value struct {
			Funds []Coin `json:"funds"`
		} `json:"value"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Value.Funds)
	require.Empty(t, decoded.Value.Funds)
}
