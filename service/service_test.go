package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/models"
	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/composer"
	"github.com/aura-nw/msafe-core/transaction/reconcile"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "svc.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Safe{}))

	chain := composer.ChainConfig{
		ChainID:         "aura-1",
		InternalChainID: 1,
		Prefix:          "aura",
		Denom:           "uaura",
		Symbol:          "AURA",
		Decimals:        6,
		GasPrice:        decimal.RequireFromString("0.0025"),
	}
	client := gateway.NewClient(srv.URL, nil, zap.NewNop())
	return New(db, client, composer.New(client, chain, zap.NewNop()), reconcile.New(), chain, 100, zap.NewNop())
}

func writeEnvelope(t *testing.T, rw http.ResponseWriter, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	err = json.NewEncoder(rw).Encode(map[string]interface{}{
		"ErrorCode": gateway.CodeSuccess,
		"Data":      json.RawMessage(raw),
		"Message":   "",
	})
	require.NoError(t, err)
}

func queuePage(ids ...string) map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		results = append(results, map[string]interface{}{
			"id":       id,
			"sequence": 5,
			"status":   "AWAITING_CONFIRMATIONS",
		})
	}
	return map[string]interface{}{"totalCount": len(ids), "results": results}
}

func watchedSafe() *common.Safe {
	return &common.Safe{
		SafeID:    9,
		Address:   "aura1safe",
		ChainID:   "aura-1",
		Owners:    []string{"aura1alice", "aura1bob"},
		Threshold: 2,
		Sequence:  5,
	}
}

// A fetch issued before the safe context switched must be discarded, not
// merged: the response arrives tagged with an older generation.
func TestRefreshQueueDropsResultAfterContextSwitch(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})

	s := newTestService(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		close(inFlight)
		<-release
		writeEnvelope(t, rw, queuePage("tx-1"))
	}))

	done := make(chan struct{})
	var changed bool
	var refreshErr error
	go func() {
		defer close(done)
		changed, refreshErr = s.RefreshQueue(context.Background(), watchedSafe())
	}()

	<-inFlight
	s.SwitchSafe("aura1other")
	close(release)
	<-done

	require.NoError(t, refreshErr)
	require.False(t, changed)
	require.Empty(t, s.Rec.Queue("aura-1", "aura1safe"))
	_, ok := s.Rec.Get("aura-1", "aura1safe", "tx-1")
	require.False(t, ok)
}

func TestRefreshQueueMergesWhenContextUnchanged(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, rw, queuePage("tx-1"))
	}))

	changed, err := s.RefreshQueue(context.Background(), watchedSafe())
	require.NoError(t, err)
	require.True(t, changed)
	_, ok := s.Rec.Get("aura-1", "aura1safe", "tx-1")
	require.True(t, ok)
}

// A safe snapshot that belongs to another chain never feeds the reconciler,
// and no transaction fetch follows it.
func TestPollDropsSnapshotFromAnotherChain(t *testing.T) {
	var txFetches int32
	s := newTestService(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/multisigwallet/9":
			writeEnvelope(t, rw, gateway.SafeInfo{
				ID:        9,
				Address:   "aura1safe",
				ChainID:   "other-1",
				Owners:    []string{"aura1alice", "aura1bob"},
				Threshold: 2,
				Sequence:  5,
			})
		case "/transaction/get-all-txs":
			atomic.AddInt32(&txFetches, 1)
			writeEnvelope(t, rw, queuePage("tx-1"))
		default:
			http.NotFound(rw, r)
		}
	}))

	s.pollOnce(context.Background(), 9)

	require.Zero(t, atomic.LoadInt32(&txFetches))
	require.Empty(t, s.Rec.Queue("aura-1", "aura1safe"))
	require.Empty(t, s.Rec.Queue("other-1", "aura1safe"))
}

func TestSwitchSafeForgetsPreviousSafeOnly(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, rw, queuePage("tx-1"))
	}))

	s.SwitchSafe("aura1safe")
	_, err := s.RefreshQueue(context.Background(), watchedSafe())
	require.NoError(t, err)

	// revisiting the same safe keeps its state
	s.SwitchSafe("aura1safe")
	_, ok := s.Rec.Get("aura-1", "aura1safe", "tx-1")
	require.True(t, ok)

	// moving to another safe drops it
	s.SwitchSafe("aura1other")
	_, ok = s.Rec.Get("aura-1", "aura1safe", "tx-1")
	require.False(t, ok)
}
