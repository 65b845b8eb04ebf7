// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/api/events"
	"github.com/govledger/vstake/api/staking"
	"github.com/govledger/vstake/api/subscriptions"
	"github.com/govledger/vstake/clock"
	"github.com/govledger/vstake/genesis"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	clock *clock.Manual
}

func newTestServer(t *testing.T, devMode bool) *testServer {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { logDB.Close() })
	stater, err := state.NewStater(db, 0)
	require.NoError(t, err)

	clk := clock.NewManual(1000)
	rt, err := runtime.New(stater, logDB, clk, genesis.NewDevnet())
	require.NoError(t, err)

	handler, closeSubs := New(rt, logDB, Options{AllowedOrigins: "*", LogsLimit: 100, DevMode: devMode, EnableMetrics: true})
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		closeSubs()
		srv.Close()
	})
	return &testServer{t: t, srv: srv, clock: clk}
}

func (s *testServer) do(method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, data
}

func (s *testServer) post(path string, body any) (int, []byte) {
	return s.do(http.MethodPost, path, body)
}

func (s *testServer) get(path string, out any) int {
	code, data := s.do(http.MethodGet, path, nil)
	if code == http.StatusOK && out != nil {
		require.NoError(s.t, json.Unmarshal(data, out), string(data))
	}
	return code
}

func hexAmount(v *big.Int) string {
	return "0x" + v.Text(16)
}

var (
	operator = genesis.DevAccounts()[0]
	alice    = genesis.DevAccounts()[1]
	bob      = genesis.DevAccounts()[2]
)

func TestStakeAndQuery(t *testing.T) {
	s := newTestServer(t, true)

	code, body := s.post("/staking/stake", map[string]any{"caller": alice, "amount": "100000000000000000000"})
	require.Equal(t, http.StatusOK, code, string(body))

	var receipt struct {
		CallNumber uint32 `json:"callNumber"`
		Events     []struct {
			Name string `json:"name"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, uint32(1), receipt.CallNumber)
	var names []string
	for _, ev := range receipt.Events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "Staked")

	code, body = s.post("/staking/delegate", map[string]any{"caller": alice, "delegatee": bob})
	require.Equal(t, http.StatusOK, code, string(body))

	s.clock.Advance(10)

	var acc staking.Account
	require.Equal(t, http.StatusOK, s.get("/staking/accounts/"+alice.String(), &acc))
	assert.Equal(t, vstake.Tokens(100).String(), (*big.Int)(acc.Balance).String())
	require.NotNil(t, acc.Delegate)
	assert.Equal(t, bob, *acc.Delegate)
	assert.Equal(t, "0", (*big.Int)(acc.Votes).String())

	var bobAcc staking.Account
	require.Equal(t, http.StatusOK, s.get("/staking/accounts/"+bob.String(), &bobAcc))
	assert.Equal(t, vstake.Tokens(100).String(), (*big.Int)(bobAcc.Votes).String())
	assert.Equal(t, uint64(1), bobAcc.NumCheckpoints)

	var cp staking.Checkpoint
	require.Equal(t, http.StatusOK, s.get("/staking/accounts/"+bob.String()+"/checkpoints/0", &cp))
	assert.Equal(t, uint64(1000), cp.Timestamp)

	var votes staking.Votes
	require.Equal(t, http.StatusOK, s.get("/staking/accounts/"+bob.String()+"/votes?at=999", &votes))
	assert.Equal(t, "0", (*big.Int)(votes.Votes).String())
	require.Equal(t, http.StatusOK, s.get("/staking/accounts/"+bob.String()+"/votes?at=1005", &votes))
	assert.Equal(t, vstake.Tokens(100).String(), (*big.Int)(votes.Votes).String())

	// lookups must be in the past
	assert.Equal(t, http.StatusBadRequest, s.get("/staking/accounts/"+bob.String()+"/votes?at=1010", nil))
	assert.Equal(t, http.StatusBadRequest, s.get("/staking/supply", nil))

	var summary staking.Summary
	require.Equal(t, http.StatusOK, s.get("/staking", &summary))
	assert.Equal(t, vstake.Tokens(100).String(), (*big.Int)(summary.TotalStaked).String())
	assert.Equal(t, operator, summary.Operator)
	assert.Equal(t, uint64(604800), summary.RewardsDuration)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t, true)

	code, _ := s.post("/staking/withdraw", map[string]any{"caller": alice, "amount": "1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.post("/staking/rewards/duration", map[string]any{"caller": alice, "duration": 60})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.post("/staking/stake", map[string]any{"caller": alice})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.post("/staking/stake", map[string]any{"caller": alice, "amount": "1", "extra": true})
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, http.StatusBadRequest, s.get("/staking/accounts/0x1234", nil))
}

func TestReadOnlyMode(t *testing.T) {
	s := newTestServer(t, false)

	code, _ := s.post("/staking/stake", map[string]any{"caller": alice, "amount": "1"})
	assert.Equal(t, http.StatusNotFound, code)

	var supply struct {
		TotalSupply string `json:"totalSupply"`
	}
	require.Equal(t, http.StatusOK, s.get("/token", &supply))
	assert.Equal(t, hexAmount(new(big.Int).Mul(vstake.Tokens(1_000_000), big.NewInt(10))), supply.TotalSupply)
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestServer(t, true)

	code, body := s.post("/staking/stake", map[string]any{"caller": alice, "amount": "5"})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = s.post("/events", map[string]any{"name": "Staked", "account": alice})
	require.Equal(t, http.StatusOK, code, string(body))
	var fes []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &fes))
	require.Len(t, fes, 1)
	assert.Equal(t, "stake", fes[0].Meta.Method)
	assert.Equal(t, alice, fes[0].Meta.Caller)
	require.Len(t, fes[0].Data, 1)
	assert.Equal(t, "5", (*big.Int)(fes[0].Data[0]).String())

	code, _ = s.post("/events", map[string]any{"options": map[string]any{"limit": 1000}})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.post("/events", map[string]any{"range": map[string]any{"from": 10, "to": 5}})
	assert.Equal(t, http.StatusBadRequest, code)

	// genesis mints one transfer per dev account, plus the operator event
	code, body = s.post("/events", map[string]any{"range": map[string]any{"to": 0}, "order": "desc"})
	require.Equal(t, http.StatusOK, code, string(body))
	require.NoError(t, json.Unmarshal(body, &fes))
	assert.Len(t, fes, len(genesis.DevAccounts())+1)
}

func TestSubscribeEvents(t *testing.T) {
	s := newTestServer(t, true)

	url := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/subscriptions/events?name=Staked&account=" + alice.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	code, body := s.post("/staking/stake", map[string]any{"caller": bob, "amount": "1"})
	require.Equal(t, http.StatusOK, code, string(body))
	code, body = s.post("/staking/stake", map[string]any{"caller": alice, "amount": "7"})
	require.Equal(t, http.StatusOK, code, string(body))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg subscriptions.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "Staked", msg.Name)
	assert.Equal(t, alice, msg.Caller)
	assert.Equal(t, uint32(2), msg.CallNumber)
	require.Len(t, msg.Data, 1)
	assert.Equal(t, "7", (*big.Int)(msg.Data[0]).String())

	_, _, err = websocket.DefaultDialer.Dial(strings.Replace(url, alice.String(), "0xzz", 1), nil)
	assert.Error(t, err)
}
