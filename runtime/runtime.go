// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes ledger calls one at a time, each against a fresh journaled
// state which is committed on success and dropped on error.
package runtime

import (
	"sync"
	"time"

	gethevent "github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/gate"
	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/builtin/staking"
	"github.com/govledger/vstake/builtin/token"
	"github.com/govledger/vstake/clock"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/genesis"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var logger = log.New("pkg", "runtime")

var (
	runtimeAddr    = vstake.BytesToAddress([]byte("vstake-runtime"))
	slotCallNumber = vstake.BytesToBytes32([]byte("call-number"))
)

// callCounter is the number of the last committed call, stored with the ledger
// state so calls without events are counted too.
func callCounter(st *state.State) *solidity.Raw[uint32] {
	return solidity.NewRaw[uint32](solidity.NewContext(runtimeAddr, st), slotCallNumber)
}

// Env is the set of contracts a call operates on, bound to the call's state.
type Env struct {
	Caller  vstake.Address
	Now     uint64
	State   *state.State
	Token   *token.Token
	Reward  *token.Token
	Gate    *gate.Gate
	Staking *staking.Staking
}

// Receipt describes a committed call.
type Receipt struct {
	CallNumber uint32
	Time       uint64
	Caller     vstake.Address
	Method     string
	Events     event.Events
}

// Runtime serialises mutating calls. Views run concurrently with each other.
type Runtime struct {
	mu        sync.RWMutex
	stater    *state.Stater
	logDB     *logdb.LogDB // optional
	clock     clock.Clock
	contracts genesis.Contracts
	callNum   uint32
	feed      gethevent.Feed
}

// New creates a runtime over stater and applies gen when the state is empty.
// logDB may be nil, in which case events are not persisted.
func New(stater *state.Stater, logDB *logdb.LogDB, clk clock.Clock, gen *genesis.Genesis) (*Runtime, error) {
	rt := &Runtime{
		stater:    stater,
		logDB:     logDB,
		clock:     clk,
		contracts: gen.Contracts(),
	}
	st := stater.NewState()
	num, err := callCounter(st).Get()
	if err != nil {
		return nil, errors.WithMessage(err, "read call number")
	}
	rt.callNum = num

	recorder := event.NewRecorder()
	applied, err := gen.Build(st, recorder)
	if err != nil {
		return nil, err
	}
	if applied {
		if err := rt.commit(st, recorder, &logdb.Call{Number: 0, Time: gen.Timestamp(), Method: "genesis"}); err != nil {
			return nil, err
		}
		logger.Info("genesis applied", "name", gen.Name(), "operator", gen.Operator())
	}
	return rt, nil
}

func (rt *Runtime) Contracts() genesis.Contracts {
	return rt.contracts
}

func (rt *Runtime) newEnv(st *state.State, recorder *event.Recorder, caller vstake.Address, now uint64) *Env {
	tok := token.New(rt.contracts.Token, st, recorder)
	reward := tok
	if !rt.contracts.SameRewardToken() {
		reward = token.New(rt.contracts.RewardToken, st, recorder)
	}
	g := gate.New(rt.contracts.Gate, st, recorder)
	return &Env{
		Caller:  caller,
		Now:     now,
		State:   st,
		Token:   tok,
		Reward:  reward,
		Gate:    g,
		Staking: staking.New(rt.contracts.Staking, st, tok.Bind(rt.contracts.Staking), reward.Bind(rt.contracts.Staking), g, recorder),
	}
}

// Execute runs fn as one all-or-nothing call on behalf of caller.
// Any error returned by fn discards every change and event of the call.
// Receipts reach subscribers in call order.
func (rt *Runtime) Execute(method string, caller vstake.Address, fn func(env *Env) error) (*Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	receipt, err := rt.execute(method, caller, fn)
	if err != nil {
		return nil, err
	}
	rt.feed.Send(receipt)
	return receipt, nil
}

func (rt *Runtime) execute(method string, caller vstake.Address, fn func(env *Env) error) (*Receipt, error) {
	start := time.Now()
	now := rt.clock.Now()
	st := rt.stater.NewState()
	recorder := event.NewRecorder()

	logger.Debug("execute", "method", method, "caller", caller, "now", now)
	if err := fn(rt.newEnv(st, recorder, caller, now)); err != nil {
		observeCall(method, statusOf(err), start)
		if reverts.IsRevertErr(err) {
			logger.Info("call reverted", "method", method, "caller", caller, "err", err)
		} else {
			logger.Warn("call failed", "method", method, "caller", caller, "err", err)
		}
		return nil, err
	}

	call := &logdb.Call{Number: rt.callNum + 1, Time: now, Caller: caller, Method: method}
	if err := rt.commit(st, recorder, call); err != nil {
		observeCall(method, statusError, start)
		return nil, err
	}
	observeCall(method, statusOK, start)
	return &Receipt{
		CallNumber: call.Number,
		Time:       now,
		Caller:     caller,
		Method:     method,
		Events:     recorder.Events(),
	}, nil
}

// SubscribeReceipts registers ch to receive the receipt of every committed call.
// Calls block until ch accepts, so ch must be drained promptly.
func (rt *Runtime) SubscribeReceipts(ch chan<- *Receipt) gethevent.Subscription {
	return rt.feed.Subscribe(ch)
}

// commit writes the state changes then the events. Only a state failure fails the call.
func (rt *Runtime) commit(st *state.State, recorder *event.Recorder, call *logdb.Call) error {
	if err := callCounter(st).Set(call.Number); err != nil {
		return errors.WithMessage(err, "record call number")
	}
	if err := st.Stage().Commit(); err != nil {
		return errors.WithMessage(err, "commit state")
	}
	rt.callNum = call.Number

	if rt.logDB == nil || len(recorder.Events()) == 0 {
		return nil
	}
	w := rt.logDB.NewWriter()
	if err := w.Write(call, recorder.Events()); err != nil {
		_ = w.Rollback()
		logger.Error("failed to write events", "call", call.Number, "err", err)
		return nil
	}
	if err := w.Commit(); err != nil {
		logger.Error("failed to commit events", "call", call.Number, "err", err)
	}
	return nil
}

// Call runs a read-only fn against the committed state. Changes made by fn are discarded.
func (rt *Runtime) Call(fn func(env *Env) error) error {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return fn(rt.newEnv(rt.stater.NewState(), nil, vstake.Address{}, rt.clock.Now()))
}
