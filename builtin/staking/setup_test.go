// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/builtin/gate"
	"github.com/govledger/vstake/builtin/token"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var (
	stakingAddr = vstake.BytesToAddress([]byte("staking"))
	tokenAddr   = vstake.BytesToAddress([]byte("token"))
	rewardAddr  = vstake.BytesToAddress([]byte("reward-token"))
	gateAddr    = vstake.BytesToAddress([]byte("gate"))

	operator = vstake.BytesToAddress([]byte("operator"))
	alice    = vstake.BytesToAddress([]byte("alice"))
	bob      = vstake.BytesToAddress([]byte("bob"))
	carol    = vstake.BytesToAddress([]byte("carol"))
)

type testEnv struct {
	t        *testing.T
	state    *state.State
	token    *token.Token
	reward   *token.Token
	staking  *Staking
	recorder *event.Recorder
}

type envOption func(*envConfig)

type envConfig struct {
	separateReward bool
}

func withSeparateRewardToken() envOption {
	return func(c *envConfig) { c.separateReward = true }
}

// newTestEnv deploys a token, a gate operated by operator and the staking
// contract. Every test account holds 1000 tokens.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	var cfg envConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	recorder := event.NewRecorder()
	tok := token.New(tokenAddr, st, recorder)
	rewardTok := tok
	if cfg.separateReward {
		rewardTok = token.New(rewardAddr, st, recorder)
	}
	g := gate.New(gateAddr, st, recorder)
	require.NoError(t, g.Initialize(operator))

	for _, acc := range []vstake.Address{operator, alice, bob, carol} {
		require.NoError(t, tok.Mint(acc, vstake.Tokens(1000)))
		if cfg.separateReward {
			require.NoError(t, rewardTok.Mint(acc, vstake.Tokens(1000)))
		}
	}

	return &testEnv{
		t:        t,
		state:    st,
		token:    tok,
		reward:   rewardTok,
		staking:  New(stakingAddr, st, tok.Bind(stakingAddr), rewardTok.Bind(stakingAddr), g, recorder),
		recorder: recorder,
	}
}

// call runs fn atomically, as the runtime does: any error reverts the state
// and the events emitted by fn.
func (e *testEnv) call(fn func() error) error {
	rev := e.state.NewCheckpoint()
	mark := e.recorder.Mark()
	if err := fn(); err != nil {
		e.state.RevertTo(rev)
		e.recorder.Rewind(mark)
		return err
	}
	return nil
}

func (e *testEnv) stake(account vstake.Address, amount *big.Int, now uint64) error {
	return e.call(func() error {
		if err := e.token.Approve(account, stakingAddr, amount); err != nil {
			return err
		}
		return e.staking.Stake(account, amount, now)
	})
}

func (e *testEnv) withdraw(account vstake.Address, amount *big.Int, now uint64) error {
	return e.call(func() error { return e.staking.Withdraw(account, amount, now) })
}

func (e *testEnv) delegate(account, to vstake.Address, now uint64) error {
	return e.call(func() error { return e.staking.Delegate(account, to, now) })
}

func (e *testEnv) getReward(account vstake.Address, now uint64) (paid *big.Int, err error) {
	err = e.call(func() error {
		paid, err = e.staking.GetReward(account, now)
		return err
	})
	return
}

// fund transfers amount of reward asset from the operator into the pool
// and starts a period distributing budget over duration.
func (e *testEnv) fund(amount, budget *big.Int, duration uint64, now uint64) error {
	return e.call(func() error {
		if err := e.reward.Transfer(operator, stakingAddr, amount); err != nil {
			return err
		}
		if err := e.staking.SetRewardsDuration(operator, duration, now); err != nil {
			return err
		}
		return e.staking.SetRewardAmount(operator, budget, now)
	})
}

// topUp transfers amount of reward asset into the pool and adds budget to
// the rewards, keeping the current duration.
func (e *testEnv) topUp(amount, budget *big.Int, now uint64) error {
	return e.call(func() error {
		if amount.Sign() > 0 {
			if err := e.reward.Transfer(operator, stakingAddr, amount); err != nil {
				return err
			}
		}
		return e.staking.SetRewardAmount(operator, budget, now)
	})
}

func (e *testEnv) balance(account vstake.Address) string {
	bal, err := e.staking.BalanceOf(account)
	require.NoError(e.t, err)
	return bal.String()
}

func (e *testEnv) total() string {
	total, err := e.staking.TotalStaked()
	require.NoError(e.t, err)
	return total.String()
}

func (e *testEnv) votes(account vstake.Address) string {
	v, err := e.staking.GetVotes(account)
	require.NoError(e.t, err)
	return v.String()
}

func (e *testEnv) earned(account vstake.Address, now uint64) string {
	v, err := e.staking.Earned(account, now)
	require.NoError(e.t, err)
	return v.String()
}

func (e *testEnv) tokenBalance(tok *token.Token, account vstake.Address) *big.Int {
	v, err := tok.BalanceOf(account)
	require.NoError(e.t, err)
	return v
}

func (e *testEnv) eventNames() []string {
	var names []string
	for _, ev := range e.recorder.Events() {
		if ev.Address == stakingAddr {
			names = append(names, ev.Name)
		}
	}
	return names
}
