// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/api/restutil"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/vstake"
)

type Staking struct {
	rt      *runtime.Runtime
	devMode bool
}

// New creates the staking router. Write endpoints are mounted only in dev mode,
// where the caller is taken from the request body.
func New(rt *runtime.Runtime, devMode bool) *Staking {
	return &Staking{rt, devMode}
}

func (s *Staking) handleSummary(w http.ResponseWriter, _ *http.Request) error {
	var summary Summary
	err := s.rt.Call(func(env *runtime.Env) error {
		total, err := env.Staking.TotalStaked()
		if err != nil {
			return err
		}
		rate, err := env.Staking.RewardRate()
		if err != nil {
			return err
		}
		perToken, err := env.Staking.RewardPerToken(env.Now)
		if err != nil {
			return err
		}
		forDuration, err := env.Staking.RewardForDuration()
		if err != nil {
			return err
		}
		if summary.PeriodFinish, err = env.Staking.PeriodFinish(); err != nil {
			return err
		}
		if summary.RewardsDuration, err = env.Staking.RewardsDuration(); err != nil {
			return err
		}
		if summary.LastTimeRewardApplicable, err = env.Staking.LastTimeRewardApplicable(env.Now); err != nil {
			return err
		}
		if summary.Operator, err = env.Gate.Operator(); err != nil {
			return err
		}
		summary.TotalStaked = restutil.Amount(total)
		summary.RewardRate = restutil.Amount(rate)
		summary.RewardPerToken = restutil.Amount(perToken)
		summary.RewardForDuration = restutil.Amount(forDuration)
		summary.Now = env.Now
		return nil
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, &summary)
}

func (s *Staking) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	var acc Account
	err = s.rt.Call(func(env *runtime.Env) error {
		balance, err := env.Staking.BalanceOf(addr)
		if err != nil {
			return err
		}
		earned, err := env.Staking.Earned(addr, env.Now)
		if err != nil {
			return err
		}
		delegate, err := env.Staking.Delegates(addr)
		if err != nil {
			return err
		}
		votes, err := env.Staking.GetVotes(addr)
		if err != nil {
			return err
		}
		if acc.NumCheckpoints, err = env.Staking.NumCheckpoints(addr); err != nil {
			return err
		}
		acc.Balance = restutil.Amount(balance)
		acc.Earned = restutil.Amount(earned)
		acc.Votes = restutil.Amount(votes)
		if !delegate.IsZero() {
			acc.Delegate = &delegate
		}
		return nil
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, &acc)
}

func (s *Staking) handleGetCheckpoint(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	pos, err := restutil.ParseUint64(mux.Vars(req)["pos"], "pos", 0)
	if err != nil {
		return err
	}
	var cp Checkpoint
	err = s.rt.Call(func(env *runtime.Env) error {
		c, err := env.Staking.Checkpoint(addr, pos)
		if err != nil {
			return err
		}
		cp.Timestamp = c.Timestamp
		cp.Votes = restutil.Amount(c.Votes)
		return nil
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, &cp)
}

// handleGetPastVotes serves the votes of an account at the time given by the
// "at" query parameter, which must be in the past.
func (s *Staking) handleGetPastVotes(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	return s.pastValue(w, req, func(env *runtime.Env, at uint64) (*big.Int, error) {
		return env.Staking.GetPastVotes(addr, at, env.Now)
	})
}

func (s *Staking) handleGetPastSupply(w http.ResponseWriter, req *http.Request) error {
	return s.pastValue(w, req, func(env *runtime.Env, at uint64) (*big.Int, error) {
		return env.Staking.GetPastTotalSupply(at, env.Now)
	})
}

func (s *Staking) pastValue(w http.ResponseWriter, req *http.Request, get func(*runtime.Env, uint64) (*big.Int, error)) error {
	query := req.URL.Query().Get("at")
	if query == "" {
		return restutil.BadRequest(errors.New("at: required"))
	}
	at, err := restutil.ParseUint64(query, "at", 0)
	if err != nil {
		return err
	}
	var votes Votes
	err = s.rt.Call(func(env *runtime.Env) error {
		v, err := get(env, at)
		if err != nil {
			return err
		}
		votes = Votes{At: at, Votes: restutil.Amount(v)}
		return nil
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, &votes)
}

func (s *Staking) execute(w http.ResponseWriter, method string, caller vstake.Address, fn func(env *runtime.Env) error) error {
	receipt, err := s.rt.Execute(method, caller, fn)
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, restutil.ConvertReceipt(receipt))
}

// handleStake approves the staking contract for amount then stakes it.
func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.RequireAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return s.execute(w, "stake", body.Caller, func(env *runtime.Env) error {
		if err := env.Token.Approve(env.Caller, env.Staking.Address(), amount); err != nil {
			return err
		}
		return env.Staking.Stake(env.Caller, amount, env.Now)
	})
}

func (s *Staking) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.RequireAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return s.execute(w, "withdraw", body.Caller, func(env *runtime.Env) error {
		return env.Staking.Withdraw(env.Caller, amount, env.Now)
	})
}

func (s *Staking) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	return s.claim(w, req, "getReward", func(env *runtime.Env) (*big.Int, error) {
		return env.Staking.GetReward(env.Caller, env.Now)
	})
}

func (s *Staking) handleExit(w http.ResponseWriter, req *http.Request) error {
	return s.claim(w, req, "exit", func(env *runtime.Env) (*big.Int, error) {
		return env.Staking.Exit(env.Caller, env.Now)
	})
}

func (s *Staking) claim(w http.ResponseWriter, req *http.Request, method string, fn func(*runtime.Env) (*big.Int, error)) error {
	var body CallerRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	var paid *big.Int
	receipt, err := s.rt.Execute(method, body.Caller, func(env *runtime.Env) (err error) {
		paid, err = fn(env)
		return
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, &Claimed{Paid: restutil.Amount(paid), Receipt: restutil.ConvertReceipt(receipt)})
}

func (s *Staking) handleDelegate(w http.ResponseWriter, req *http.Request) error {
	var body DelegateRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "delegate", body.Caller, func(env *runtime.Env) error {
		return env.Staking.Delegate(env.Caller, body.Delegatee, env.Now)
	})
}

func (s *Staking) handleSetRewardsDuration(w http.ResponseWriter, req *http.Request) error {
	var body DurationRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "setRewardsDuration", body.Caller, func(env *runtime.Env) error {
		return env.Staking.SetRewardsDuration(env.Caller, body.Duration, env.Now)
	})
}

func (s *Staking) handleSetRewardAmount(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.RequireAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return s.execute(w, "setRewardAmount", body.Caller, func(env *runtime.Env) error {
		return env.Staking.SetRewardAmount(env.Caller, amount, env.Now)
	})
}

func (s *Staking) handleTransferShares(w http.ResponseWriter, req *http.Request) error {
	var body TransferSharesRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.RequireAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return s.execute(w, "transferShares", body.Caller, func(env *runtime.Env) error {
		return env.Staking.TransferShares(env.Caller, body.From, body.To, amount, env.Now)
	})
}

func (s *Staking) handleTransferOperator(w http.ResponseWriter, req *http.Request) error {
	var body OperatorRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	return s.execute(w, "transferOperator", body.Caller, func(env *runtime.Env) error {
		return env.Gate.TransferOperator(env.Caller, body.Operator)
	})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /staking").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSummary))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetAccount))
	sub.Path("/accounts/{address}/checkpoints/{pos:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}/checkpoints/{pos}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetCheckpoint))
	sub.Path("/accounts/{address}/votes").
		Methods(http.MethodGet).
		Name("GET /staking/accounts/{address}/votes").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPastVotes))
	sub.Path("/supply").
		Methods(http.MethodGet).
		Name("GET /staking/supply").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetPastSupply))

	if !s.devMode {
		return
	}
	for _, route := range []struct {
		path    string
		handler restutil.HandlerFunc
	}{
		{"/stake", s.handleStake},
		{"/withdraw", s.handleWithdraw},
		{"/reward", s.handleGetReward},
		{"/exit", s.handleExit},
		{"/delegate", s.handleDelegate},
		{"/rewards/duration", s.handleSetRewardsDuration},
		{"/rewards/amount", s.handleSetRewardAmount},
		{"/shares/transfer", s.handleTransferShares},
		{"/operator", s.handleTransferOperator},
	} {
		sub.Path(route.path).
			Methods(http.MethodPost).
			Name("POST " + pathPrefix + route.path).
			HandlerFunc(restutil.WrapHandlerFunc(route.handler))
	}
}
