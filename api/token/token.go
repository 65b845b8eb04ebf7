// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/api/restutil"
	builtin "github.com/govledger/vstake/builtin/token"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/vstake"
)

// Asset selects which token of the runtime a router serves.
type Asset int

const (
	Base Asset = iota
	Reward
)

type Token struct {
	rt      *runtime.Runtime
	asset   Asset
	devMode bool
}

func New(rt *runtime.Runtime, asset Asset, devMode bool) *Token {
	return &Token{rt, asset, devMode}
}

func (t *Token) token(env *runtime.Env) *builtin.Token {
	if t.asset == Reward {
		return env.Reward
	}
	return env.Token
}

type Balance struct {
	Address vstake.Address        `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Supply struct {
	Address     vstake.Address        `json:"address"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type TransferRequest struct {
	Caller vstake.Address        `json:"caller"`
	To     vstake.Address        `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ApproveRequest struct {
	Caller  vstake.Address        `json:"caller"`
	Spender vstake.Address        `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

func (t *Token) view(w http.ResponseWriter, get func(tok *builtin.Token) (*big.Int, error), wrap func(addr vstake.Address, v *big.Int) any) error {
	var out any
	err := t.rt.Call(func(env *runtime.Env) error {
		tok := t.token(env)
		v, err := get(tok)
		if err != nil {
			return err
		}
		out = wrap(tok.Address(), v)
		return nil
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, out)
}

func (t *Token) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	return t.view(w,
		func(tok *builtin.Token) (*big.Int, error) { return tok.TotalSupply() },
		func(addr vstake.Address, v *big.Int) any {
			return &Supply{Address: addr, TotalSupply: restutil.Amount(v)}
		})
}

func (t *Token) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := restutil.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	return t.view(w,
		func(tok *builtin.Token) (*big.Int, error) { return tok.BalanceOf(holder) },
		func(_ vstake.Address, v *big.Int) any {
			return &Balance{Address: holder, Balance: restutil.Amount(v)}
		})
}

func (t *Token) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := restutil.ParseAddress(mux.Vars(req)["owner"], "owner")
	if err != nil {
		return err
	}
	spender, err := restutil.ParseAddress(mux.Vars(req)["spender"], "spender")
	if err != nil {
		return err
	}
	return t.view(w,
		func(tok *builtin.Token) (*big.Int, error) { return tok.Allowance(owner, spender) },
		func(_ vstake.Address, v *big.Int) any {
			return &Balance{Address: owner, Balance: restutil.Amount(v)}
		})
}

func (t *Token) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.RequireAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	receipt, err := t.rt.Execute("transfer", body.Caller, func(env *runtime.Env) error {
		return t.token(env).Transfer(env.Caller, body.To, amount)
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, restutil.ConvertReceipt(receipt))
}

func (t *Token) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := restutil.RequireAmount(body.Amount, "amount")
	if err != nil {
		return err
	}
	receipt, err := t.rt.Execute("approve", body.Caller, func(env *runtime.Env) error {
		return t.token(env).Approve(env.Caller, body.Spender, amount)
	})
	if err != nil {
		return restutil.CallError(err)
	}
	return restutil.WriteJSON(w, restutil.ConvertReceipt(receipt))
}

func (t *Token) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET " + pathPrefix).
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetSupply))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET " + pathPrefix + "/balances/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET " + pathPrefix + "/allowances/{owner}/{spender}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetAllowance))

	if !t.devMode {
		return
	}
	sub.Path("/transfer").
		Methods(http.MethodPost).
		Name("POST " + pathPrefix + "/transfer").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/approve").
		Methods(http.MethodPost).
		Name("POST " + pathPrefix + "/approve").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleApprove))
}
