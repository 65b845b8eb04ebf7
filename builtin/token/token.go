// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the fungible asset used as base and reward asset of staking.
package token

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var logger = log.New("pkg", "token")

var (
	slotBalances    = vstake.BytesToBytes32([]byte("balances"))
	slotAllowances  = vstake.BytesToBytes32([]byte("allowances"))
	slotTotalSupply = vstake.BytesToBytes32([]byte("total-supply"))
)

const (
	EventTransfer = "Transfer"
	EventApproval = "Approval"
)

// Token is a fungible asset ledger with balances, allowances and a total supply.
type Token struct {
	addr        vstake.Address
	balances    *solidity.Mapping[vstake.Address, *big.Int]
	allowances  *solidity.Mapping[vstake.Bytes32, *big.Int]
	totalSupply *solidity.Uint256
	recorder    *event.Recorder
}

// New creates a token bound to its contract address. recorder may be nil.
func New(addr vstake.Address, state *state.State, recorder *event.Recorder) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		balances:    solidity.NewMapping[vstake.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[vstake.Bytes32, *big.Int](sctx, slotAllowances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		recorder:    recorder,
	}
}

func allowanceKey(owner, spender vstake.Address) vstake.Bytes32 {
	return vstake.Blake2b(owner.Bytes(), spender.Bytes())
}

func (t *Token) Address() vstake.Address {
	return t.addr
}

func (t *Token) BalanceOf(holder vstake.Address) (*big.Int, error) {
	return t.balances.Get(holder)
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) Allowance(owner, spender vstake.Address) (*big.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

// Mint creates amount new tokens for to. Only used when building genesis.
func (t *Token) Mint(to vstake.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return errors.WithMessage(err, "mint")
	}
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, bal.Add(bal, amount)); err != nil {
		return err
	}
	t.recorder.Emit(event.New(t.addr, EventTransfer, vstake.Address{}, to).WithData(amount))
	return nil
}

func (t *Token) Transfer(from, to vstake.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	fromBal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		logger.Debug("transfer rejected", "from", from, "balance", fromBal, "amount", amount)
		return reverts.ErrInsufficientFunds
	}
	if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	if err := t.balances.Set(to, toBal.Add(toBal, amount)); err != nil {
		return err
	}
	t.recorder.Emit(event.New(t.addr, EventTransfer, from, to).WithData(amount))
	return nil
}

func (t *Token) Approve(owner, spender vstake.Address, amount *big.Int) error {
	if !vstake.InDomain(amount) {
		return reverts.ErrInvalidAmount
	}
	if err := t.allowances.Set(allowanceKey(owner, spender), new(big.Int).Set(amount)); err != nil {
		return err
	}
	t.recorder.Emit(event.New(t.addr, EventApproval, owner, spender).WithData(amount))
	return nil
}

// TransferFrom moves amount from the owner to to, spending the allowance granted to spender.
// An allowance of MaxUint256 is never decreased.
func (t *Token) TransferFrom(spender, from, to vstake.Address, amount *big.Int) error {
	key := allowanceKey(from, spender)
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		logger.Debug("transferFrom rejected", "spender", spender, "from", from, "allowance", allowance, "amount", amount)
		return reverts.ErrInsufficientAllowance
	}
	if allowance.Cmp(vstake.MaxUint256) != 0 {
		if err := t.allowances.Set(key, allowance.Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return t.Transfer(from, to, amount)
}

// Bind returns a view of the token acting on behalf of holder, used by
// contracts that custody the token.
func (t *Token) Bind(holder vstake.Address) *Binding {
	return &Binding{token: t, holder: holder}
}

// Binding moves tokens in and out of a custodian contract.
type Binding struct {
	token  *Token
	holder vstake.Address
}

// TransferIn pulls amount from account into the custodian through the allowance account granted it.
func (b *Binding) TransferIn(from vstake.Address, amount *big.Int) error {
	return b.token.TransferFrom(b.holder, from, b.holder, amount)
}

// TransferOut pays amount from the custodian to account.
func (b *Binding) TransferOut(to vstake.Address, amount *big.Int) error {
	return b.token.Transfer(b.holder, to, amount)
}

func (b *Binding) BalanceOf(holder vstake.Address) (*big.Int, error) {
	return b.token.BalanceOf(holder)
}

// Address returns the token contract address.
func (b *Binding) Address() vstake.Address {
	return b.token.addr
}
