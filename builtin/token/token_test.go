// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var (
	tokenAddr = vstake.BytesToAddress([]byte("token"))
	alice     = vstake.BytesToAddress([]byte("alice"))
	bob       = vstake.BytesToAddress([]byte("bob"))
	custodian = vstake.BytesToAddress([]byte("staking"))
)

func newToken(t *testing.T) (*Token, *event.Recorder) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	recorder := event.NewRecorder()
	return New(tokenAddr, state.New(db), recorder), recorder
}

func balanceOf(t *testing.T, tok *Token, addr vstake.Address) *big.Int {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func TestMintAndTransfer(t *testing.T) {
	tok, recorder := newToken(t)

	require.NoError(t, tok.Mint(alice, vstake.Tokens(100)))
	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, vstake.Tokens(100).String(), supply.String())

	require.NoError(t, tok.Transfer(alice, bob, vstake.Tokens(30)))
	assert.Equal(t, vstake.Tokens(70).String(), balanceOf(t, tok, alice).String())
	assert.Equal(t, vstake.Tokens(30).String(), balanceOf(t, tok, bob).String())

	err = tok.Transfer(bob, alice, vstake.Tokens(31))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientFunds))
	assert.Equal(t, vstake.Tokens(30).String(), balanceOf(t, tok, bob).String())

	require.NoError(t, tok.Transfer(alice, alice, vstake.Tokens(70)))
	assert.Equal(t, vstake.Tokens(70).String(), balanceOf(t, tok, alice).String())

	events := recorder.Events()
	require.Len(t, events, 3)
	assert.Equal(t, EventTransfer, events[0].Name)
	assert.True(t, events[0].Topics[0].IsZero(), "mint is a transfer from the zero address")
	assert.Equal(t, bob, *events[1].Topics[1])
}

func TestAllowance(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(alice, vstake.Tokens(10)))

	err := tok.TransferFrom(bob, alice, bob, vstake.Tokens(1))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientAllowance))

	require.NoError(t, tok.Approve(alice, bob, vstake.Tokens(4)))
	require.NoError(t, tok.TransferFrom(bob, alice, bob, vstake.Tokens(3)))

	remaining, err := tok.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, vstake.Tokens(1).String(), remaining.String())
	assert.Equal(t, vstake.Tokens(3).String(), balanceOf(t, tok, bob).String())

	require.NoError(t, tok.Approve(alice, bob, vstake.MaxUint256))
	require.NoError(t, tok.TransferFrom(bob, alice, bob, vstake.Tokens(2)))
	remaining, err = tok.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, vstake.MaxUint256.String(), remaining.String())

	err = tok.TransferFrom(bob, alice, bob, vstake.Tokens(6))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientFunds))
}

func TestBinding(t *testing.T) {
	tok, _ := newToken(t)
	asset := tok.Bind(custodian)
	require.NoError(t, tok.Mint(alice, vstake.Tokens(10)))

	err := asset.TransferIn(alice, vstake.Tokens(5))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientAllowance))

	require.NoError(t, tok.Approve(alice, custodian, vstake.Tokens(5)))
	require.NoError(t, asset.TransferIn(alice, vstake.Tokens(5)))

	held, err := asset.BalanceOf(custodian)
	require.NoError(t, err)
	assert.Equal(t, vstake.Tokens(5).String(), held.String())

	require.NoError(t, asset.TransferOut(bob, vstake.Tokens(2)))
	assert.Equal(t, vstake.Tokens(2).String(), balanceOf(t, tok, bob).String())

	err = asset.TransferOut(bob, vstake.Tokens(4))
	assert.True(t, errors.Is(err, reverts.ErrInsufficientFunds))
	assert.Equal(t, tokenAddr, asset.Address())
}
