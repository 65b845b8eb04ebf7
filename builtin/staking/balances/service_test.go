// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(vstake.Address{0xAA}, state.New(db)))
}

func requireAmount(t *testing.T, expected *big.Int, get func() (*big.Int, error)) {
	actual, err := get()
	require.NoError(t, err)
	require.Equal(t, expected.String(), actual.String())
}

func TestAddSub(t *testing.T) {
	s := newService(t)
	a, b := vstake.Address{1}, vstake.Address{2}

	require.NoError(t, s.Add(a, vstake.Tokens(50)))
	require.NoError(t, s.Add(b, vstake.Tokens(100)))
	requireAmount(t, vstake.Tokens(150), s.TotalStaked)

	require.NoError(t, s.Sub(a, vstake.Tokens(20)))
	requireAmount(t, vstake.Tokens(30), func() (*big.Int, error) { return s.BalanceOf(a) })
	requireAmount(t, vstake.Tokens(130), s.TotalStaked)

	assert.ErrorIs(t, s.Sub(a, vstake.Tokens(31)), reverts.ErrInsufficientBalance)
	requireAmount(t, vstake.Tokens(130), s.TotalStaked)

	require.NoError(t, s.Sub(a, vstake.Tokens(30)))
	requireAmount(t, big.NewInt(0), func() (*big.Int, error) { return s.BalanceOf(a) })
}

func TestMove(t *testing.T) {
	s := newService(t)
	a, b := vstake.Address{1}, vstake.Address{2}
	require.NoError(t, s.Add(a, vstake.Tokens(10)))

	assert.ErrorIs(t, s.Move(a, b, vstake.Tokens(11)), reverts.ErrInsufficientBalance)
	require.NoError(t, s.Move(a, b, vstake.Tokens(4)))

	requireAmount(t, vstake.Tokens(6), func() (*big.Int, error) { return s.BalanceOf(a) })
	requireAmount(t, vstake.Tokens(4), func() (*big.Int, error) { return s.BalanceOf(b) })
	requireAmount(t, vstake.Tokens(10), s.TotalStaked)
}

func TestAddOverflow(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.Add(vstake.Address{1}, vstake.MaxUint256))
	err := s.Add(vstake.Address{2}, big.NewInt(1))
	assert.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))
}
