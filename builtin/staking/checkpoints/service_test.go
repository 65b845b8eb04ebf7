// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoints

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

var (
	alice = vstake.Address{1}
	bob   = vstake.Address{2}
	carol = vstake.Address{3}
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(vstake.Address{0xAA}, state.New(db)))
}

func votes(t *testing.T, s *Service, account vstake.Address) string {
	v, err := s.GetVotes(account)
	require.NoError(t, err)
	return v.String()
}

func pastVotes(t *testing.T, s *Service, account vstake.Address, at, now uint64) string {
	v, err := s.GetPastVotes(account, at, now)
	require.NoError(t, err)
	return v.String()
}

func TestDelegate(t *testing.T) {
	s := newService(t)

	from, changes, err := s.Delegate(alice, bob, big.NewInt(50), 10)
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	require.Len(t, changes, 1)
	assert.Equal(t, bob, changes[0].Delegate)
	assert.Equal(t, "0", changes[0].Previous.String())
	assert.Equal(t, "50", changes[0].Current.String())

	to, err := s.Delegates(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, to)

	_, changes, err = s.Delegate(alice, bob, big.NewInt(50), 11)
	require.NoError(t, err)
	assert.Empty(t, changes, "same delegate is a no-op")
	n, err := s.NumCheckpoints(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	from, changes, err = s.Delegate(alice, carol, big.NewInt(50), 12)
	require.NoError(t, err)
	assert.Equal(t, bob, from)
	require.Len(t, changes, 2)
	assert.Equal(t, "0", votes(t, s, bob))
	assert.Equal(t, "50", votes(t, s, carol))

	_, changes, err = s.Delegate(alice, vstake.Address{}, big.NewInt(50), 13)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "0", votes(t, s, carol))
	to, err = s.Delegates(alice)
	require.NoError(t, err)
	assert.True(t, to.IsZero())
}

func TestSameTimestampCompaction(t *testing.T) {
	s := newService(t)

	_, err := s.MoveVotingPower(vstake.Address{}, bob, big.NewInt(10), 5)
	require.NoError(t, err)
	_, err = s.MoveVotingPower(vstake.Address{}, bob, big.NewInt(7), 5)
	require.NoError(t, err)

	n, err := s.NumCheckpoints(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	c, err := s.Checkpoint(bob, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), c.Timestamp)
	assert.Equal(t, "17", c.Votes.String())

	_, err = s.MoveVotingPower(bob, vstake.Address{}, big.NewInt(3), 6)
	require.NoError(t, err)
	n, err = s.NumCheckpoints(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	_, err = s.MoveVotingPower(vstake.Address{}, bob, big.NewInt(1), 4)
	assert.Error(t, err, "time going backwards")
	assert.False(t, reverts.IsRevertErr(err))

	out, err := s.Checkpoint(bob, 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), out.Timestamp)
	assert.Equal(t, 0, out.Votes.Sign())
}

func TestGetPastVotes(t *testing.T) {
	s := newService(t)

	// bob's power: 10 at t=10, 30 at t=20, 25 at t=30, 40 at t=40
	_, err := s.MoveVotingPower(vstake.Address{}, bob, big.NewInt(10), 10)
	require.NoError(t, err)
	_, err = s.MoveVotingPower(vstake.Address{}, bob, big.NewInt(20), 20)
	require.NoError(t, err)
	_, err = s.MoveVotingPower(bob, vstake.Address{}, big.NewInt(5), 30)
	require.NoError(t, err)
	_, err = s.MoveVotingPower(vstake.Address{}, bob, big.NewInt(15), 40)
	require.NoError(t, err)

	tests := []struct {
		at   uint64
		want string
	}{
		{0, "0"},
		{9, "0"},
		{10, "10"},
		{15, "10"},
		{20, "30"},
		{29, "30"},
		{30, "25"},
		{39, "25"},
		{40, "40"},
		{99, "40"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pastVotes(t, s, bob, tt.at, 100), "at %d", tt.at)
	}
	assert.Equal(t, votes(t, s, bob), pastVotes(t, s, bob, 99, 100))
	assert.Equal(t, "0", pastVotes(t, s, carol, 50, 100), "no history")

	_, err = s.GetPastVotes(bob, 100, 100)
	assert.ErrorIs(t, err, reverts.ErrFutureLookup)
	_, err = s.GetPastVotes(bob, 101, 100)
	assert.ErrorIs(t, err, reverts.ErrFutureLookup)
}

func TestMoveVotingPowerUnderflow(t *testing.T) {
	s := newService(t)
	_, err := s.MoveVotingPower(bob, vstake.Address{}, big.NewInt(1), 1)
	assert.Error(t, err)
	assert.False(t, reverts.IsRevertErr(err))

	changes, err := s.MoveVotingPower(bob, bob, big.NewInt(1), 1)
	require.NoError(t, err)
	assert.Nil(t, changes)
	changes, err = s.MoveVotingPower(alice, bob, new(big.Int), 1)
	require.NoError(t, err)
	assert.Nil(t, changes)
}

func TestPastTotalSupply(t *testing.T) {
	s := newService(t)
	require.NoError(t, s.PushTotalSupply(big.NewInt(100), 10))
	require.NoError(t, s.PushTotalSupply(big.NewInt(150), 20))
	require.NoError(t, s.PushTotalSupply(big.NewInt(120), 20))

	v, err := s.GetPastTotalSupply(15, 30)
	require.NoError(t, err)
	assert.Equal(t, "100", v.String())
	v, err = s.GetPastTotalSupply(25, 30)
	require.NoError(t, err)
	assert.Equal(t, "120", v.String())
	v, err = s.GetPastTotalSupply(5, 30)
	require.NoError(t, err)
	assert.Equal(t, "0", v.String())

	_, err = s.GetPastTotalSupply(30, 30)
	assert.ErrorIs(t, err, reverts.ErrFutureLookup)
}

func TestLongHistoryLookup(t *testing.T) {
	s := newService(t)
	for i := uint64(1); i <= 200; i++ {
		_, err := s.MoveVotingPower(vstake.Address{}, alice, big.NewInt(1), i*10)
		require.NoError(t, err)
	}
	for i := uint64(1); i <= 200; i++ {
		assert.Equal(t, new(big.Int).SetUint64(i).String(), pastVotes(t, s, alice, i*10+5, 10_000))
		assert.Equal(t, new(big.Int).SetUint64(i-1).String(), pastVotes(t, s, alice, i*10-1, 10_000))
	}
}
