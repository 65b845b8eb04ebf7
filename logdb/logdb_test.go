// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/vstake"
)

var (
	contract = vstake.BytesToAddress([]byte("staking"))
	token    = vstake.BytesToAddress([]byte("token"))
	alice    = vstake.BytesToAddress([]byte("alice"))
	bob      = vstake.BytesToAddress([]byte("bob"))
)

// writeCalls writes n calls, each staking i+1 wei for alice and emitting a
// token transfer as well.
func writeCalls(t *testing.T, db *logdb.LogDB, n int) {
	w := db.NewWriter()
	for i := range n {
		amount := big.NewInt(int64(i + 1))
		call := &logdb.Call{Number: uint32(i + 1), Time: uint64(100 + i*10), Caller: alice, Method: "stake"}
		events := event.Events{
			event.New(token, "Transfer", alice, contract).WithData(amount),
			event.New(contract, "Staked", alice).WithData(amount),
		}
		require.NoError(t, w.Write(call, events))
	}
	assert.Equal(t, 2*n, w.UncommittedCount())
	require.NoError(t, w.Commit())
	assert.Equal(t, 0, w.UncommittedCount())
}

func TestWriteAndFilter(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	writeCalls(t, db, 10)

	all, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 20)

	first := all[0]
	assert.Equal(t, uint32(1), first.CallNumber)
	assert.Equal(t, uint32(0), first.Index)
	assert.Equal(t, uint64(100), first.CallTime)
	assert.Equal(t, alice, first.Caller)
	assert.Equal(t, "stake", first.Method)
	assert.Equal(t, token, first.Address)
	assert.Equal(t, "Transfer", first.Name)
	require.NotNil(t, first.Topics[0])
	assert.Equal(t, alice, *first.Topics[0])
	assert.Equal(t, contract, *first.Topics[1])
	assert.Nil(t, first.Topics[2])
	assert.Equal(t, "1", first.Amount(0).String())
	assert.Equal(t, "0", first.Amount(3).String())

	staked, err := db.FilterEvents(context.Background(), &logdb.EventFilter{Address: &contract, Name: "Staked"})
	require.NoError(t, err)
	require.Len(t, staked, 10)
	for i, ev := range staked {
		assert.Equal(t, uint32(1), ev.Index)
		assert.Equal(t, big.NewInt(int64(i+1)).String(), ev.Amount(0).String())
	}
}

func TestFilterOptions(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	writeCalls(t, db, 10)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter *logdb.EventFilter
		want   []uint32 // call numbers
	}{
		{
			"range",
			&logdb.EventFilter{Name: "Staked", Range: &logdb.Range{From: 120, To: 140}},
			[]uint32{3, 4, 5},
		},
		{
			"open range",
			&logdb.EventFilter{Name: "Staked", Range: &logdb.Range{From: 170}},
			[]uint32{8, 9, 10},
		},
		{
			"desc with limit",
			&logdb.EventFilter{Name: "Staked", Order: logdb.DESC, Options: &logdb.Options{Limit: 2}},
			[]uint32{10, 9},
		},
		{
			"offset",
			&logdb.EventFilter{Name: "Staked", Options: &logdb.Options{Offset: 8, Limit: 5}},
			[]uint32{9, 10},
		},
		{
			"account in second topic",
			&logdb.EventFilter{Account: &contract, Range: &logdb.Range{From: 100, To: 110}},
			[]uint32{1, 2},
		},
		{
			"unknown account",
			&logdb.EventFilter{Account: &bob},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := db.FilterEvents(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint32
			for _, ev := range events {
				got = append(got, ev.CallNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRollback(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, ok, err := db.NewestCallNumber()
	require.NoError(t, err)
	assert.False(t, ok)

	w := db.NewWriter()
	require.NoError(t, w.Write(&logdb.Call{Number: 7, Time: 1}, event.Events{event.New(contract, "Staked", alice)}))
	require.NoError(t, w.Rollback())

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	writeCalls(t, db, 3)
	num, ok, err := db.NewestCallNumber()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), num)
}

func TestCancelledFilter(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	writeCalls(t, db, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.FilterEvents(ctx, nil)
	assert.Error(t, err)
}

func TestFileDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := logdb.New(path)
	require.NoError(t, err)
	writeCalls(t, db, 2)
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	num, ok, err := db.NewestCallNumber()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint32(2), num)
}
