// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/clock"
	"github.com/govledger/vstake/genesis"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

func TestHealth_Status(t *testing.T) {
	h := New(time.Second)

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.Nil(t, status.LastCall)
	assert.Nil(t, status.ClockOffset)

	h.NewCall(3, 1000)
	status = h.Status()
	require.NotNil(t, status.LastCall)
	assert.Equal(t, uint32(3), status.LastCall.Number)
	assert.Equal(t, uint64(1000), status.LastCall.Time)
	assert.WithinDuration(t, time.Now(), *status.LastCall.ObservedAt, time.Second)
}

func TestHealth_ClockOffset(t *testing.T) {
	h := New(time.Second)

	h.ClockOffset(-500 * time.Millisecond)
	status := h.Status()
	assert.True(t, status.Healthy)
	assert.Equal(t, "-500ms", *status.ClockOffset)

	h.ClockOffset(-2 * time.Second)
	assert.False(t, h.Status().Healthy)
}

func TestHealth_Track(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	stater, err := state.NewStater(db, 16)
	require.NoError(t, err)
	rt, err := runtime.New(stater, logDB, clock.NewManual(1000), genesis.NewDevnet())
	require.NoError(t, err)

	h := New(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Track(ctx, rt) }()

	alice := genesis.DevAccounts()[1]
	require.Eventually(t, func() bool {
		if _, err := rt.Execute("approve", alice, func(env *runtime.Env) error {
			return env.Token.Approve(alice, env.Staking.Address(), vstake.Tokens(1))
		}); err != nil {
			return false
		}
		return h.Status().LastCall != nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
