// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

type testStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  vstake.Address
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(vstake.Address{1}, state.New(db))
}

func TestMappingStructPointer(t *testing.T) {
	ctx := newContext(t)
	mapping := NewMapping[vstake.Address, *testStruct](ctx, vstake.Bytes32{1})
	key := vstake.BytesToAddress([]byte("key"))

	got, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got, "missing key decodes to an allocated zero value")
	assert.Equal(t, uint64(0), got.Field1)

	value := &testStruct{Field1: 100, Amount: big.NewInt(42), Addr1: vstake.Address{9}}
	require.NoError(t, mapping.Set(key, value))

	got, err = mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	require.NoError(t, mapping.Set(key, nil))
	raw, err := ctx.State().GetRawStorage(ctx.Address(), mapping.position(key))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestMappingValues(t *testing.T) {
	ctx := newContext(t)
	counts := NewMapping[vstake.Address, uint64](ctx, vstake.Bytes32{2})
	amounts := NewMapping[vstake.Address, *big.Int](ctx, vstake.Bytes32{3})
	key := vstake.Address{7}

	n, err := counts.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	require.NoError(t, counts.Set(key, 5))
	n, err = counts.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	amount, err := amounts.Get(key)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Sign())
	require.NoError(t, amounts.Set(key, vstake.Tokens(3)))
	amount, err = amounts.Get(key)
	require.NoError(t, err)
	assert.Equal(t, vstake.Tokens(3), amount)
}

func TestMappingSlotsAreIsolated(t *testing.T) {
	ctx := newContext(t)
	a := NewMapping[vstake.Address, uint64](ctx, vstake.Bytes32{1})
	b := NewMapping[vstake.Address, uint64](ctx, vstake.Bytes32{2})
	key := vstake.Address{1}

	require.NoError(t, a.Set(key, 1))
	v, err := b.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestMappingDecodeError(t *testing.T) {
	ctx := newContext(t)
	mapping := NewMapping[vstake.Address, *testStruct](ctx, vstake.Bytes32{1})
	key := vstake.Address{1}
	ctx.State().SetRawStorage(ctx.Address(), mapping.position(key), rlp.RawValue{0xFF})

	_, err := mapping.Get(key)
	assert.Error(t, err)
}

func TestRaw(t *testing.T) {
	ctx := newContext(t)
	raw := NewRaw[*testStruct](ctx, vstake.Bytes32{4})

	got, err := raw.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)

	require.NoError(t, raw.Set(&testStruct{Field1: 3, Amount: big.NewInt(1)}))
	got, err = raw.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Field1)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, vstake.Bytes32{5})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Sub(big.NewInt(4)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(6), v)

	assert.Error(t, u.Sub(big.NewInt(7)), "underflow")
	assert.Error(t, u.Set(new(big.Int).Add(vstake.MaxUint256, big.NewInt(1))), "overflow")
	assert.Error(t, u.Set(big.NewInt(-1)))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(6), v, "failed writes leave the slot untouched")
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	slot := NewAddress(ctx, vstake.Bytes32{6})

	got, err := slot.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	addr := vstake.BytesToAddress([]byte("operator"))
	slot.Set(&addr)
	got, err = slot.Get()
	require.NoError(t, err)
	assert.Equal(t, addr, got)

	slot.Set(nil)
	got, err = slot.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestConfigVariable(t *testing.T) {
	ctx := newContext(t)
	config := NewConfigVariable("rewards-duration", 604800)

	assert.Equal(t, "rewards-duration", config.Name())
	assert.Equal(t, vstake.BytesToBytes32([]byte("rewards-duration")), config.Slot())
	assert.Equal(t, uint64(604800), config.Get(ctx))

	config.Override(ctx, 60)
	assert.Equal(t, uint64(60), config.Get(ctx))
	assert.Equal(t, uint64(604800), config.Default())

	ctx.State().SetRawStorage(ctx.Address(), config.Slot(), rlp.RawValue{0xFF})
	assert.Equal(t, uint64(604800), config.Get(ctx), "unreadable override falls back to default")
}
