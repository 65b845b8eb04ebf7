// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vstake

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", false},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
		{"0x7567d83b", true},
		{"0xz567d83b7b8d80addcb281a71d54fc7b3364ffed", true},
	}
	for _, tt := range tests {
		addr, err := ParseAddress(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))
	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
	assert.False(t, decoded.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("slot"))
	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0x1234")
	assert.Error(t, err)
}

func TestBlake2b(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
	assert.NotEqual(t, Blake2b([]byte("a")), Blake2b([]byte("b")))
}

func TestUnits(t *testing.T) {
	assert.Equal(t, "1000000000000000000", Unit.String())
	assert.Equal(t, new(big.Int).Mul(big.NewInt(50), Unit), Tokens(50))

	assert.True(t, InDomain(big.NewInt(0)))
	assert.True(t, InDomain(MaxUint256))
	assert.False(t, InDomain(big.NewInt(-1)))
	assert.False(t, InDomain(new(big.Int).Add(MaxUint256, big.NewInt(1))))
	assert.False(t, InDomain(nil))
}
