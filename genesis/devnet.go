// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/govledger/vstake/vstake"
)

const devAccountCount = 10

// DevAllocation is the base token balance of every dev account.
var DevAllocation = vstake.Tokens(1_000_000)

var devAccounts = func() []vstake.Address {
	accs := make([]vstake.Address, 0, devAccountCount)
	for i := range devAccountCount {
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], uint32(i))
		accs = append(accs, vstake.BytesToAddress(vstake.Blake2b([]byte("vstake-dev-account"), idx[:]).Bytes()))
	}
	return accs
}()

// DevAccounts returns the pre-funded accounts of the dev network. The first one is the operator.
func DevAccounts() []vstake.Address {
	return append([]vstake.Address(nil), devAccounts...)
}

// NewDevnet create genesis for the dev network. Every dev account holds one million tokens,
// rewards are paid in the staked token.
func NewDevnet() *Genesis {
	cfg := &Config{
		Operator: devAccounts[0],
	}
	for _, acc := range devAccounts {
		cfg.Allocations = append(cfg.Allocations, Allocation{
			Address: acc,
			Token:   math.HexOrDecimal256(*new(big.Int).Set(DevAllocation)),
		})
	}
	gen, err := newGenesis("devnet", cfg)
	if err != nil {
		panic(err)
	}
	return gen
}
