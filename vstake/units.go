// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vstake

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits carried by every amount.
const Decimals = 18

var (
	// Unit is one whole token, 10^Decimals base units.
	Unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

	// MaxUint256 is the upper bound of the amount domain.
	MaxUint256 = new(uint256.Int).SetAllOne().ToBig()
)

// Tokens returns n whole tokens in base units.
func Tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Unit)
}

// InDomain reports whether v is a valid unsigned 256-bit amount.
func InDomain(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(MaxUint256) <= 0
}

// FormatTokens renders base units as whole tokens, e.g. "1.5".
func FormatTokens(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -Decimals).String()
}
