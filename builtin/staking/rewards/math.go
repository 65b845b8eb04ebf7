// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/vstake"
)

var (
	errOverflow = errors.New("reward arithmetic overflow")

	unit = uint256.MustFromBig(vstake.Unit)
)

func toU256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, errOverflow
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, errOverflow
	}
	return u, nil
}

// perTokenAt projects the accumulator of g to time now for the given total stake.
// The accumulator does not move while nothing is staked.
func perTokenAt(g *Global, totalStaked *big.Int, now uint64) (*big.Int, error) {
	stored := g.perTokenStored()
	if totalStaked.Sign() == 0 {
		return new(big.Int).Set(stored), nil
	}
	applicable := g.lastTimeApplicable(now)
	if applicable <= g.LastUpdate {
		return new(big.Int).Set(stored), nil
	}

	rate, err := toU256(g.rate())
	if err != nil {
		return nil, err
	}
	total, err := toU256(totalStaked)
	if err != nil {
		return nil, err
	}
	streamed, overflow := new(uint256.Int).MulOverflow(rate, uint256.NewInt(applicable-g.LastUpdate))
	if overflow {
		return nil, errOverflow
	}
	inc, overflow := new(uint256.Int).MulDivOverflow(streamed, unit, total)
	if overflow {
		return nil, errOverflow
	}
	acc, err := toU256(stored)
	if err != nil {
		return nil, err
	}
	if _, overflow := acc.AddOverflow(acc, inc); overflow {
		return nil, errOverflow
	}
	return acc.ToBig(), nil
}

// earnedAt returns balance*(perToken-paid)/1e18 + rewards, truncated.
func earnedAt(a *Account, balance, perToken *big.Int) (*big.Int, error) {
	delta := new(big.Int).Sub(perToken, a.paid())
	if delta.Sign() < 0 {
		return nil, errors.New("reward accumulator moved backwards")
	}
	bal, err := toU256(balance)
	if err != nil {
		return nil, err
	}
	d, err := toU256(delta)
	if err != nil {
		return nil, err
	}
	fresh, overflow := new(uint256.Int).MulDivOverflow(bal, d, unit)
	if overflow {
		return nil, errOverflow
	}
	owed, err := toU256(a.rewards())
	if err != nil {
		return nil, err
	}
	if _, overflow := owed.AddOverflow(owed, fresh); overflow {
		return nil, errOverflow
	}
	return owed.ToBig(), nil
}
