// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
)

// Global is the contract wide reward schedule.
type Global struct {
	Rate           *big.Int // reward units per second
	PeriodFinish   uint64
	LastUpdate     uint64
	PerTokenStored *big.Int // accumulated reward per staked unit, scaled by 1e18
	Duration       uint64   // zero means the configured default
	// Outstanding is what the pool still owes: settled unclaimed rewards,
	// streamed but unsettled rewards and the unstreamed rest of the period.
	Outstanding *big.Int `rlp:"optional"`
}

func (g *Global) rate() *big.Int {
	if g.Rate == nil {
		return new(big.Int)
	}
	return g.Rate
}

func (g *Global) perTokenStored() *big.Int {
	if g.PerTokenStored == nil {
		return new(big.Int)
	}
	return g.PerTokenStored
}

func (g *Global) outstanding() *big.Int {
	if g.Outstanding == nil {
		return new(big.Int)
	}
	return g.Outstanding
}

// release lowers the outstanding liability by v, floored at zero.
func (g *Global) release(v *big.Int) {
	o := new(big.Int).Sub(g.outstanding(), v)
	if o.Sign() < 0 {
		o.SetUint64(0)
	}
	g.Outstanding = o
}

// lastTimeApplicable is the latest time rewards have been streamed up to, given now.
func (g *Global) lastTimeApplicable(now uint64) uint64 {
	return min(now, g.PeriodFinish)
}

// Account is the reward record of a single staker.
type Account struct {
	Paid    *big.Int // accumulator value at the last settlement
	Rewards *big.Int // settled but unclaimed
}

func (a *Account) paid() *big.Int {
	if a.Paid == nil {
		return new(big.Int)
	}
	return a.Paid
}

func (a *Account) rewards() *big.Int {
	if a.Rewards == nil {
		return new(big.Int)
	}
	return a.Rewards
}
