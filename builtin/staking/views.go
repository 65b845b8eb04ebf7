// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/govledger/vstake/builtin/staking/checkpoints"
	"github.com/govledger/vstake/vstake"
)

func (s *Staking) TotalStaked() (*big.Int, error) {
	return s.balances.TotalStaked()
}

// BalanceOf returns the voting shares, i.e. the staked balance, of account.
func (s *Staking) BalanceOf(account vstake.Address) (*big.Int, error) {
	return s.balances.BalanceOf(account)
}

// Earned returns what account could claim at now.
func (s *Staking) Earned(account vstake.Address, now uint64) (*big.Int, error) {
	if err := s.checkTime(now); err != nil {
		return nil, err
	}
	bal, err := s.balances.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	total, err := s.balances.TotalStaked()
	if err != nil {
		return nil, err
	}
	return s.rewards.Earned(account, bal, total, now)
}

func (s *Staking) RewardPerToken(now uint64) (*big.Int, error) {
	if err := s.checkTime(now); err != nil {
		return nil, err
	}
	total, err := s.balances.TotalStaked()
	if err != nil {
		return nil, err
	}
	return s.rewards.RewardPerToken(total, now)
}

func (s *Staking) LastTimeRewardApplicable(now uint64) (uint64, error) {
	return s.rewards.LastTimeRewardApplicable(now)
}

func (s *Staking) RewardForDuration() (*big.Int, error) {
	return s.rewards.RewardForDuration()
}

// OutstandingRewards returns what the reward pool is committed to pay,
// including the part of the running period not streamed yet.
func (s *Staking) OutstandingRewards() (*big.Int, error) {
	return s.rewards.Outstanding()
}

func (s *Staking) RewardRate() (*big.Int, error) {
	return s.rewards.RewardRate()
}

func (s *Staking) PeriodFinish() (uint64, error) {
	return s.rewards.PeriodFinish()
}

func (s *Staking) RewardsDuration() (uint64, error) {
	return s.rewards.Duration()
}

// Delegates returns the delegate of account, zero if it has none.
func (s *Staking) Delegates(account vstake.Address) (vstake.Address, error) {
	return s.checkpoints.Delegates(account)
}

// GetVotes returns the voting power currently delegated to account.
func (s *Staking) GetVotes(account vstake.Address) (*big.Int, error) {
	return s.checkpoints.GetVotes(account)
}

// GetPastVotes returns the voting power delegated to account at time t < now.
func (s *Staking) GetPastVotes(account vstake.Address, t, now uint64) (*big.Int, error) {
	return s.checkpoints.GetPastVotes(account, t, now)
}

// GetPastTotalSupply returns the total staked at time t < now.
func (s *Staking) GetPastTotalSupply(t, now uint64) (*big.Int, error) {
	return s.checkpoints.GetPastTotalSupply(t, now)
}

func (s *Staking) NumCheckpoints(account vstake.Address) (uint64, error) {
	return s.checkpoints.NumCheckpoints(account)
}

func (s *Staking) Checkpoint(account vstake.Address, pos uint64) (*checkpoints.Checkpoint, error) {
	return s.checkpoints.Checkpoint(account, pos)
}
