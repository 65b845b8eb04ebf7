// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/vstake"
)

var (
	slotGlobal   = vstake.BytesToBytes32([]byte(("reward-global")))
	slotAccounts = vstake.BytesToBytes32([]byte(("reward-accounts")))

	// DefaultDuration is the length of a reward period unless overridden at genesis.
	DefaultDuration = solidity.NewConfigVariable("rewards-duration", 7*24*60*60)
)

// Service distributes a reward budget linearly over a period, proportionally
// to the staked balance held at each instant.
type Service struct {
	sctx     *solidity.Context
	global   *solidity.Raw[*Global]
	accounts *solidity.Mapping[vstake.Address, *Account]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:     sctx,
		global:   solidity.NewRaw[*Global](sctx, slotGlobal),
		accounts: solidity.NewMapping[vstake.Address, *Account](sctx, slotAccounts),
	}
}

func (s *Service) Global() (*Global, error) {
	g, err := s.global.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward schedule")
	}
	return g, nil
}

func (s *Service) Account(account vstake.Address) (*Account, error) {
	a, err := s.accounts.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward account")
	}
	return a, nil
}

// Duration returns the effective length of the next reward period.
func (s *Service) Duration() (uint64, error) {
	g, err := s.Global()
	if err != nil {
		return 0, err
	}
	return s.duration(g), nil
}

func (s *Service) duration(g *Global) uint64 {
	if g.Duration != 0 {
		return g.Duration
	}
	return DefaultDuration.Get(s.sctx)
}

// RewardRate returns the reward units streamed per second.
func (s *Service) RewardRate() (*big.Int, error) {
	g, err := s.Global()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(g.rate()), nil
}

func (s *Service) PeriodFinish() (uint64, error) {
	g, err := s.Global()
	if err != nil {
		return 0, err
	}
	return g.PeriodFinish, nil
}

func (s *Service) LastTimeRewardApplicable(now uint64) (uint64, error) {
	g, err := s.Global()
	if err != nil {
		return 0, err
	}
	return g.lastTimeApplicable(now), nil
}

// Outstanding returns the rewards the pool still owes, claimed or not yet streamed.
func (s *Service) Outstanding() (*big.Int, error) {
	g, err := s.Global()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(g.outstanding()), nil
}

// RewardForDuration returns rate*duration, the budget of the current period.
func (s *Service) RewardForDuration() (*big.Int, error) {
	g, err := s.Global()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mul(g.rate(), new(big.Int).SetUint64(s.duration(g))), nil
}

// RewardPerToken projects the accumulator to now.
func (s *Service) RewardPerToken(totalStaked *big.Int, now uint64) (*big.Int, error) {
	g, err := s.Global()
	if err != nil {
		return nil, err
	}
	return perTokenAt(g, totalStaked, now)
}

// Earned returns the reward claimable by account at now without settling it.
func (s *Service) Earned(account vstake.Address, balance, totalStaked *big.Int, now uint64) (*big.Int, error) {
	perToken, err := s.RewardPerToken(totalStaked, now)
	if err != nil {
		return nil, err
	}
	a, err := s.Account(account)
	if err != nil {
		return nil, err
	}
	return earnedAt(a, balance, perToken)
}

// update folds the accumulator up to now into storage.
func (s *Service) update(totalStaked *big.Int, now uint64) (*Global, error) {
	g, err := s.Global()
	if err != nil {
		return nil, err
	}
	perToken, err := perTokenAt(g, totalStaked, now)
	if err != nil {
		return nil, err
	}
	g.PerTokenStored = perToken
	applicable := g.lastTimeApplicable(now)
	if totalStaked.Sign() == 0 && applicable > g.LastUpdate {
		// streamed to nobody, back to the pool
		g.release(new(big.Int).Mul(g.rate(), new(big.Int).SetUint64(applicable-g.LastUpdate)))
	}
	g.LastUpdate = max(g.LastUpdate, applicable)
	if err := s.global.Set(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Settle brings the accumulator and the record of account up to now, using the
// balance account held since its previous settlement. It must be called
// before that balance changes. Settling twice at the same time is a no-op.
func (s *Service) Settle(account vstake.Address, balance, totalStaked *big.Int, now uint64) error {
	g, err := s.update(totalStaked, now)
	if err != nil {
		return err
	}
	a, err := s.Account(account)
	if err != nil {
		return err
	}
	owed, err := earnedAt(a, balance, g.perTokenStored())
	if err != nil {
		return err
	}
	a.Rewards = owed
	a.Paid = g.perTokenStored()
	return s.accounts.Set(account, a)
}

// Claim zeroes the unclaimed reward of a settled account and returns it.
func (s *Service) Claim(account vstake.Address) (*big.Int, error) {
	a, err := s.Account(account)
	if err != nil {
		return nil, err
	}
	owed := new(big.Int).Set(a.rewards())
	if owed.Sign() == 0 {
		return owed, nil
	}
	a.Rewards = new(big.Int)
	if err := s.accounts.Set(account, a); err != nil {
		return nil, err
	}
	g, err := s.Global()
	if err != nil {
		return nil, err
	}
	g.release(owed)
	if err := s.global.Set(g); err != nil {
		return nil, err
	}
	return owed, nil
}

// SetDuration changes the length of the next period. It is rejected while a period is running.
func (s *Service) SetDuration(duration uint64, now uint64) error {
	if duration == 0 {
		return reverts.ErrInvalidAmount
	}
	g, err := s.Global()
	if err != nil {
		return err
	}
	if now < g.PeriodFinish {
		return reverts.ErrRewardPeriodActive
	}
	g.Duration = duration
	return s.global.Set(g)
}

// Notify starts a new period of the effective duration distributing amount
// plus whatever was left of the running period. available is what the funding
// pool holds beyond the staked principal; rewards already owed are reserved
// from it before the new budget is checked.
func (s *Service) Notify(amount, available, totalStaked *big.Int, now uint64) (*Global, error) {
	if !vstake.InDomain(amount) {
		return nil, reverts.ErrInvalidAmount
	}
	g, err := s.update(totalStaked, now)
	if err != nil {
		return nil, err
	}
	duration := s.duration(g)
	if duration == 0 {
		return nil, reverts.ErrInvalidAmount
	}
	d := new(big.Int).SetUint64(duration)

	remaining := new(big.Int)
	if now < g.PeriodFinish {
		remaining.Mul(g.rate(), new(big.Int).SetUint64(g.PeriodFinish-now))
	}
	// owed to stakers already, not part of the rolled over budget
	owed := new(big.Int).Sub(g.outstanding(), remaining)
	if owed.Sign() < 0 {
		owed.SetUint64(0)
	}
	free := new(big.Int).Sub(available, owed)

	budget := new(big.Int).Add(amount, remaining)
	rate := new(big.Int).Div(budget, d)
	if rate.Sign() == 0 && budget.Sign() != 0 {
		return nil, reverts.ErrInvalidAmount
	}
	committed := new(big.Int).Mul(rate, d)
	if committed.Cmp(free) > 0 {
		return nil, reverts.ErrInvalidAmount
	}
	if !vstake.InDomain(rate) {
		return nil, reverts.ErrInvalidAmount
	}

	g.Rate = rate
	g.Outstanding = owed.Add(owed, committed)
	g.LastUpdate = now
	g.PeriodFinish = now + duration
	if err := s.global.Set(g); err != nil {
		return nil, err
	}
	return g, nil
}
