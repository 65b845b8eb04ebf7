// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/builtin/staking/balances"
	"github.com/govledger/vstake/builtin/staking/checkpoints"
	"github.com/govledger/vstake/builtin/staking/rewards"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var logger = log.New("pkg", "staking")

var slotLastSeen = vstake.BytesToBytes32([]byte(("last-seen-time")))

// ErrClockRegression is returned when a call carries a time earlier than a previous call.
var ErrClockRegression = errors.New("clock moved backwards")

// Asset is the fungible ledger the contract custodies, both for the staked
// principal and for the reward pool.
type Asset interface {
	Address() vstake.Address
	BalanceOf(holder vstake.Address) (*big.Int, error)
	// TransferIn pulls amount from account into the contract.
	TransferIn(from vstake.Address, amount *big.Int) error
	// TransferOut pays amount from the contract to account.
	TransferOut(to vstake.Address, amount *big.Int) error
}

// Authorizer decides whether a caller may perform restricted operations.
type Authorizer interface {
	Require(caller vstake.Address) error
}

// Staking is the governance staking contract. Staked balances are voting
// shares: they earn rewards from a pool streamed over time and carry voting
// power that can be delegated and looked up at past times.
type Staking struct {
	addr        vstake.Address
	balances    *balances.Service
	rewards     *rewards.Service
	checkpoints *checkpoints.Service
	lastSeen    *solidity.Raw[uint64]

	base     Asset
	reward   Asset
	auth     Authorizer
	recorder *event.Recorder
}

// New create a new instance.
func New(addr vstake.Address, state *state.State, base, reward Asset, auth Authorizer, recorder *event.Recorder) *Staking {
	sctx := solidity.NewContext(addr, state)
	return &Staking{
		addr:        addr,
		balances:    balances.New(sctx),
		rewards:     rewards.New(sctx),
		checkpoints: checkpoints.New(sctx),
		lastSeen:    solidity.NewRaw[uint64](sctx, slotLastSeen),
		base:        base,
		reward:      reward,
		auth:        auth,
		recorder:    recorder,
	}
}

func (s *Staking) Address() vstake.Address {
	return s.addr
}

func (s *Staking) emit(name string, accounts []vstake.Address, amounts ...*big.Int) {
	s.recorder.Emit(event.New(s.addr, name, accounts...).WithData(amounts...))
}

// observe checks now against the last time seen by a mutating call and records it.
func (s *Staking) observe(now uint64) error {
	if err := s.checkTime(now); err != nil {
		return err
	}
	return s.lastSeen.Set(now)
}

func (s *Staking) checkTime(now uint64) error {
	last, err := s.lastSeen.Get()
	if err != nil {
		return err
	}
	if now < last {
		return errors.Wrapf(ErrClockRegression, "%d < %d", now, last)
	}
	return nil
}

func validAmount(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0 && vstake.InDomain(amount)
}

// settle brings the reward record of account up to now with its current balance.
func (s *Staking) settle(account vstake.Address, now uint64) error {
	bal, err := s.balances.BalanceOf(account)
	if err != nil {
		return err
	}
	total, err := s.balances.TotalStaked()
	if err != nil {
		return err
	}
	return s.rewards.Settle(account, bal, total, now)
}

// moveVotes propagates a change of voting shares to the delegates involved.
func (s *Staking) moveVotes(from, to vstake.Address, amount *big.Int, now uint64) error {
	changes, err := s.checkpoints.MoveVotingPower(from, to, amount, now)
	if err != nil {
		return err
	}
	for _, c := range changes {
		s.emit(EventDelegateVotesChanged, []vstake.Address{c.Delegate}, c.Previous, c.Current)
	}
	return nil
}

func (s *Staking) pushTotalSupply(now uint64) error {
	total, err := s.balances.TotalStaked()
	if err != nil {
		return err
	}
	return s.checkpoints.PushTotalSupply(total, now)
}

// Stake deposits amount of the base asset, which must have been approved to
// the contract beforehand, and mints the same amount of voting shares.
func (s *Staking) Stake(account vstake.Address, amount *big.Int, now uint64) error {
	logger.Debug("stake", "account", account, "amount", amount)
	if err := s.observe(now); err != nil {
		return err
	}
	if !validAmount(amount) {
		return reverts.ErrInvalidAmount
	}
	if err := s.settle(account, now); err != nil {
		return err
	}
	if err := s.base.TransferIn(account, amount); err != nil {
		logger.Info("stake failed", "account", account, "error", err)
		return err
	}
	if err := s.balances.Add(account, amount); err != nil {
		return err
	}
	delegatee, err := s.checkpoints.Delegates(account)
	if err != nil {
		return err
	}
	if err := s.moveVotes(vstake.Address{}, delegatee, amount, now); err != nil {
		return err
	}
	if err := s.pushTotalSupply(now); err != nil {
		return err
	}
	s.emit(EventStaked, []vstake.Address{account}, amount)
	logger.Info("staked", "account", account, "amount", amount)
	return nil
}

// Withdraw burns amount of voting shares and returns the same amount of base asset.
func (s *Staking) Withdraw(account vstake.Address, amount *big.Int, now uint64) error {
	logger.Debug("withdraw", "account", account, "amount", amount)
	if err := s.observe(now); err != nil {
		return err
	}
	if !validAmount(amount) {
		return reverts.ErrInvalidAmount
	}
	bal, err := s.balances.BalanceOf(account)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		logger.Info("withdraw failed", "account", account, "balance", bal, "amount", amount)
		return reverts.ErrInsufficientBalance
	}
	if err := s.settle(account, now); err != nil {
		return err
	}
	if err := s.balances.Sub(account, amount); err != nil {
		return err
	}
	delegatee, err := s.checkpoints.Delegates(account)
	if err != nil {
		return err
	}
	if err := s.moveVotes(delegatee, vstake.Address{}, amount, now); err != nil {
		return err
	}
	if err := s.pushTotalSupply(now); err != nil {
		return err
	}
	if err := s.base.TransferOut(account, amount); err != nil {
		return err
	}
	s.emit(EventWithdrawn, []vstake.Address{account}, amount)
	logger.Info("withdrawn", "account", account, "amount", amount)
	return nil
}

// GetReward pays out everything account has earned so far and returns the paid amount.
// Paying nothing is not an error.
func (s *Staking) GetReward(account vstake.Address, now uint64) (*big.Int, error) {
	if err := s.observe(now); err != nil {
		return nil, err
	}
	if err := s.settle(account, now); err != nil {
		return nil, err
	}
	owed, err := s.rewards.Claim(account)
	if err != nil {
		return nil, err
	}
	if owed.Sign() == 0 {
		return owed, nil
	}
	if err := s.reward.TransferOut(account, owed); err != nil {
		return nil, err
	}
	s.emit(EventRewardPaid, []vstake.Address{account}, owed)
	logger.Info("reward paid", "account", account, "amount", owed)
	return owed, nil
}

// Exit withdraws the whole staked balance of account and claims its rewards.
func (s *Staking) Exit(account vstake.Address, now uint64) (*big.Int, error) {
	bal, err := s.balances.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	if err := s.Withdraw(account, bal, now); err != nil {
		return nil, err
	}
	return s.GetReward(account, now)
}

// Delegate hands the voting power of account to delegatee.
func (s *Staking) Delegate(account, delegatee vstake.Address, now uint64) error {
	if err := s.observe(now); err != nil {
		return err
	}
	bal, err := s.balances.BalanceOf(account)
	if err != nil {
		return err
	}
	from, changes, err := s.checkpoints.Delegate(account, delegatee, bal, now)
	if err != nil {
		return err
	}
	if from == delegatee {
		return nil
	}
	s.emit(EventDelegateChanged, []vstake.Address{account, from, delegatee})
	for _, c := range changes {
		s.emit(EventDelegateVotesChanged, []vstake.Address{c.Delegate}, c.Previous, c.Current)
	}
	logger.Debug("delegated", "account", account, "from", from, "to", delegatee)
	return nil
}

// SetRewardsDuration sets the length of the next reward period. Operator only.
func (s *Staking) SetRewardsDuration(caller vstake.Address, duration uint64, now uint64) error {
	if err := s.auth.Require(caller); err != nil {
		return err
	}
	if err := s.observe(now); err != nil {
		return err
	}
	if err := s.rewards.SetDuration(duration, now); err != nil {
		logger.Info("set rewards duration failed", "duration", duration, "error", err)
		return err
	}
	s.emit(EventRewardsDurationUpdated, nil, new(big.Int).SetUint64(duration))
	logger.Info("rewards duration updated", "duration", duration)
	return nil
}

// SetRewardAmount starts a reward period distributing amount, plus what is
// left of the running period. The pool must already hold the budget. Operator only.
func (s *Staking) SetRewardAmount(caller vstake.Address, amount *big.Int, now uint64) error {
	if err := s.auth.Require(caller); err != nil {
		return err
	}
	if err := s.observe(now); err != nil {
		return err
	}
	total, err := s.balances.TotalStaked()
	if err != nil {
		return err
	}
	available, err := s.availableRewards(total)
	if err != nil {
		return err
	}
	g, err := s.rewards.Notify(amount, available, total, now)
	if err != nil {
		logger.Info("set reward amount failed", "amount", amount, "available", available, "error", err)
		return err
	}
	s.emit(EventRewardAdded, nil, amount)
	logger.Info("reward added", "amount", amount, "rate", g.Rate, "periodFinish", g.PeriodFinish)
	return nil
}

// availableRewards is the reward asset held by the contract, excluding the
// staked principal when base and reward are the same asset. Rewards already
// owed are reserved from it by the reward engine.
func (s *Staking) availableRewards(totalStaked *big.Int) (*big.Int, error) {
	held, err := s.reward.BalanceOf(s.addr)
	if err != nil {
		return nil, err
	}
	if s.reward.Address() == s.base.Address() {
		held.Sub(held, totalStaked)
		if held.Sign() < 0 {
			held.SetUint64(0)
		}
	}
	return held, nil
}

// TransferShares moves voting shares from one account to another, settling
// both and moving the votes between their delegates. Operator only.
func (s *Staking) TransferShares(caller, from, to vstake.Address, amount *big.Int, now uint64) error {
	if err := s.auth.Require(caller); err != nil {
		return err
	}
	if err := s.observe(now); err != nil {
		return err
	}
	if from == to {
		return reverts.ErrSelfTransfer
	}
	if to.IsZero() {
		return reverts.ErrInvalidAddress
	}
	if !validAmount(amount) {
		return reverts.ErrInvalidAmount
	}
	bal, err := s.balances.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	if err := s.settle(from, now); err != nil {
		return err
	}
	if err := s.settle(to, now); err != nil {
		return err
	}
	if err := s.balances.Move(from, to, amount); err != nil {
		return err
	}
	fromDelegate, err := s.checkpoints.Delegates(from)
	if err != nil {
		return err
	}
	toDelegate, err := s.checkpoints.Delegates(to)
	if err != nil {
		return err
	}
	if err := s.moveVotes(fromDelegate, toDelegate, amount, now); err != nil {
		return err
	}
	s.emit(EventSharesTransferred, []vstake.Address{from, to}, amount)
	logger.Info("shares transferred", "from", from, "to", to, "amount", amount)
	return nil
}
