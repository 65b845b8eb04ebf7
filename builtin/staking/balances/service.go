// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package balances

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/vstake"
)

var (
	slotBalances    = vstake.BytesToBytes32([]byte(("staked-balances")))
	slotTotalStaked = vstake.BytesToBytes32([]byte(("total-staked")))
)

// Service is the ledger of staked balances. The total is kept equal to the
// sum of all balances by mutating both in every call.
type Service struct {
	balances *solidity.Mapping[vstake.Address, *big.Int]
	total    *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		balances: solidity.NewMapping[vstake.Address, *big.Int](sctx, slotBalances),
		total:    solidity.NewUint256(sctx, slotTotalStaked),
	}
}

// BalanceOf returns the staked balance of account, zero if it never staked.
func (s *Service) BalanceOf(account vstake.Address) (*big.Int, error) {
	bal, err := s.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staked balance")
	}
	return bal, nil
}

// TotalStaked returns the sum of all staked balances.
func (s *Service) TotalStaked() (*big.Int, error) {
	return s.total.Get()
}

func (s *Service) Add(account vstake.Address, amount *big.Int) error {
	if err := s.total.Add(amount); err != nil {
		return errors.Wrap(err, "failed to increase total staked")
	}
	bal, err := s.BalanceOf(account)
	if err != nil {
		return err
	}
	return s.balances.Set(account, bal.Add(bal, amount))
}

// Sub decreases the balance of account, failing with ErrInsufficientBalance
// if amount exceeds it.
func (s *Service) Sub(account vstake.Address, amount *big.Int) error {
	bal, err := s.BalanceOf(account)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	if err := s.total.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to decrease total staked")
	}
	bal.Sub(bal, amount)
	if bal.Sign() == 0 {
		return s.balances.Set(account, nil)
	}
	return s.balances.Set(account, bal)
}

// Move transfers amount between two balances, leaving the total unchanged.
func (s *Service) Move(from, to vstake.Address, amount *big.Int) error {
	fromBal, err := s.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	if err := s.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := s.BalanceOf(to)
	if err != nil {
		return err
	}
	return s.balances.Set(to, toBal.Add(toBal, amount))
}
