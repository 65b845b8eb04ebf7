// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoints

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/vstake"
)

var (
	slotDelegates     = vstake.BytesToBytes32([]byte(("delegates")))
	slotVotesLength   = vstake.BytesToBytes32([]byte(("votes-length")))
	slotVotesEntries  = vstake.BytesToBytes32([]byte(("votes-entries")))
	slotSupplyLength  = vstake.BytesToBytes32([]byte(("supply-length")))
	slotSupplyEntries = vstake.BytesToBytes32([]byte(("supply-entries")))
)

// supplyOwner keys the single total supply history.
var supplyOwner = vstake.Bytes32{}

// VotesChange describes the new voting power of a delegate after a move.
type VotesChange struct {
	Delegate vstake.Address
	Previous *big.Int
	Current  *big.Int
}

// Service tracks who holds the voting power of each account, and the
// history of every delegate's voting power.
type Service struct {
	delegates *solidity.Mapping[vstake.Address, vstake.Address]
	votes     *history
	supply    *history
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		delegates: solidity.NewMapping[vstake.Address, vstake.Address](sctx, slotDelegates),
		votes:     newHistory(sctx, slotVotesLength, slotVotesEntries),
		supply:    newHistory(sctx, slotSupplyLength, slotSupplyEntries),
	}
}

func ownerKey(account vstake.Address) vstake.Bytes32 {
	return vstake.BytesToBytes32(account.Bytes())
}

// Delegates returns the delegate of account, zero if it has none.
func (s *Service) Delegates(account vstake.Address) (vstake.Address, error) {
	to, err := s.delegates.Get(account)
	if err != nil {
		return vstake.Address{}, errors.Wrap(err, "failed to get delegate")
	}
	return to, nil
}

// Delegate points the voting power of account, worth balance, at to.
// Delegating to the zero address removes the delegation. It returns the
// previous delegate and the resulting vote changes, none if to is already the delegate.
func (s *Service) Delegate(account, to vstake.Address, balance *big.Int, now uint64) (vstake.Address, []VotesChange, error) {
	from, err := s.Delegates(account)
	if err != nil {
		return vstake.Address{}, nil, err
	}
	if from == to {
		return from, nil, nil
	}
	if err := s.delegates.Set(account, to); err != nil {
		return vstake.Address{}, nil, err
	}
	changes, err := s.MoveVotingPower(from, to, balance, now)
	if err != nil {
		return vstake.Address{}, nil, err
	}
	return from, changes, nil
}

// MoveVotingPower moves amount of votes from one delegate to another,
// recording a checkpoint at now for each side. A zero address side is skipped.
func (s *Service) MoveVotingPower(from, to vstake.Address, amount *big.Int, now uint64) ([]VotesChange, error) {
	if from == to || amount.Sign() == 0 {
		return nil, nil
	}
	var changes []VotesChange
	if !from.IsZero() {
		prev, err := s.GetVotes(from)
		if err != nil {
			return nil, err
		}
		if prev.Cmp(amount) < 0 {
			return nil, errors.Errorf("votes of %v underflow: %v < %v", from, prev, amount)
		}
		cur := new(big.Int).Sub(prev, amount)
		if err := s.votes.push(ownerKey(from), now, cur); err != nil {
			return nil, err
		}
		changes = append(changes, VotesChange{from, prev, cur})
	}
	if !to.IsZero() {
		prev, err := s.GetVotes(to)
		if err != nil {
			return nil, err
		}
		cur := new(big.Int).Add(prev, amount)
		if !vstake.InDomain(cur) {
			return nil, errors.Errorf("votes of %v overflow", to)
		}
		if err := s.votes.push(ownerKey(to), now, cur); err != nil {
			return nil, err
		}
		changes = append(changes, VotesChange{to, prev, cur})
	}
	return changes, nil
}

// GetVotes returns the current voting power of account.
func (s *Service) GetVotes(account vstake.Address) (*big.Int, error) {
	return s.votes.latest(ownerKey(account))
}

// GetPastVotes returns the voting power account held at time t, which must be in the past.
func (s *Service) GetPastVotes(account vstake.Address, t, now uint64) (*big.Int, error) {
	if t >= now {
		return nil, reverts.ErrFutureLookup
	}
	return s.votes.upperLookup(ownerKey(account), t)
}

func (s *Service) NumCheckpoints(account vstake.Address) (uint64, error) {
	return s.votes.length(ownerKey(account))
}

// Checkpoint returns the pos-th checkpoint of account. Out of range positions
// yield a zero checkpoint.
func (s *Service) Checkpoint(account vstake.Address, pos uint64) (*Checkpoint, error) {
	n, err := s.NumCheckpoints(account)
	if err != nil {
		return nil, err
	}
	if pos >= n {
		return &Checkpoint{Votes: new(big.Int)}, nil
	}
	return s.votes.at(ownerKey(account), pos)
}

// PushTotalSupply records the total voting supply at now.
func (s *Service) PushTotalSupply(total *big.Int, now uint64) error {
	return s.supply.push(supplyOwner, now, total)
}

// GetPastTotalSupply returns the total voting supply at time t, which must be in the past.
func (s *Service) GetPastTotalSupply(t, now uint64) (*big.Int, error) {
	if t >= now {
		return nil, reverts.ErrFutureLookup
	}
	return s.supply.upperLookup(supplyOwner, t)
}
