// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoints

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/vstake"
)

// Checkpoint records the value of a history from Timestamp on.
type Checkpoint struct {
	Timestamp uint64
	Votes     *big.Int
}

func (c *Checkpoint) votes() *big.Int {
	if c.Votes == nil {
		return new(big.Int)
	}
	return c.Votes
}

// history is a set of append-only checkpoint arrays, one per owner, stored as
// a length plus one slot per element so that any position can be read directly.
type history struct {
	lengths *solidity.Mapping[vstake.Bytes32, uint64]
	entries *solidity.Mapping[vstake.Bytes32, *Checkpoint]
}

func newHistory(sctx *solidity.Context, lengthSlot, entrySlot vstake.Bytes32) *history {
	return &history{
		lengths: solidity.NewMapping[vstake.Bytes32, uint64](sctx, lengthSlot),
		entries: solidity.NewMapping[vstake.Bytes32, *Checkpoint](sctx, entrySlot),
	}
}

func entryKey(owner vstake.Bytes32, pos uint64) vstake.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], pos)
	return vstake.Blake2b(owner.Bytes(), b[:])
}

func (h *history) length(owner vstake.Bytes32) (uint64, error) {
	n, err := h.lengths.Get(owner)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get checkpoint count")
	}
	return n, nil
}

func (h *history) at(owner vstake.Bytes32, pos uint64) (*Checkpoint, error) {
	c, err := h.entries.Get(entryKey(owner, pos))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	c.Votes = c.votes()
	return c, nil
}

// latest returns the current value, zero for an empty history.
func (h *history) latest(owner vstake.Bytes32) (*big.Int, error) {
	n, err := h.length(owner)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int), nil
	}
	c, err := h.at(owner, n-1)
	if err != nil {
		return nil, err
	}
	return c.Votes, nil
}

// push records value at now. A second write at the same timestamp overwrites
// the last checkpoint so timestamps stay strictly increasing.
func (h *history) push(owner vstake.Bytes32, now uint64, value *big.Int) error {
	n, err := h.length(owner)
	if err != nil {
		return err
	}
	if n > 0 {
		last, err := h.at(owner, n-1)
		if err != nil {
			return err
		}
		if now < last.Timestamp {
			return errors.Errorf("checkpoint time went backwards: %d < %d", now, last.Timestamp)
		}
		if now == last.Timestamp {
			last.Votes = new(big.Int).Set(value)
			return h.entries.Set(entryKey(owner, n-1), last)
		}
	}
	if err := h.entries.Set(entryKey(owner, n), &Checkpoint{Timestamp: now, Votes: new(big.Int).Set(value)}); err != nil {
		return err
	}
	return h.lengths.Set(owner, n+1)
}

// upperLookup returns the value of the last checkpoint with Timestamp <= t,
// zero if there is none.
func (h *history) upperLookup(owner vstake.Bytes32, t uint64) (*big.Int, error) {
	n, err := h.length(owner)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return new(big.Int), nil
	}
	last, err := h.at(owner, n-1)
	if err != nil {
		return nil, err
	}
	if last.Timestamp <= t {
		return last.Votes, nil
	}

	low, high := uint64(0), n-1
	for low < high {
		mid := low + (high-low)/2
		c, err := h.at(owner, mid)
		if err != nil {
			return nil, err
		}
		if c.Timestamp > t {
			high = mid
		} else {
			low = mid + 1
		}
	}
	if high == 0 {
		return new(big.Int), nil
	}
	c, err := h.at(owner, high-1)
	if err != nil {
		return nil, err
	}
	return c.Votes, nil
}
