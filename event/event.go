// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package event holds the log records emitted by built-in contracts during a call.
package event

import (
	"math/big"

	"github.com/govledger/vstake/vstake"
)

// MaxTopics is the number of indexed accounts an event can carry.
const MaxTopics = 3

// Event is a record emitted by a built-in contract.
// Topics are the indexed accounts of the event (e.g. delegator, from, to),
// Data carries its amounts.
type Event struct {
	Address vstake.Address
	Name    string
	Topics  [MaxTopics]*vstake.Address
	Data    []*big.Int
}

// New creates an event of the given contract. Accounts beyond MaxTopics are ignored.
func New(contract vstake.Address, name string, accounts ...vstake.Address) *Event {
	ev := &Event{Address: contract, Name: name}
	for i := 0; i < len(accounts) && i < MaxTopics; i++ {
		acc := accounts[i]
		ev.Topics[i] = &acc
	}
	return ev
}

// WithData sets the amounts carried by the event.
func (e *Event) WithData(amounts ...*big.Int) *Event {
	e.Data = make([]*big.Int, 0, len(amounts))
	for _, a := range amounts {
		e.Data = append(e.Data, new(big.Int).Set(a))
	}
	return e
}

// Involves reports whether addr is one of the event's topics.
func (e *Event) Involves(addr vstake.Address) bool {
	for _, t := range e.Topics {
		if t != nil && *t == addr {
			return true
		}
	}
	return false
}

// Events slice of event.
type Events []*Event

// Recorder collects the events of one call. A nil Recorder drops everything.
type Recorder struct {
	events Events
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ev *Event) {
	if r == nil {
		return
	}
	r.events = append(r.events, ev)
}

// Mark returns the current position, to be passed to Rewind.
func (r *Recorder) Mark() int {
	if r == nil {
		return 0
	}
	return len(r.events)
}

// Rewind drops the events emitted after mark.
func (r *Recorder) Rewind(mark int) {
	if r == nil || mark < 0 || mark > len(r.events) {
		return
	}
	r.events = r.events[:mark]
}

func (r *Recorder) Events() Events {
	if r == nil {
		return nil
	}
	return r.events
}
