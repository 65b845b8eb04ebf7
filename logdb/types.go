// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/vstake"
)

// Event is an event.Event together with the call that emitted it.
type Event struct {
	CallNumber uint32
	Index      uint32
	CallTime   uint64
	Caller     vstake.Address
	Method     string
	Address    vstake.Address // always a contract address
	Name       string
	Topics     [event.MaxTopics]*vstake.Address
	Data       []*big.Int
}

// Call describes the runtime call whose events are written.
type Call struct {
	Number uint32
	Time   uint64
	Caller vstake.Address
	Method string
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range filters on call time, both ends included. A To lower than From is ignored.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventFilter struct {
	Range   *Range
	Address *vstake.Address // emitting contract
	Account *vstake.Address // matches any topic
	Name    string
	Options *Options
	Order   Order // default asc
}
