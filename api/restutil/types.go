// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/vstake"
)

// Amount converts a ledger amount for json output.
func Amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

// RequireAmount returns the big.Int of a request amount, or a bad request when missing.
func RequireAmount(v *math.HexOrDecimal256, field string) (*big.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.Errorf("%s: required", field))
	}
	return (*big.Int)(v), nil
}

// ParseAddress parses an address path or query parameter.
func ParseAddress(s string, name string) (vstake.Address, error) {
	addr, err := vstake.ParseAddress(s)
	if err != nil {
		return vstake.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// ParseUint64 parses a decimal path or query parameter. An empty s yields def.
func ParseUint64(s string, name string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

type Event struct {
	Address vstake.Address          `json:"address"`
	Name    string                  `json:"name"`
	Topics  []*vstake.Address       `json:"topics"`
	Data    []*math.HexOrDecimal256 `json:"data"`
}

func ConvertEvent(ev *event.Event) *Event {
	out := &Event{Address: ev.Address, Name: ev.Name, Topics: []*vstake.Address{}, Data: []*math.HexOrDecimal256{}}
	for _, t := range ev.Topics {
		if t != nil {
			out.Topics = append(out.Topics, t)
		}
	}
	for _, d := range ev.Data {
		out.Data = append(out.Data, Amount(d))
	}
	return out
}

// Receipt is the response of a dev write endpoint.
type Receipt struct {
	CallNumber uint32   `json:"callNumber"`
	Time       uint64   `json:"time"`
	Events     []*Event `json:"events"`
}

func ConvertReceipt(r *runtime.Receipt) *Receipt {
	out := &Receipt{CallNumber: r.CallNumber, Time: r.Time, Events: make([]*Event, 0, len(r.Events))}
	for _, ev := range r.Events {
		out.Events = append(out.Events, ConvertEvent(ev))
	}
	return out
}
