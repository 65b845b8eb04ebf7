// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"

	"github.com/govledger/vstake/api/restutil"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/vstake"
)

type Range struct {
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	Range   *Range          `json:"range,omitempty"`
	Address *vstake.Address `json:"address,omitempty"`
	Account *vstake.Address `json:"account,omitempty"`
	Name    string          `json:"name,omitempty"`
	Options *Options        `json:"options,omitempty"`
	Order   logdb.Order     `json:"order,omitempty"`
}

type Meta struct {
	CallNumber uint32         `json:"callNumber"`
	Index      uint32         `json:"index"`
	CallTime   uint64         `json:"callTime"`
	Caller     vstake.Address `json:"caller"`
	Method     string         `json:"method"`
}

type FilteredEvent struct {
	restutil.Event
	Meta Meta `json:"meta"`
}

func convertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	out := &logdb.Range{To: math.MaxInt64}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	}
	return out
}

func convertEventFilter(f *EventFilter) *logdb.EventFilter {
	filter := &logdb.EventFilter{
		Range:   convertRange(f.Range),
		Address: f.Address,
		Account: f.Account,
		Name:    f.Name,
		Order:   f.Order,
	}
	if f.Options != nil {
		filter.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return filter
}

func convertEvent(ev *logdb.Event) *FilteredEvent {
	base := restutil.ConvertEvent(&event.Event{Address: ev.Address, Name: ev.Name, Topics: ev.Topics, Data: ev.Data})
	return &FilteredEvent{
		Event: *base,
		Meta: Meta{
			CallNumber: ev.CallNumber,
			Index:      ev.Index,
			CallTime:   ev.CallTime,
			Caller:     ev.Caller,
			Method:     ev.Method,
		},
	}
}
