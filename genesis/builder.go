// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/state"
)

// Builder helper to build the genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(st *state.State, recorder *event.Recorder) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(st *state.State, recorder *event.Recorder) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes in order.
func (b *Builder) Build(st *state.State, recorder *event.Recorder) error {
	for _, proc := range b.stateProcs {
		if err := proc(st, recorder); err != nil {
			return err
		}
	}
	return nil
}
