// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gate restricts reward configuration and share transfers to a single operator.
package gate

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var logger = log.New("pkg", "gate")

var slotOperator = vstake.BytesToBytes32([]byte("operator"))

const EventOperatorTransferred = "OperatorTransferred"

// Gate restricts privileged operations to a single operator account.
type Gate struct {
	addr     vstake.Address
	operator *solidity.Address
	recorder *event.Recorder
}

func New(addr vstake.Address, state *state.State, recorder *event.Recorder) *Gate {
	return &Gate{
		addr:     addr,
		operator: solidity.NewAddress(solidity.NewContext(addr, state), slotOperator),
		recorder: recorder,
	}
}

// Operator returns the current operator, zero before initialization.
func (g *Gate) Operator() (vstake.Address, error) {
	return g.operator.Get()
}

// Initialize sets the first operator. It can be done only once.
func (g *Gate) Initialize(operator vstake.Address) error {
	current, err := g.operator.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.ErrAlreadyInitialized
	}
	if operator.IsZero() {
		return reverts.ErrInvalidAddress
	}
	g.operator.Set(&operator)
	g.recorder.Emit(event.New(g.addr, EventOperatorTransferred, vstake.Address{}, operator))
	logger.Info("operator initialized", "operator", operator)
	return nil
}

// TransferOperator hands the role over to next.
func (g *Gate) TransferOperator(caller, next vstake.Address) error {
	if err := g.Require(caller); err != nil {
		return err
	}
	if next.IsZero() {
		return reverts.ErrInvalidAddress
	}
	g.operator.Set(&next)
	g.recorder.Emit(event.New(g.addr, EventOperatorTransferred, caller, next))
	logger.Info("operator transferred", "from", caller, "to", next)
	return nil
}

// Require fails with ErrUnauthorized unless caller is the operator.
func (g *Gate) Require(caller vstake.Address) error {
	operator, err := g.operator.Get()
	if err != nil {
		return err
	}
	if operator.IsZero() || operator != caller {
		return reverts.ErrUnauthorized
	}
	return nil
}
