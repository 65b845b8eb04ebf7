// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

// Context binds storage wrappers to the address of a built-in contract.
type Context struct {
	address vstake.Address
	state   *state.State
}

func NewContext(address vstake.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() vstake.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
