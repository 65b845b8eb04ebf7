// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/govledger/vstake/vstake"
)

// ConfigVariable is a contract tunable with a compiled-in default that may be
// overridden by a non-zero value stored in the contract's slot (e.g. at genesis).
type ConfigVariable struct {
	slot  vstake.Bytes32
	name  string
	value uint64
}

func NewConfigVariable(name string, defaultValue uint64) *ConfigVariable {
	return &ConfigVariable{
		slot:  vstake.BytesToBytes32([]byte(name)),
		name:  name,
		value: defaultValue,
	}
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() vstake.Bytes32 {
	return c.slot
}

// Get returns the effective value in the given contract context.
func (c *ConfigVariable) Get(ctx *Context) uint64 {
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		log.Warn("failed to read config value", "slot", c.name, "error", err)
		return c.value
	}
	num := new(big.Int).SetBytes(storage.Bytes())
	if num.Sign() == 0 || !num.IsUint64() {
		return c.value
	}
	return num.Uint64()
}

// Override stores value in the contract's slot.
func (c *ConfigVariable) Override(ctx *Context, value uint64) {
	log.Debug("override config value", "slot", c.name, "value", value)
	ctx.state.SetStorage(ctx.address, c.slot, vstake.BytesToBytes32(new(big.Int).SetUint64(value).Bytes()))
}

// Default returns the compiled-in value.
func (c *ConfigVariable) Default() uint64 {
	return c.value
}
