// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/govledger/vstake/vstake"
)

// Config is the yaml form of a custom genesis.
type Config struct {
	Name            string         `yaml:"name"`
	Timestamp       uint64         `yaml:"timestamp"`
	Operator        vstake.Address `yaml:"operator"`
	RewardsDuration uint64         `yaml:"rewardsDuration"` // seconds, 0 keeps the default
	Contracts       Contracts      `yaml:"contracts"`
	Allocations     []Allocation   `yaml:"allocations"`
}

// Allocation amounts are in wei, decimal or 0x-prefixed hex.
type Allocation struct {
	Address vstake.Address       `yaml:"address"`
	Token   math.HexOrDecimal256 `yaml:"token"`
	Reward  math.HexOrDecimal256 `yaml:"reward"`
}

// Parse decodes a yaml genesis document.
func Parse(data []byte) (*Genesis, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	name := cfg.Name
	if name == "" {
		name = "custom"
	}
	return newGenesis(name, &cfg)
}

// Load reads a yaml genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}
