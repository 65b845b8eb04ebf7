// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial ledger: contract addresses, the operator,
// token allocations and tunable overrides.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/govledger/vstake/builtin/gate"
	"github.com/govledger/vstake/builtin/solidity"
	"github.com/govledger/vstake/builtin/staking/rewards"
	"github.com/govledger/vstake/builtin/token"
	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

// Contracts holds the addresses of the built-in contracts.
type Contracts struct {
	Token       vstake.Address `yaml:"token" json:"token"`
	RewardToken vstake.Address `yaml:"rewardToken" json:"rewardToken"` // zero means Token
	Gate        vstake.Address `yaml:"gate" json:"gate"`
	Staking     vstake.Address `yaml:"staking" json:"staking"`
}

// DefaultContracts are used for every address left zero in a genesis config.
var DefaultContracts = Contracts{
	Token:   vstake.BytesToAddress([]byte("vstake-token")),
	Gate:    vstake.BytesToAddress([]byte("vstake-gate")),
	Staking: vstake.BytesToAddress([]byte("vstake-staking")),
}

func (c Contracts) withDefaults() Contracts {
	if c.Token.IsZero() {
		c.Token = DefaultContracts.Token
	}
	if c.RewardToken.IsZero() {
		c.RewardToken = c.Token
	}
	if c.Gate.IsZero() {
		c.Gate = DefaultContracts.Gate
	}
	if c.Staking.IsZero() {
		c.Staking = DefaultContracts.Staking
	}
	return c
}

// SameRewardToken reports whether rewards are paid in the staked token.
func (c Contracts) SameRewardToken() bool {
	return c.RewardToken == c.Token
}

// Genesis to build the initial state.
type Genesis struct {
	builder   *Builder
	name      string
	contracts Contracts
	operator  vstake.Address
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

func (g *Genesis) Contracts() Contracts {
	return g.contracts
}

func (g *Genesis) Operator() vstake.Address {
	return g.operator
}

func (g *Genesis) Timestamp() uint64 {
	return g.builder.timestamp
}

// Build applies the genesis to st. Events emitted by the allocations go to recorder.
// It is a no-op returning false when st already carries an operator.
func (g *Genesis) Build(st *state.State, recorder *event.Recorder) (bool, error) {
	op, err := gate.New(g.contracts.Gate, st, nil).Operator()
	if err != nil {
		return false, err
	}
	if !op.IsZero() {
		return false, nil
	}
	if err := g.builder.Build(st, recorder); err != nil {
		return false, errors.WithMessage(err, "build genesis "+g.name)
	}
	return true, nil
}

func newGenesis(name string, cfg *Config) (*Genesis, error) {
	if cfg.Operator.IsZero() {
		return nil, errors.New("operator must be set")
	}
	contracts := cfg.Contracts.withDefaults()
	if err := checkDistinct(contracts); err != nil {
		return nil, err
	}

	builder := new(Builder).Timestamp(cfg.Timestamp)
	for _, alloc := range cfg.Allocations {
		builder.State(allocate(contracts, alloc))
	}
	builder.State(func(st *state.State, recorder *event.Recorder) error {
		return gate.New(contracts.Gate, st, recorder).Initialize(cfg.Operator)
	})
	if cfg.RewardsDuration != 0 {
		duration := cfg.RewardsDuration
		builder.State(func(st *state.State, _ *event.Recorder) error {
			rewards.DefaultDuration.Override(solidity.NewContext(contracts.Staking, st), duration)
			return nil
		})
	}

	return &Genesis{
		builder:   builder,
		name:      name,
		contracts: contracts,
		operator:  cfg.Operator,
	}, nil
}

func allocate(contracts Contracts, alloc Allocation) func(*state.State, *event.Recorder) error {
	return func(st *state.State, recorder *event.Recorder) error {
		if alloc.Address.IsZero() {
			return errors.New("allocation to zero address")
		}
		if amount := (*big.Int)(&alloc.Token); amount.Sign() > 0 {
			if err := token.New(contracts.Token, st, recorder).Mint(alloc.Address, amount); err != nil {
				return errors.WithMessagef(err, "allocate %v", alloc.Address)
			}
		}
		if amount := (*big.Int)(&alloc.Reward); amount.Sign() > 0 {
			if contracts.SameRewardToken() {
				return errors.Errorf("allocate %v: reward allocation needs a separate reward token", alloc.Address)
			}
			if err := token.New(contracts.RewardToken, st, recorder).Mint(alloc.Address, amount); err != nil {
				return errors.WithMessagef(err, "allocate %v", alloc.Address)
			}
		}
		return nil
	}
}

func checkDistinct(c Contracts) error {
	seen := map[vstake.Address]string{}
	for _, e := range []struct {
		name string
		addr vstake.Address
	}{{"token", c.Token}, {"gate", c.Gate}, {"staking", c.Staking}} {
		if other, ok := seen[e.addr]; ok {
			return errors.Errorf("contracts %s and %s share address %v", other, e.name, e.addr)
		}
		seen[e.addr] = e.name
	}
	if !c.SameRewardToken() {
		if other, ok := seen[c.RewardToken]; ok {
			return errors.Errorf("contracts %s and rewardToken share address %v", other, c.RewardToken)
		}
	}
	return nil
}
