// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/govledger/vstake/api/restutil"
	"github.com/govledger/vstake/vstake"
)

type Summary struct {
	TotalStaked              *math.HexOrDecimal256 `json:"totalStaked"`
	RewardRate               *math.HexOrDecimal256 `json:"rewardRate"`
	RewardPerToken           *math.HexOrDecimal256 `json:"rewardPerToken"`
	RewardForDuration        *math.HexOrDecimal256 `json:"rewardForDuration"`
	PeriodFinish             uint64                `json:"periodFinish"`
	RewardsDuration          uint64                `json:"rewardsDuration"`
	LastTimeRewardApplicable uint64                `json:"lastTimeRewardApplicable"`
	Operator                 vstake.Address        `json:"operator"`
	Now                      uint64                `json:"now"`
}

type Account struct {
	Balance        *math.HexOrDecimal256 `json:"balance"`
	Earned         *math.HexOrDecimal256 `json:"earned"`
	Delegate       *vstake.Address       `json:"delegate"`
	Votes          *math.HexOrDecimal256 `json:"votes"`
	NumCheckpoints uint64                `json:"numCheckpoints"`
}

type Checkpoint struct {
	Timestamp uint64                `json:"timestamp"`
	Votes     *math.HexOrDecimal256 `json:"votes"`
}

type Votes struct {
	At    uint64                `json:"at"`
	Votes *math.HexOrDecimal256 `json:"votes"`
}

// AmountRequest is the body of stake and withdraw.
type AmountRequest struct {
	Caller vstake.Address        `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type CallerRequest struct {
	Caller vstake.Address `json:"caller"`
}

type DelegateRequest struct {
	Caller    vstake.Address `json:"caller"`
	Delegatee vstake.Address `json:"delegatee"`
}

type DurationRequest struct {
	Caller   vstake.Address `json:"caller"`
	Duration uint64         `json:"duration"`
}

type TransferSharesRequest struct {
	Caller vstake.Address        `json:"caller"`
	From   vstake.Address        `json:"from"`
	To     vstake.Address        `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type OperatorRequest struct {
	Caller   vstake.Address `json:"caller"`
	Operator vstake.Address `json:"operator"`
}

type Claimed struct {
	Paid    *math.HexOrDecimal256 `json:"paid"`
	Receipt *restutil.Receipt     `json:"receipt"`
}
