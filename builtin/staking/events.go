// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

// Names of the events emitted by the contract.
const (
	EventStaked                 = "Staked"
	EventWithdrawn              = "Withdrawn"
	EventRewardPaid             = "RewardPaid"
	EventRewardAdded            = "RewardAdded"
	EventRewardsDurationUpdated = "RewardsDurationUpdated"
	EventDelegateChanged        = "DelegateChanged"
	EventDelegateVotesChanged   = "DelegateVotesChanged"
	EventSharesTransferred      = "SharesTransferred"
)
