// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a user-facing rejection of a call. State changes made by a
// reverted call are discarded.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

var (
	ErrInvalidAmount         = New("invalid amount")
	ErrInsufficientBalance   = New("insufficient staked balance")
	ErrInsufficientFunds     = New("insufficient funds")
	ErrInsufficientAllowance = New("insufficient allowance")
	ErrRewardPeriodActive    = New("reward period still active")
	ErrUnauthorized          = New("caller is not the operator")
	ErrFutureLookup          = New("lookup time not yet mined")
	ErrAlreadyInitialized    = New("already initialized")
	ErrSelfTransfer          = New("source and destination are the same")
	ErrInvalidAddress        = New("invalid address")
)

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}
