// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package currency moves value between participants and the pool's custody account.
package currency

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/types"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Transferer is the currency primitive used by the reward engine.
type Transferer interface {
	// CanTransfer reports, without side effects, the error Transfer would fail with.
	CanTransfer(from, to types.Address, amount *uint256.Int) error
	// Transfer moves amount from one balance to another. It either fully succeeds or has no effect.
	Transfer(from, to types.Address, amount *uint256.Int) error
}
