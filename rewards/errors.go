// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"errors"

	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/rewards/pool"
)

// Kind classifies the errors returned by the Engine.
type Kind uint8

const (
	KindInsufficientStake Kind = iota + 1
	KindNoStakers
	KindArithmetic
	KindTransfer
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInsufficientStake:
		return "insufficient stake"
	case KindNoStakers:
		return "no stakers"
	case KindArithmetic:
		return "arithmetic error"
	case KindTransfer:
		return "transfer failed"
	case KindStorage:
		return "storage error"
	default:
		return "unknown error"
	}
}

// Error is returned by every failed Engine action. The ledger is unchanged when it is returned.
type Error struct {
	Kind  Kind
	Cause error
}

// Sentinels matching any *Error of the same kind with errors.Is.
var (
	ErrInsufficientStake = &Error{Kind: KindInsufficientStake}
	ErrNoStakers         = &Error{Kind: KindNoStakers}
	ErrArithmetic        = &Error{Kind: KindArithmetic}
	ErrTransfer          = &Error{Kind: KindTransfer}
	ErrStorage           = &Error{Kind: KindStorage}
)

// ErrCustodyParticipant is the cause of a transfer error when the custody account
// itself tries to deposit, withdraw or claim.
var ErrCustodyParticipant = errors.New("custody account cannot participate")

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Cause == nil && t.Kind == e.Kind
}

func transferError(err error) error {
	return &Error{Kind: KindTransfer, Cause: err}
}

func storageError(err error) error {
	return &Error{Kind: KindStorage, Cause: err}
}

// ledgerError classifies an error returned by the pool or participant ledgers.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, pool.ErrInsufficientStake):
		return &Error{Kind: KindInsufficientStake, Cause: err}
	case errors.Is(err, pool.ErrNoStakers):
		return &Error{Kind: KindNoStakers, Cause: err}
	case errors.Is(err, fixedpoint.ErrArithmetic):
		return &Error{Kind: KindArithmetic, Cause: err}
	default:
		return storageError(err)
	}
}

// KindOf returns the kind of err, or zero if err was not returned by the Engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
