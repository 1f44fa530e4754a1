// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fixedpoint implements the scaled integer arithmetic used by the reward ledger.
// Every operation is deterministic: products are computed with a 512-bit intermediate and
// quotients are floored, so residual fractions always stay with the pool.
package fixedpoint

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Decimals is the number of decimal places carried by scaled values.
const Decimals = 18

var scale = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(Decimals))

// Scale returns the fixed-point factor of the reward-per-token accumulator (10^Decimals).
func Scale() *uint256.Int {
	return scale.Clone()
}

var (
	// ErrArithmetic is the parent of every error returned by this package.
	ErrArithmetic = errors.New("arithmetic error")

	ErrOverflow       = fmt.Errorf("%w: overflow", ErrArithmetic)
	ErrUnderflow      = fmt.Errorf("%w: underflow", ErrArithmetic)
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrArithmetic)
)

// MulDiv returns floor(a*b/d). The product is kept in 512 bits, so it only fails when the
// quotient itself does not fit in 256 bits.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// ScaleMulDiv returns floor(a*b/Scale), turning a scaled value back into units.
func ScaleMulDiv(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, b, scale)
}

// ScaleDiv returns floor(a*Scale/b), the scaled ratio of a to b.
func ScaleDiv(a, b *uint256.Int) (*uint256.Int, error) {
	return MulDiv(a, scale, b)
}

// Add returns a+b.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns a-b, failing instead of wrapping when b > a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}
