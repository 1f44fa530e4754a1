// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/types"
)

// ToAmount converts a JSON amount. A missing amount is an error.
func ToAmount(v *math.HexOrDecimal256, name string) (*uint256.Int, error) {
	if v == nil {
		return nil, BadRequest(errors.Errorf("%s: required", name))
	}
	b := (*big.Int)(v)
	if b.Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: negative", name))
	}
	amount, overflow := uint256.FromBig(b)
	if overflow {
		return nil, BadRequest(errors.Errorf("%s: exceeds 256 bits", name))
	}
	return amount, nil
}

// FromAmount converts an amount for JSON output.
func FromAmount(v *uint256.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v.ToBig())
}

// ParseAddress parses an address path or query parameter.
func ParseAddress(s, name string) (types.Address, error) {
	addr, err := types.ParseAddress(s)
	if err != nil {
		return types.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}
