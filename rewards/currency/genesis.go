// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package currency

import (
	"os"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewardpool/types"
)

// Amount is a 256-bit amount written in YAML as a decimal or 0x-prefixed hex scalar.
type Amount struct {
	uint256.Int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", value.Line)
	}
	if err := a.Int.UnmarshalText([]byte(value.Value)); err != nil {
		return errors.Wrapf(err, "line %d: invalid amount %q", value.Line, value.Value)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Amount) MarshalYAML() (any, error) {
	return a.Int.Dec(), nil
}

// Alloc is a genesis balance.
type Alloc struct {
	Address types.Address `yaml:"address"`
	Balance Amount        `yaml:"balance"`
}

// Genesis describes the bank's initial state and the pool's custody account.
type Genesis struct {
	Custody types.Address `yaml:"custody"`
	Alloc   []Alloc       `yaml:"alloc"`
}

// DefaultCustody is the custody account used when no genesis file is given.
var DefaultCustody = types.MustParseAddress("0x0000000000000000000000000000506f6f6c4375")

// DefaultGenesis returns a genesis with the default custody account and no balances.
func DefaultGenesis() *Genesis {
	return &Genesis{Custody: DefaultCustody}
}

// LoadGenesis reads a YAML genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return ParseGenesis(data)
}

// ParseGenesis decodes a YAML genesis document.
func ParseGenesis(data []byte) (*Genesis, error) {
	var g Genesis
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if g.Custody.IsZero() {
		g.Custody = DefaultCustody
	}
	return &g, nil
}
