// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events carries pool state-change notifications to observers.
package events

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/types"
)

// Kind is the action an event reports.
type Kind uint8

const (
	Deposited Kind = iota + 1
	Withdrawn
	Claimed
	Distributed
)

var kindNames = map[Kind]string{
	Deposited:   "deposited",
	Withdrawn:   "withdrawn",
	Claimed:     "claimed",
	Distributed: "distributed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown event kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind converts a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is one successful pool action. Who is zero for Distributed.
type Event struct {
	Kind      Kind
	Who       types.Address
	Amount    *uint256.Int
	Timestamp uint64
}

// Sink receives events. Emit is called while the engine lock is held, so it must not
// block the caller or call back into the engine.
type Sink interface {
	Emit(ev *Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ev *Event)

// Emit implements Sink.
func (f SinkFunc) Emit(ev *Event) { f(ev) }

// Discard is a Sink dropping every event.
var Discard Sink = SinkFunc(func(*Event) {})
