// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auditdb

import (
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/types"
)

// Record is a stored event with its sequence number.
type Record struct {
	Seq uint64
	events.Event
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Filter selects records. Nil fields match everything.
type Filter struct {
	Who    *types.Address
	Kind   *events.Kind
	Order  Order
	Offset uint64
	Limit  uint64
}
