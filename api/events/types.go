// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/auditdb"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/types"
)

// Event is a pool event as served by the API. Who is omitted for distributions.
type Event struct {
	Seq       uint64                `json:"seq,omitempty"`
	Kind      events.Kind           `json:"kind"`
	Who       *types.Address        `json:"who,omitempty"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Timestamp uint64                `json:"timestamp"`
}

// ConvertEvent converts an emitted event.
func ConvertEvent(ev *events.Event) *Event {
	out := &Event{
		Kind:      ev.Kind,
		Amount:    utils.FromAmount(ev.Amount),
		Timestamp: ev.Timestamp,
	}
	if !ev.Who.IsZero() {
		who := ev.Who
		out.Who = &who
	}
	return out
}

func convertRecord(r *auditdb.Record) *Event {
	ev := ConvertEvent(&r.Event)
	ev.Seq = r.Seq
	return ev
}
