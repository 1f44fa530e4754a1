// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/metrics"
)

var (
	metricActionCount  = metrics.LazyLoadCounterVec("rewards_action_count", []string{"action", "status"})
	metricTotalStake   = metrics.LazyLoadGauge("rewards_total_stake")
	metricParticipants = metrics.LazyLoadGauge("rewards_participants")
)

// gaugeValue saturates v to fit an int64 gauge.
func gaugeValue(v *uint256.Int) int64 {
	if !v.IsUint64() || v.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v.Uint64())
}
