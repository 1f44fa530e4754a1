// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/rewards"
	"github.com/vechain/rewardpool/rewards/pool"
	"github.com/vechain/rewardpool/types"
)

// Summary is the pool ledger.
type Summary struct {
	Custody        types.Address         `json:"custody"`
	TotalStake     *math.HexOrDecimal256 `json:"totalStake"`
	TotalRewards   *math.HexOrDecimal256 `json:"totalRewards"`
	RewardPerToken *math.HexOrDecimal256 `json:"rewardPerToken"`
}

func ConvertSummary(custody types.Address, l *pool.Ledger) *Summary {
	return &Summary{
		Custody:        custody,
		TotalStake:     utils.FromAmount(l.TotalStake()),
		TotalRewards:   utils.FromAmount(l.TotalRewards()),
		RewardPerToken: utils.FromAmount(l.RewardPerToken()),
	}
}

// Participant is one participant's account.
type Participant struct {
	Address     types.Address         `json:"address"`
	Stake       *math.HexOrDecimal256 `json:"stake"`
	RewardTally *math.HexOrDecimal256 `json:"rewardTally"`
	Accrued     *math.HexOrDecimal256 `json:"accrued"`
	Pending     *math.HexOrDecimal256 `json:"pending"`
}

func ConvertParticipant(p *rewards.Participant) *Participant {
	return &Participant{
		Address:     p.Address,
		Stake:       utils.FromAmount(p.Account.Stake()),
		RewardTally: utils.FromAmount(p.Account.RewardTally()),
		Accrued:     utils.FromAmount(p.Account.Accrued()),
		Pending:     utils.FromAmount(p.Pending),
	}
}

// StakeRequest is the body of deposit and withdraw.
type StakeRequest struct {
	Who    types.Address         `json:"who"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// ClaimRequest is the body of claim.
type ClaimRequest struct {
	Who types.Address `json:"who"`
}

// DistributeRequest is the body of distribute.
type DistributeRequest struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// AmountResult carries the amount moved by an action.
type AmountResult struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}
