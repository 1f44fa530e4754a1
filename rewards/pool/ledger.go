// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"errors"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/fixedpoint"
)

var (
	ErrNoStakers         = errors.New("no stakers")
	ErrInsufficientStake = errors.New("insufficient stake")
)

// Ledger holds the pool-wide scalars.
// RewardPerToken is the reward earned per unit of stake since genesis, scaled by fixedpoint.Scale.
// Participants are never iterated: each one settles lazily against RewardPerToken.
type Ledger struct {
	totalStake     uint256.Int
	totalRewards   uint256.Int
	rewardPerToken uint256.Int
}

// New returns the genesis ledger with every scalar at zero.
func New() *Ledger {
	return &Ledger{}
}

// TotalStake returns the sum of all participants' stake.
func (l *Ledger) TotalStake() *uint256.Int {
	return l.totalStake.Clone()
}

// TotalRewards returns the cumulative amount ever distributed. It is an audit counter
// and is not used for payouts.
func (l *Ledger) TotalRewards() *uint256.Int {
	return l.totalRewards.Clone()
}

// RewardPerToken returns the scaled accumulator.
func (l *Ledger) RewardPerToken() *uint256.Int {
	return l.rewardPerToken.Clone()
}

// Copy returns an independent copy of the ledger.
func (l *Ledger) Copy() *Ledger {
	cpy := *l
	return &cpy
}

// Distribute spreads amount over the current stake by advancing the accumulator.
// It fails with ErrNoStakers when nothing is staked, in which case the ledger is unchanged.
func (l *Ledger) Distribute(amount *uint256.Int) error {
	if l.totalStake.IsZero() {
		return ErrNoStakers
	}
	delta, err := fixedpoint.ScaleDiv(amount, &l.totalStake)
	if err != nil {
		return err
	}
	rpt, err := fixedpoint.Add(&l.rewardPerToken, delta)
	if err != nil {
		return err
	}
	total, err := fixedpoint.Add(&l.totalRewards, amount)
	if err != nil {
		return err
	}
	l.rewardPerToken.Set(rpt)
	l.totalRewards.Set(total)
	return nil
}

// AddStake increases the total stake.
func (l *Ledger) AddStake(amount *uint256.Int) error {
	total, err := fixedpoint.Add(&l.totalStake, amount)
	if err != nil {
		return err
	}
	l.totalStake.Set(total)
	return nil
}

// RemoveStake decreases the total stake.
func (l *Ledger) RemoveStake(amount *uint256.Int) error {
	if amount.Gt(&l.totalStake) {
		return ErrInsufficientStake
	}
	l.totalStake.Sub(&l.totalStake, amount)
	return nil
}

type ledgerRLP struct {
	TotalStake     *uint256.Int
	TotalRewards   *uint256.Int
	RewardPerToken *uint256.Int
}

// EncodeRLP implements rlp.Encoder.
func (l *Ledger) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &ledgerRLP{
		TotalStake:     &l.totalStake,
		TotalRewards:   &l.totalRewards,
		RewardPerToken: &l.rewardPerToken,
	})
}

// DecodeRLP implements rlp.Decoder.
func (l *Ledger) DecodeRLP(s *rlp.Stream) error {
	var obj ledgerRLP
	if err := s.Decode(&obj); err != nil {
		return err
	}
	l.totalStake.Set(obj.TotalStake)
	l.totalRewards.Set(obj.TotalRewards)
	l.rewardPerToken.Set(obj.RewardPerToken)
	return nil
}
