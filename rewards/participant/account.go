// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package participant

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/fixedpoint"
	"github.com/vechain/rewardpool/rewards/pool"
)

// Account is a participant's position in the pool.
//
// The tally is the pool accumulator observed at the last settlement. Every mutating method
// settles first, so the stake is constant between two settlements and the reward owed for
// that interval is (RewardPerToken - tally) * stake / Scale.
type Account struct {
	stake   uint256.Int
	tally   uint256.Int
	accrued uint256.Int
}

// New creates an empty account whose tally starts at the pool's current accumulator,
// so it earns nothing distributed before it joined.
func New(p *pool.Ledger) *Account {
	a := &Account{}
	a.tally.Set(p.RewardPerToken())
	return a
}

// Stake returns the deposited amount.
func (a *Account) Stake() *uint256.Int {
	return a.stake.Clone()
}

// RewardTally returns the accumulator value at the last settlement.
func (a *Account) RewardTally() *uint256.Int {
	return a.tally.Clone()
}

// Accrued returns the settled but unclaimed reward.
func (a *Account) Accrued() *uint256.Int {
	return a.accrued.Clone()
}

// IsEmpty reports whether the account holds neither stake nor unclaimed reward.
func (a *Account) IsEmpty() bool {
	return a.stake.IsZero() && a.accrued.IsZero()
}

// Copy returns an independent copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	return &cpy
}

func (a *Account) unsettled(p *pool.Ledger) (*uint256.Int, error) {
	delta, err := fixedpoint.Sub(p.RewardPerToken(), &a.tally)
	if err != nil {
		return nil, err
	}
	return fixedpoint.ScaleMulDiv(delta, &a.stake)
}

// Pending returns the reward the account could claim right now without mutating it.
func (a *Account) Pending(p *pool.Ledger) (*uint256.Int, error) {
	reward, err := a.unsettled(p)
	if err != nil {
		return nil, err
	}
	return fixedpoint.Add(&a.accrued, reward)
}

// Settle folds the reward earned since the last settlement into the accrued balance and
// advances the tally to the pool accumulator. It returns the newly accrued amount; a second
// call without an intervening distribution returns zero.
// On error the account is left untouched.
func (a *Account) Settle(p *pool.Ledger) (*uint256.Int, error) {
	reward, err := a.unsettled(p)
	if err != nil {
		return nil, err
	}
	accrued, err := fixedpoint.Add(&a.accrued, reward)
	if err != nil {
		return nil, err
	}
	a.accrued.Set(accrued)
	a.tally.Set(p.RewardPerToken())
	return reward, nil
}

// Deposit settles, then adds amount to both the account and the pool stake.
// The caller is expected to discard both records on error.
func (a *Account) Deposit(p *pool.Ledger, amount *uint256.Int) error {
	if _, err := a.Settle(p); err != nil {
		return err
	}
	stake, err := fixedpoint.Add(&a.stake, amount)
	if err != nil {
		return err
	}
	if err := p.AddStake(amount); err != nil {
		return err
	}
	a.stake.Set(stake)
	return nil
}

// Withdraw settles, then removes amount from both the account and the pool stake.
// It fails with pool.ErrInsufficientStake before mutating anything if amount exceeds the stake.
func (a *Account) Withdraw(p *pool.Ledger, amount *uint256.Int) error {
	if amount.Gt(&a.stake) {
		return pool.ErrInsufficientStake
	}
	if _, err := a.Settle(p); err != nil {
		return err
	}
	if err := p.RemoveStake(amount); err != nil {
		return err
	}
	a.stake.Sub(&a.stake, amount)
	return nil
}

// Claim settles, then empties the accrued balance and returns it.
func (a *Account) Claim(p *pool.Ledger) (*uint256.Int, error) {
	if _, err := a.Settle(p); err != nil {
		return nil, err
	}
	reward := a.accrued.Clone()
	a.accrued.Clear()
	return reward, nil
}

type accountRLP struct {
	Stake   *uint256.Int
	Tally   *uint256.Int
	Accrued *uint256.Int
}

// EncodeRLP implements rlp.Encoder.
func (a *Account) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &accountRLP{
		Stake:   &a.stake,
		Tally:   &a.tally,
		Accrued: &a.accrued,
	})
}

// DecodeRLP implements rlp.Decoder.
func (a *Account) DecodeRLP(s *rlp.Stream) error {
	var obj accountRLP
	if err := s.Decode(&obj); err != nil {
		return err
	}
	a.stake.Set(obj.Stake)
	a.tally.Set(obj.Tally)
	a.accrued.Set(obj.Accrued)
	return nil
}
