// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/rewards/participant"
	"github.com/vechain/rewardpool/rewards/pool"
	"github.com/vechain/rewardpool/types"
)

// Pool returns a copy of the pool ledger.
func (e *Engine) Pool() (*pool.Ledger, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.repo.Pool()
	if err != nil {
		return nil, storageError(err)
	}
	return p, nil
}

// ParticipantCount returns the number of stored participant accounts.
func (e *Engine) ParticipantCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.participants
}

// Account returns a copy of who's account and whether it exists.
func (e *Engine) Account(who types.Address) (*participant.Account, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acc, found, err := e.repo.Account(who)
	if err != nil {
		return nil, false, storageError(err)
	}
	return acc, found, nil
}

// Stake returns who's stake, zero for unknown participants.
func (e *Engine) Stake(who types.Address) (*uint256.Int, error) {
	acc, found, err := e.Account(who)
	if err != nil {
		return nil, err
	}
	if !found {
		return new(uint256.Int), nil
	}
	return acc.Stake(), nil
}

// ComputeReward returns what who could claim right now.
func (e *Engine) ComputeReward(who types.Address) (*uint256.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, acc, found, err := e.load(who)
	if err != nil {
		return nil, err
	}
	if !found {
		return new(uint256.Int), nil
	}
	reward, err := acc.Pending(p)
	if err != nil {
		return nil, ledgerError(err)
	}
	return reward, nil
}

// Participant is a snapshot of one account together with its claimable reward.
type Participant struct {
	Address types.Address
	Account *participant.Account
	Pending *uint256.Int
}

// Participant returns who's account and claimable reward read under one lock,
// and whether the account exists.
func (e *Engine) Participant(who types.Address) (*Participant, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, acc, found, err := e.load(who)
	if err != nil || !found {
		return nil, false, err
	}
	pending, err := acc.Pending(p)
	if err != nil {
		return nil, false, ledgerError(err)
	}
	return &Participant{Address: who, Account: acc, Pending: pending}, true, nil
}

// Participants calls fn for every participant in address order until fn returns false.
// Actions are blocked while it runs, so fn must not call back into the engine.
func (e *Engine) Participants(fn func(*Participant) bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.repo.Pool()
	if err != nil {
		return storageError(err)
	}
	var pendingErr error
	err = e.repo.Participants(func(who types.Address, acc *participant.Account) bool {
		pending, err := acc.Pending(p)
		if err != nil {
			pendingErr = ledgerError(err)
			return false
		}
		return fn(&Participant{Address: who, Account: acc, Pending: pending})
	})
	if err != nil {
		return storageError(err)
	}
	return pendingErr
}
