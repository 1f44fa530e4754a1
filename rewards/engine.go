// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards composes the pool ledger, participant accounts, currency transfers and
// persistence into the deposit, withdraw, claim and distribute actions.
package rewards

import (
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/rewards/currency"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/rewards/participant"
	"github.com/vechain/rewardpool/rewards/pool"
	"github.com/vechain/rewardpool/rewards/storage"
	"github.com/vechain/rewardpool/types"
)

var logger = log.WithContext("pkg", "rewards")

const (
	actionDeposit    = "deposit"
	actionWithdraw   = "withdraw"
	actionClaim      = "claim"
	actionDistribute = "distribute"
)

// Engine runs pool actions one at a time.
//
// Every action works on copies of the pool and account records loaded from the repository,
// performs the currency transfer, then commits both records in one batch. A failure at any
// step drops the copies, so the stored ledger is left as it was.
type Engine struct {
	mu         sync.Mutex
	repo       *storage.Repository
	transferer currency.Transferer
	sink       events.Sink
	custody    types.Address

	participants int
	now          func() time.Time
}

// New creates an engine. Deposits move funds from participants into custody, withdrawals and
// claims move them back out. A nil sink discards events.
func New(repo *storage.Repository, transferer currency.Transferer, sink events.Sink, custody types.Address) (*Engine, error) {
	if sink == nil {
		sink = events.Discard
	}
	n, err := repo.CountParticipants()
	if err != nil {
		return nil, storageError(err)
	}
	p, err := repo.Pool()
	if err != nil {
		return nil, storageError(err)
	}
	metricParticipants().Set(int64(n))
	metricTotalStake().Set(gaugeValue(p.TotalStake()))

	return &Engine{
		repo:         repo,
		transferer:   transferer,
		sink:         sink,
		custody:      custody,
		participants: n,
		now:          time.Now,
	}, nil
}

// Custody returns the account holding the pool's funds.
func (e *Engine) Custody() types.Address {
	return e.custody
}

// load returns copies of the pool and the account of who. A participant without a record
// gets a fresh account, and found is false.
func (e *Engine) load(who types.Address) (p *pool.Ledger, acc *participant.Account, found bool, err error) {
	if p, err = e.repo.Pool(); err != nil {
		return nil, nil, false, storageError(err)
	}
	if acc, found, err = e.repo.Account(who); err != nil {
		return nil, nil, false, storageError(err)
	}
	if !found {
		acc = participant.New(p)
	}
	return p, acc, found, nil
}

// commit writes the records. If the write fails after funds already moved, refund reverses
// the transfer before the storage error is returned.
func (e *Engine) commit(p *pool.Ledger, who types.Address, acc *participant.Account, found bool, refund func() error) error {
	if err := e.repo.Commit(p, storage.AccountUpdate{Who: who, Account: acc}); err != nil {
		if refund != nil {
			if rerr := refund(); rerr != nil {
				logger.Error("failed to reverse transfer after commit failure", "who", who, "err", rerr)
			}
		}
		return storageError(err)
	}

	switch {
	case !found && !acc.IsEmpty():
		e.participants++
	case found && acc.IsEmpty():
		e.participants--
	}
	metricParticipants().Set(int64(e.participants))
	metricTotalStake().Set(gaugeValue(p.TotalStake()))
	return nil
}

// run executes one action inside the critical section and reports its outcome.
// The event is emitted before the lock is released so events follow commit order.
func (e *Engine) run(action string, fn func() (*events.Event, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev, err := fn()
	if err != nil {
		metricActionCount().AddWithLabel(1, map[string]string{"action": action, "status": "failed"})
		if KindOf(err) == KindStorage {
			logger.Warn("action failed", "action", action, "err", err)
		} else {
			logger.Debug("action rejected", "action", action, "err", err)
		}
		return err
	}
	metricActionCount().AddWithLabel(1, map[string]string{"action": action, "status": "ok"})

	ev.Timestamp = uint64(e.now().Unix())
	logger.Debug("action applied", "action", action, "who", ev.Who, "amount", ev.Amount)
	e.sink.Emit(ev)
	return nil
}

// Deposit stakes amount for who, moving it from who's balance into custody.
func (e *Engine) Deposit(who types.Address, amount *uint256.Int) error {
	amount = amount.Clone()
	return e.run(actionDeposit, func() (*events.Event, error) {
		if who == e.custody {
			return nil, transferError(ErrCustodyParticipant)
		}
		if err := e.transferer.CanTransfer(who, e.custody, amount); err != nil {
			return nil, transferError(err)
		}
		p, acc, found, err := e.load(who)
		if err != nil {
			return nil, err
		}
		if err := acc.Deposit(p, amount); err != nil {
			return nil, ledgerError(err)
		}
		if err := e.transferer.Transfer(who, e.custody, amount); err != nil {
			return nil, transferError(err)
		}
		refund := func() error { return e.transferer.Transfer(e.custody, who, amount) }
		if err := e.commit(p, who, acc, found, refund); err != nil {
			return nil, err
		}
		return &events.Event{Kind: events.Deposited, Who: who, Amount: amount}, nil
	})
}

// Withdraw unstakes amount for who and returns it from custody.
func (e *Engine) Withdraw(who types.Address, amount *uint256.Int) error {
	amount = amount.Clone()
	return e.run(actionWithdraw, func() (*events.Event, error) {
		if who == e.custody {
			return nil, transferError(ErrCustodyParticipant)
		}
		p, acc, found, err := e.load(who)
		if err != nil {
			return nil, err
		}
		if err := acc.Withdraw(p, amount); err != nil {
			return nil, ledgerError(err)
		}
		if err := e.transferer.Transfer(e.custody, who, amount); err != nil {
			return nil, transferError(err)
		}
		refund := func() error { return e.transferer.Transfer(who, e.custody, amount) }
		if err := e.commit(p, who, acc, found, refund); err != nil {
			return nil, err
		}
		return &events.Event{Kind: events.Withdrawn, Who: who, Amount: amount}, nil
	})
}

// Claim pays out everything who has earned and returns the amount paid.
// Claiming with nothing earned succeeds, pays zero and moves no funds.
func (e *Engine) Claim(who types.Address) (*uint256.Int, error) {
	var paid *uint256.Int
	err := e.run(actionClaim, func() (*events.Event, error) {
		if who == e.custody {
			return nil, transferError(ErrCustodyParticipant)
		}
		p, acc, found, err := e.load(who)
		if err != nil {
			return nil, err
		}
		reward, err := acc.Claim(p)
		if err != nil {
			return nil, ledgerError(err)
		}
		var refund func() error
		if !reward.IsZero() {
			if err := e.transferer.Transfer(e.custody, who, reward); err != nil {
				return nil, transferError(err)
			}
			refund = func() error { return e.transferer.Transfer(who, e.custody, reward) }
		}
		if err := e.commit(p, who, acc, found, refund); err != nil {
			return nil, err
		}
		paid = reward
		return &events.Event{Kind: events.Claimed, Who: who, Amount: reward.Clone()}, nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// Distribute credits amount to the current stakers in proportion to their stake.
// The reward is expected to be held by custody already; no funds are moved.
func (e *Engine) Distribute(amount *uint256.Int) error {
	amount = amount.Clone()
	return e.run(actionDistribute, func() (*events.Event, error) {
		p, err := e.repo.Pool()
		if err != nil {
			return nil, storageError(err)
		}
		if err := p.Distribute(amount); err != nil {
			return nil, ledgerError(err)
		}
		if err := e.repo.Commit(p); err != nil {
			return nil, storageError(err)
		}
		return &events.Event{Kind: events.Distributed, Amount: amount}, nil
	})
}
