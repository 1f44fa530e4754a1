// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package storage persists the pool ledger and participant accounts.
package storage

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/rewards/participant"
	"github.com/vechain/rewardpool/rewards/pool"
	"github.com/vechain/rewardpool/types"
)

const defaultCacheSize = 4096

var (
	logger             = log.WithContext("pkg", "storage")
	metricCacheHitMiss = metrics.LazyLoadGaugeVec("rewards_account_cache_hit_miss", []string{"event"})
)

// AccountUpdate is an account record to be written by Commit.
type AccountUpdate struct {
	Who     types.Address
	Account *participant.Account
}

// Repository stores the pool singleton and the participant map in a kv store.
//
// Values handed out are copies. Callers mutate their copies and hand them back to Commit,
// which writes everything in one batch; caches are refreshed only after the batch is written.
type Repository struct {
	store    kv.Store
	poolKV   kv.Store
	accounts kv.Store

	mu       sync.Mutex
	ledger   *pool.Ledger
	accCache *cache.LRU[types.Address, *participant.Account]
	accStats cache.Stats
}

// New creates a repository over store. A cacheSize <= 0 selects the default.
func New(store kv.Store, cacheSize int) (*Repository, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	accCache, err := cache.NewLRU[types.Address, *participant.Account](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Repository{
		store:    store,
		poolKV:   kv.Bucket(poolStoreName).NewStore(store),
		accounts: kv.Bucket(accountStoreName).NewStore(store),
		accCache: accCache,
	}, nil
}

// Pool returns a copy of the pool ledger. A store that was never written yields the genesis ledger.
func (r *Repository) Pool() (*pool.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ledger == nil {
		l, err := loadLedger(r.poolKV)
		if err != nil {
			return nil, errors.Wrap(err, "load pool")
		}
		r.ledger = l
	}
	return r.ledger.Copy(), nil
}

// Account returns a copy of the participant's account. The bool result is false when the
// participant has no record, in which case the account is nil.
func (r *Repository) Account(who types.Address) (*participant.Account, bool, error) {
	if acc, ok := r.accCache.Get(who); ok {
		if r.accStats.Hit()%2000 == 0 {
			r.reportCacheStats()
		}
		return acc.Copy(), true, nil
	}
	r.accStats.Miss()

	acc, err := loadAccount(r.accounts, who)
	if err != nil {
		if r.accounts.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "load account %v", who)
	}
	r.accCache.Add(who, acc)
	return acc.Copy(), true, nil
}

func (r *Repository) reportCacheStats() {
	changed, hit, miss := r.accStats.Stats()
	if changed {
		logger.Debug("account cache stats", "hit", hit, "miss", miss, "rate", r.accStats.HitRate())
	}
	metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
	metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
}

// Commit atomically writes the ledger and the given accounts. Empty accounts are deleted.
// Nothing is written, and no cache is touched, when an error is returned.
func (r *Repository) Commit(ledger *pool.Ledger, updates ...AccountUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bulk := r.store.Bulk()
	poolPutter := kv.Bucket(poolStoreName).NewPutter(bulk)
	accPutter := kv.Bucket(accountStoreName).NewPutter(bulk)

	if err := saveLedger(poolPutter, ledger); err != nil {
		return errors.Wrap(err, "save pool")
	}
	for _, u := range updates {
		if err := saveAccount(accPutter, u.Who, u.Account); err != nil {
			return errors.Wrapf(err, "save account %v", u.Who)
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit")
	}

	r.ledger = ledger.Copy()
	for _, u := range updates {
		if u.Account.IsEmpty() {
			r.accCache.Remove(u.Who)
		} else {
			r.accCache.Add(u.Who, u.Account.Copy())
		}
	}
	logger.Trace("committed", "accounts", len(updates))
	return nil
}

// Participants calls fn for every stored account in address order until fn returns false.
// The accounts passed to fn are copies.
func (r *Repository) Participants(fn func(who types.Address, acc *participant.Account) bool) error {
	it := r.accounts.Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		var acc participant.Account
		if err := rlpDecode(it.Value(), &acc); err != nil {
			return errors.Wrap(err, "decode account")
		}
		if !fn(types.BytesToAddress(it.Key()), &acc) {
			break
		}
	}
	return it.Error()
}

// CountParticipants returns the number of stored accounts. It walks the whole bucket.
func (r *Repository) CountParticipants() (int, error) {
	n := 0
	err := r.Participants(func(types.Address, *participant.Account) bool {
		n++
		return true
	})
	return n, err
}
