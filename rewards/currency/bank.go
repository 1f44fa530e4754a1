// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package currency

import (
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/types"
)

const (
	balanceStoreName = "bal."
	bankMetaName     = "bank."

	balanceCacheSize = 4 * 1024 * 1024
)

var (
	_ Transferer = (*Bank)(nil)

	seededKey = []byte("seeded")
	logger    = log.WithContext("pkg", "currency")
)

// Bank is a Transferer keeping balances in a kv store.
// Committed balances are cached as 32 byte big-endian values.
type Bank struct {
	mu       sync.Mutex
	store    kv.Store
	balances kv.Store
	meta     kv.Store
	cache    *directcache.Cache
	stats    cache.Stats
}

// NewBank creates a bank over store.
func NewBank(store kv.Store) *Bank {
	return &Bank{
		store:    store,
		balances: kv.Bucket(balanceStoreName).NewStore(store),
		meta:     kv.Bucket(bankMetaName).NewStore(store),
		cache:    directcache.New(balanceCacheSize),
	}
}

func (b *Bank) balance(who types.Address) (*uint256.Int, error) {
	var bal *uint256.Int
	if b.cache.AdvGet(who.Bytes(), func(val []byte) {
		bal = new(uint256.Int).SetBytes(val)
	}, false) && bal != nil {
		if b.stats.Hit()%2000 == 0 {
			b.logStats()
		}
		return bal, nil
	}
	b.stats.Miss()

	data, err := b.balances.Get(who.Bytes())
	if err != nil {
		if !b.balances.IsNotFound(err) {
			return nil, errors.Wrapf(err, "load balance %v", who)
		}
		data = nil
	}
	bal = new(uint256.Int).SetBytes(data)
	b.cacheBalance(who, bal)
	return bal, nil
}

// cacheBalance must only be called with committed balances.
func (b *Bank) cacheBalance(who types.Address, bal *uint256.Int) {
	val := bal.Bytes32()
	_ = b.cache.Set(who.Bytes(), val[:])
}

func (b *Bank) logStats() {
	if changed, hit, miss := b.stats.Stats(); changed {
		logger.Debug("balance cache stats", "hit", hit, "miss", miss, "rate", b.stats.HitRate())
	}
}

func putBalance(w kv.Putter, who types.Address, bal *uint256.Int) error {
	if bal.IsZero() {
		return w.Delete(who.Bytes())
	}
	return w.Put(who.Bytes(), bal.Bytes())
}

// Balance returns the balance of who.
func (b *Bank) Balance(who types.Address) (*uint256.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.balance(who)
}

// prepare computes the post-transfer balances.
func (b *Bank) prepare(from, to types.Address, amount *uint256.Int) (fromBal, toBal *uint256.Int, err error) {
	if fromBal, err = b.balance(from); err != nil {
		return nil, nil, err
	}
	if fromBal.Lt(amount) {
		return nil, nil, ErrInsufficientBalance
	}
	fromBal.Sub(fromBal, amount)
	if from == to {
		return fromBal.Add(fromBal, amount), nil, nil
	}
	if toBal, err = b.balance(to); err != nil {
		return nil, nil, err
	}
	if _, overflow := toBal.AddOverflow(toBal, amount); overflow {
		return nil, nil, ErrBalanceOverflow
	}
	return fromBal, toBal, nil
}

// CanTransfer implements Transferer.
func (b *Bank) CanTransfer(from, to types.Address, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, _, err := b.prepare(from, to, amount)
	return err
}

// Transfer implements Transferer. Both balances are written in one batch.
func (b *Bank) Transfer(from, to types.Address, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	fromBal, toBal, err := b.prepare(from, to, amount)
	if err != nil {
		return err
	}
	if toBal == nil {
		// self transfer
		return nil
	}

	bulk := b.store.Bulk()
	putter := kv.Bucket(balanceStoreName).NewPutter(bulk)
	if err := putBalance(putter, from, fromBal); err != nil {
		return err
	}
	if err := putBalance(putter, to, toBal); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write balances")
	}
	b.cacheBalance(from, fromBal)
	b.cacheBalance(to, toBal)
	logger.Trace("transferred", "from", from, "to", to, "amount", amount)
	return nil
}

// Seed credits the genesis balances the first time it is called on a store.
// It reports whether the genesis was applied.
func (b *Bank) Seed(g *Genesis) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seeded, err := b.meta.Has(seededKey)
	if err != nil {
		return false, errors.Wrap(err, "check genesis")
	}
	if seeded {
		return false, nil
	}

	balances := make(map[types.Address]*uint256.Int)
	for _, alloc := range g.Alloc {
		bal, ok := balances[alloc.Address]
		if !ok {
			if bal, err = b.balance(alloc.Address); err != nil {
				return false, err
			}
			balances[alloc.Address] = bal
		}
		if _, overflow := bal.AddOverflow(bal, &alloc.Balance.Int); overflow {
			return false, errors.Wrapf(ErrBalanceOverflow, "genesis alloc %v", alloc.Address)
		}
	}

	bulk := b.store.Bulk()
	putter := kv.Bucket(balanceStoreName).NewPutter(bulk)
	for who, bal := range balances {
		if err := putBalance(putter, who, bal); err != nil {
			return false, err
		}
	}
	if err := kv.Bucket(bankMetaName).NewPutter(bulk).Put(seededKey, []byte{1}); err != nil {
		return false, err
	}
	if err := bulk.Write(); err != nil {
		return false, errors.Wrap(err, "write genesis")
	}
	for who, bal := range balances {
		b.cacheBalance(who, bal)
	}
	logger.Info("genesis balances applied", "accounts", len(g.Alloc))
	return true, nil
}
