// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testpool wires an in-memory reward pool for tests.
package testpool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/rewards"
	"github.com/vechain/rewardpool/rewards/currency"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/rewards/storage"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/types"
)

// InitialBalance is the genesis balance of every funded account.
const InitialBalance = 1_000_000

// Custody holds the pool funds of test pools.
var Custody = types.MustParseAddress("0x00000000000000000000000000000000000c0de0")

type TestPool struct {
	db       kv.StoreCloser
	engine   *rewards.Engine
	bank     *currency.Bank
	feed     *events.Feed
	accounts []types.Address
}

// New creates a pool with n funded accounts on an in-memory database.
func New(n int) (*TestPool, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	return NewWithStore(db, n)
}

// NewWithStore creates a pool with n funded accounts over db.
func NewWithStore(db kv.StoreCloser, n int) (*TestPool, error) {
	accounts := datagen.RandAddresses(n)

	genesis := &currency.Genesis{Custody: Custody}
	genesis.Alloc = append(genesis.Alloc, currency.Alloc{
		Address: Custody,
		Balance: currency.Amount{Int: *uint256.MustFromDecimal("1000000000000000000000000")},
	})
	for _, acc := range accounts {
		genesis.Alloc = append(genesis.Alloc, currency.Alloc{Address: acc, Balance: currency.Amount{Int: *uint256.NewInt(InitialBalance)}})
	}

	bank := currency.NewBank(db)
	if _, err := bank.Seed(genesis); err != nil {
		return nil, err
	}
	repo, err := storage.New(db, 0)
	if err != nil {
		return nil, err
	}
	feed := events.NewFeed(0)
	engine, err := rewards.New(repo, bank, feed, Custody)
	if err != nil {
		feed.Close()
		return nil, err
	}
	return &TestPool{
		db:       db,
		engine:   engine,
		bank:     bank,
		feed:     feed,
		accounts: accounts,
	}, nil
}

func (tp *TestPool) Engine() *rewards.Engine { return tp.engine }
func (tp *TestPool) Bank() *currency.Bank    { return tp.bank }
func (tp *TestPool) Feed() *events.Feed      { return tp.feed }
func (tp *TestPool) Accounts() []types.Address {
	return tp.accounts
}

// Close stops the feed and closes the database.
func (tp *TestPool) Close() error {
	tp.feed.Close()
	return tp.db.Close()
}
