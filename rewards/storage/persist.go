// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/rewards/participant"
	"github.com/vechain/rewardpool/rewards/pool"
	"github.com/vechain/rewardpool/types"
)

const (
	poolStoreName    = "pool."
	accountStoreName = "acc."
)

var poolKey = []byte("ledger")

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func loadRLP(r kv.Getter, key []byte, val any) error {
	data, err := r.Get(key)
	if err != nil {
		return err
	}
	return rlpDecode(data, val)
}

func rlpDecode(data []byte, val any) error {
	return rlp.DecodeBytes(data, val)
}

func loadLedger(r kv.Getter) (*pool.Ledger, error) {
	var l pool.Ledger
	if err := loadRLP(r, poolKey, &l); err != nil {
		if r.IsNotFound(err) {
			return pool.New(), nil
		}
		return nil, err
	}
	return &l, nil
}

func saveLedger(w kv.Putter, l *pool.Ledger) error {
	return saveRLP(w, poolKey, l)
}

func loadAccount(r kv.Getter, who types.Address) (*participant.Account, error) {
	var acc participant.Account
	if err := loadRLP(r, who.Bytes(), &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// saveAccount writes the account, or deletes the record when the account is empty.
func saveAccount(w kv.Putter, who types.Address, acc *participant.Account) error {
	if acc.IsEmpty() {
		return w.Delete(who.Bytes())
	}
	return saveRLP(w, who.Bytes(), acc)
}
