// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package boltdb implements kv.Store on a single-file bbolt database.
package boltdb

import (
	"bytes"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/vechain/rewardpool/kv"
)

const fileMode = 0600

var (
	_ kv.StoreCloser = (*BoltDB)(nil)

	bucketName = []byte("kv")

	errNotFound = errors.New("not found")
)

// BoltDB wraps a bbolt database holding all keys in one bucket.
type BoltDB struct {
	db *bolt.DB
}

// New opens the database file at path, creating it if it does not exist.
func New(path string) (*BoltDB, error) {
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open bolt db")
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, pkgerrors.Wrap(err, "create bolt bucket")
	}
	return &BoltDB{db: db}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (b *BoltDB) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

func get(bucket *bolt.Bucket, key []byte) ([]byte, error) {
	v := bucket.Get(key)
	if v == nil {
		return nil, errNotFound
	}
	// values are only valid for the life of the transaction
	return bytes.Clone(v), nil
}

// Get retrieve value for given key.
func (b *BoltDB) Get(key []byte) (value []byte, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		value, err = get(tx.Bucket(bucketName), key)
		return err
	})
	return
}

// Has returns whether a key exists.
func (b *BoltDB) Has(key []byte) (has bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		has = tx.Bucket(bucketName).Get(key) != nil
		return nil
	})
	return
}

// Put save value fo give key.
func (b *BoltDB) Put(key, val []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, val)
	})
}

// Delete deletes the give key and its value.
func (b *BoltDB) Delete(key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete(key)
	})
}

// Snapshot holds a read transaction open until released.
func (b *BoltDB) Snapshot() kv.Snapshot {
	tx, err := b.db.Begin(false)
	if err != nil {
		return &struct {
			kv.GetFunc
			kv.HasFunc
			kv.IsNotFoundFunc
			kv.ReleaseFunc
		}{
			func([]byte) ([]byte, error) { return nil, err },
			func([]byte) (bool, error) { return false, err },
			b.IsNotFound,
			func() {},
		}
	}
	bucket := tx.Bucket(bucketName)
	return &struct {
		kv.GetFunc
		kv.HasFunc
		kv.IsNotFoundFunc
		kv.ReleaseFunc
	}{
		func(key []byte) ([]byte, error) { return get(bucket, key) },
		func(key []byte) (bool, error) { return bucket.Get(key) != nil, nil },
		b.IsNotFound,
		func() { _ = tx.Rollback() },
	}
}

type op struct {
	key, val []byte
	del      bool
}

// Bulk returns a batch writer applied in one bolt transaction.
func (b *BoltDB) Bulk() kv.Bulk {
	var ops []op
	return &struct {
		kv.PutFunc
		kv.DeleteFunc
		kv.LenFunc
		kv.WriteFunc
	}{
		func(key, val []byte) error {
			ops = append(ops, op{key: bytes.Clone(key), val: bytes.Clone(val)})
			return nil
		},
		func(key []byte) error {
			ops = append(ops, op{key: bytes.Clone(key), del: true})
			return nil
		},
		func() int { return len(ops) },
		func() error {
			if len(ops) == 0 {
				return nil
			}
			err := b.db.Update(func(tx *bolt.Tx) error {
				bucket := tx.Bucket(bucketName)
				for _, o := range ops {
					var err error
					if o.del {
						err = bucket.Delete(o.key)
					} else {
						err = bucket.Put(o.key, o.val)
					}
					if err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			ops = ops[:0]
			return nil
		},
	}
}

// Iterate create a iterator by range. The iterator holds a read transaction until released.
func (b *BoltDB) Iterate(r kv.Range) kv.Iterator {
	tx, err := b.db.Begin(false)
	if err != nil {
		return &iterator{err: err}
	}
	return &iterator{
		tx:     tx,
		cursor: tx.Bucket(bucketName).Cursor(),
		rng:    r,
	}
}

// Close close the bolt db.
func (b *BoltDB) Close() error {
	return b.db.Close()
}

type iterator struct {
	tx      *bolt.Tx
	cursor  *bolt.Cursor
	rng     kv.Range
	started bool
	key     []byte
	value   []byte
	err     error
}

func (it *iterator) Next() bool {
	if it.cursor == nil {
		return false
	}
	var k, v []byte
	if !it.started {
		it.started = true
		if len(it.rng.Start) > 0 {
			k, v = it.cursor.Seek(it.rng.Start)
		} else {
			k, v = it.cursor.First()
		}
	} else {
		k, v = it.cursor.Next()
	}
	if k == nil || (len(it.rng.Limit) > 0 && bytes.Compare(k, it.rng.Limit) >= 0) {
		it.key, it.value = nil, nil
		it.cursor = nil
		return false
	}
	it.key, it.value = bytes.Clone(k), bytes.Clone(v)
	return true
}

func (it *iterator) Key() []byte   { return it.key }
func (it *iterator) Value() []byte { return it.value }
func (it *iterator) Error() error  { return it.err }

func (it *iterator) Release() {
	it.cursor = nil
	if it.tx != nil {
		_ = it.tx.Rollback()
		it.tx = nil
	}
}
