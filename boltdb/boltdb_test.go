// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boltdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/kv"
)

func newDB(t *testing.T) *BoltDB {
	db, err := New(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBoltDB_GetPut(t *testing.T) {
	db := newDB(t)

	_, err := db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBoltDB_Bulk(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.Put([]byte("gone"), []byte("x")))

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("1")))
	require.NoError(t, bulk.Delete([]byte("gone")))
	assert.Equal(t, 2, bulk.Len())

	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, bulk.Write())
	has, err = db.Has([]byte("a"))
	require.NoError(t, err)
	assert.True(t, has)
	_, err = db.Get([]byte("gone"))
	assert.True(t, db.IsNotFound(err))
}

func TestBoltDB_Snapshot(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.Put([]byte("k"), []byte("old")))

	snap := db.Snapshot()
	got, err := snap.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)
	snap.Release()

	require.NoError(t, db.Put([]byte("k"), []byte("new")))
	got, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestBoltDB_Iterate(t *testing.T) {
	db := newDB(t)
	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(t, db.Put([]byte(k), []byte("v"+k)))
	}

	collect := func(r kv.Range) []string {
		iter := db.Iterate(r)
		defer iter.Release()
		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
		}
		require.NoError(t, iter.Error())
		return keys
	}

	assert.Equal(t, []string{"b1", "b2", "b3"}, collect(kv.PrefixRange([]byte("b"))))
	assert.Equal(t, []string{"a1", "b1", "b2", "b3", "c1"}, collect(kv.Range{}))
	assert.Equal(t, []string{"b2", "b3", "c1"}, collect(kv.Range{Start: []byte("b2")}))

	store := kv.Bucket("b").NewStore(db)
	iter := store.Iterate(kv.Range{})
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	assert.Equal(t, []string{"1", "2", "3"}, keys)
}
