// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auditdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/test"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/types"
)

func newDB(t *testing.T) *AuditDB {
	db, err := NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAuditDB_InsertFilter(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	evs := []*events.Event{
		{Kind: events.Deposited, Who: alice, Amount: uint256.NewInt(100), Timestamp: 1},
		{Kind: events.Deposited, Who: bob, Amount: uint256.NewInt(50), Timestamp: 2},
		{Kind: events.Distributed, Amount: uint256.NewInt(30), Timestamp: 3},
		{Kind: events.Claimed, Who: alice, Amount: uint256.NewInt(20), Timestamp: 4},
	}
	for i, ev := range evs {
		seq, err := db.Insert(ctx, ev)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), seq)
	}

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, events.Distributed, all[2].Kind)
	assert.True(t, all[2].Who.IsZero())
	assert.Equal(t, uint64(30), all[2].Amount.Uint64())

	byAlice, err := db.Filter(ctx, &Filter{Who: &alice})
	require.NoError(t, err)
	require.Len(t, byAlice, 2)
	assert.Equal(t, uint64(1), byAlice[0].Seq)
	assert.Equal(t, uint64(4), byAlice[1].Seq)

	kind := events.Deposited
	latest, err := db.Filter(ctx, &Filter{Kind: &kind, Order: DESC, Limit: 1})
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, bob, latest[0].Who)

	none, err := db.Filter(ctx, &Filter{Who: new(types.Address)})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAuditDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := New(path)
	require.NoError(t, err)
	_, err = db.Insert(context.Background(), &events.Event{Kind: events.Distributed, Amount: uint256.NewInt(1)})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())
	assert.NoError(t, db.Ping(context.Background()))

	records, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAuditDB_Record(t *testing.T) {
	db := newDB(t)
	feed := events.NewFeed(16)
	defer feed.Close()

	rec := db.NewRecorder(feed)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		rec.Run(ctx)
	}()

	who := datagen.RandAddress()
	feed.Emit(&events.Event{Kind: events.Deposited, Who: who, Amount: uint256.NewInt(7)})
	// the event reaches the recorder asynchronously
	err := test.Retry(func() error {
		records, err := db.Filter(context.Background(), &Filter{Who: &who})
		if err != nil {
			return err
		}
		if len(records) != 1 {
			return errors.New("not recorded yet")
		}
		return nil
	}, 10*time.Millisecond, 2*time.Second)
	require.NoError(t, err)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop")
	}
}
