// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package currency

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/types"
)

func newBank(t *testing.T) *Bank {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBank(db)
}

func balanceOf(t *testing.T, b *Bank, who types.Address) uint64 {
	bal, err := b.Balance(who)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestBank_Seed(t *testing.T) {
	b := newBank(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	g := &Genesis{Alloc: []Alloc{
		{Address: alice, Balance: Amount{*uint256.NewInt(100)}},
		{Address: bob, Balance: Amount{*uint256.NewInt(7)}},
		{Address: alice, Balance: Amount{*uint256.NewInt(1)}},
	}}
	applied, err := b.Seed(g)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, uint64(101), balanceOf(t, b, alice))
	assert.Equal(t, uint64(7), balanceOf(t, b, bob))

	// only the first seed counts
	applied, err = b.Seed(g)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, uint64(101), balanceOf(t, b, alice))
}

func TestBank_Transfer(t *testing.T) {
	b := newBank(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	_, err := b.Seed(&Genesis{Alloc: []Alloc{{Address: alice, Balance: Amount{*uint256.NewInt(50)}}}})
	require.NoError(t, err)

	require.NoError(t, b.CanTransfer(alice, bob, uint256.NewInt(50)))
	assert.ErrorIs(t, b.CanTransfer(alice, bob, uint256.NewInt(51)), ErrInsufficientBalance)

	require.NoError(t, b.Transfer(alice, bob, uint256.NewInt(20)))
	assert.Equal(t, uint64(30), balanceOf(t, b, alice))
	assert.Equal(t, uint64(20), balanceOf(t, b, bob))

	assert.ErrorIs(t, b.Transfer(bob, alice, uint256.NewInt(21)), ErrInsufficientBalance)
	assert.Equal(t, uint64(30), balanceOf(t, b, alice))
	assert.Equal(t, uint64(20), balanceOf(t, b, bob))

	// self transfer is a no-op
	require.NoError(t, b.Transfer(bob, bob, uint256.NewInt(20)))
	assert.Equal(t, uint64(20), balanceOf(t, b, bob))

	// zero amount is always allowed
	require.NoError(t, b.Transfer(datagen.RandAddress(), bob, new(uint256.Int)))
}

func TestBank_TransferOverflow(t *testing.T) {
	b := newBank(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	var max uint256.Int
	max.SetAllOne()
	_, err := b.Seed(&Genesis{Alloc: []Alloc{
		{Address: alice, Balance: Amount{*uint256.NewInt(1)}},
		{Address: bob, Balance: Amount{max}},
	}})
	require.NoError(t, err)

	assert.ErrorIs(t, b.Transfer(alice, bob, uint256.NewInt(1)), ErrBalanceOverflow)
	assert.Equal(t, uint64(1), balanceOf(t, b, alice))
}

func TestParseGenesis(t *testing.T) {
	g, err := ParseGenesis([]byte(`
custody: "0x00000000000000000000000000000000000000aa"
alloc:
  - address: "0x00000000000000000000000000000000000000bb"
    balance: 1000000000000000000000
  - address: "0x00000000000000000000000000000000000000cc"
    balance: "0xff"
`))
	require.NoError(t, err)
	assert.Equal(t, types.MustParseAddress("0x00000000000000000000000000000000000000aa"), g.Custody)
	require.Len(t, g.Alloc, 2)
	assert.Equal(t, "1000000000000000000000", g.Alloc[0].Balance.Dec())
	assert.Equal(t, uint64(255), g.Alloc[1].Balance.Uint64())

	g, err = ParseGenesis([]byte("alloc: []"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCustody, g.Custody)

	_, err = ParseGenesis([]byte(`
alloc:
  - address: "0x00000000000000000000000000000000000000bb"
    balance: lots
`))
	assert.Error(t, err)
}

func TestBank_CacheFollowsCommits(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := NewBank(db)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	_, err = b.Seed(&Genesis{Alloc: []Alloc{{Address: alice, Balance: Amount{*uint256.NewInt(50)}}}})
	require.NoError(t, err)
	require.NoError(t, b.Transfer(alice, bob, uint256.NewInt(50)))

	_, hitBefore, _ := b.stats.Stats()
	assert.Equal(t, uint64(0), balanceOf(t, b, alice))
	assert.Equal(t, uint64(50), balanceOf(t, b, bob))
	_, hitAfter, _ := b.stats.Stats()
	assert.Equal(t, hitBefore+2, hitAfter)

	// a fresh bank over the same store reads the persisted balances
	reopened := NewBank(db)
	assert.Equal(t, uint64(0), balanceOf(t, reopened, alice))
	assert.Equal(t, uint64(50), balanceOf(t, reopened, bob))
	_, hit, miss := reopened.stats.Stats()
	assert.Equal(t, int64(0), hit)
	assert.Equal(t, int64(2), miss)
}
