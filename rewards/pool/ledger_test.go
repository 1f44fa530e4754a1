// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/fixedpoint"
)

func TestLedger_Genesis(t *testing.T) {
	l := New()
	assert.True(t, l.TotalStake().IsZero())
	assert.True(t, l.TotalRewards().IsZero())
	assert.True(t, l.RewardPerToken().IsZero())
}

func TestLedger_DistributeWithoutStakers(t *testing.T) {
	l := New()
	assert.ErrorIs(t, l.Distribute(uint256.NewInt(100)), ErrNoStakers)
	assert.True(t, l.TotalRewards().IsZero())
	assert.True(t, l.RewardPerToken().IsZero())
}

func TestLedger_Distribute(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(uint256.NewInt(100)))
	require.NoError(t, l.Distribute(uint256.NewInt(100)))
	assert.Equal(t, fixedpoint.Scale().Dec(), l.RewardPerToken().Dec())
	assert.Equal(t, uint64(100), l.TotalRewards().Uint64())

	require.NoError(t, l.AddStake(uint256.NewInt(100)))
	require.NoError(t, l.Distribute(uint256.NewInt(100)))
	assert.Equal(t, "1500000000000000000", l.RewardPerToken().Dec())
	assert.Equal(t, uint64(200), l.TotalRewards().Uint64())
	assert.Equal(t, uint64(200), l.TotalStake().Uint64())
}

func TestLedger_DistributeFloors(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(uint256.NewInt(3)))
	require.NoError(t, l.Distribute(uint256.NewInt(1)))
	assert.Equal(t, "333333333333333333", l.RewardPerToken().Dec())
}

func TestLedger_DistributeOverflowLeavesLedgerUnchanged(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(uint256.NewInt(1)))
	require.NoError(t, l.Distribute(uint256.NewInt(1)))

	err := l.Distribute(new(uint256.Int).SetAllOne())
	assert.ErrorIs(t, err, fixedpoint.ErrArithmetic)
	assert.Equal(t, fixedpoint.Scale().Dec(), l.RewardPerToken().Dec())
	assert.Equal(t, uint64(1), l.TotalRewards().Uint64())
}

func TestLedger_RemoveStake(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(uint256.NewInt(10)))
	require.NoError(t, l.RemoveStake(uint256.NewInt(4)))
	assert.Equal(t, uint64(6), l.TotalStake().Uint64())

	assert.ErrorIs(t, l.RemoveStake(uint256.NewInt(7)), ErrInsufficientStake)
	assert.Equal(t, uint64(6), l.TotalStake().Uint64())
}

func TestLedger_AddStakeOverflow(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(new(uint256.Int).SetAllOne()))
	assert.ErrorIs(t, l.AddStake(uint256.NewInt(1)), fixedpoint.ErrOverflow)
}

func TestLedger_Copy(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(uint256.NewInt(10)))

	cpy := l.Copy()
	require.NoError(t, cpy.AddStake(uint256.NewInt(5)))
	require.NoError(t, cpy.Distribute(uint256.NewInt(15)))

	assert.Equal(t, uint64(10), l.TotalStake().Uint64())
	assert.True(t, l.RewardPerToken().IsZero())
	assert.Equal(t, uint64(15), cpy.TotalStake().Uint64())
}

func TestLedger_RLP(t *testing.T) {
	l := New()
	require.NoError(t, l.AddStake(uint256.NewInt(42)))
	require.NoError(t, l.Distribute(uint256.NewInt(7)))

	data, err := rlp.EncodeToBytes(l)
	require.NoError(t, err)

	var decoded Ledger
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, *l, decoded)
}
