// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/rewardpool/test/datagen"
)

func TestEngine_Concurrent(t *testing.T) {
	addrs := datagen.RandAddresses(8)
	f := newMemFixture(t, addrs...)
	e := f.engine

	var g errgroup.Group
	for _, who := range addrs {
		g.Go(func() error { return e.Deposit(who, u(100)) })
	}
	require.NoError(t, g.Wait())

	p, err := e.Pool()
	require.NoError(t, err)
	require.Equal(t, uint64(800), p.TotalStake().Uint64())

	// 80 over 800 stake is exactly 10 per participant, so no rounding dust
	var paid atomic.Uint64
	for range 10 {
		g.Go(func() error { return e.Distribute(u(80)) })
	}
	for _, who := range addrs {
		g.Go(func() error {
			for range 5 {
				amount, err := e.Claim(who)
				if err != nil {
					return err
				}
				paid.Add(amount.Uint64())
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, who := range addrs {
		amount, err := e.Claim(who)
		require.NoError(t, err)
		paid.Add(amount.Uint64())
	}
	assert.Equal(t, uint64(800), paid.Load())

	p, err = e.Pool()
	require.NoError(t, err)
	assert.Equal(t, uint64(800), p.TotalRewards().Uint64())
	// deposits, distributions, claims in the race, final claims
	assert.Equal(t, 8+10+8*5+8, f.eventCount())
}
