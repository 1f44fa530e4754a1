// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"fmt"
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/test/datagen"
)

const (
	opDeposit = iota
	opWithdraw
	opClaim
	opDistribute
	numOps
)

type modelOp struct {
	kind   int
	who    int
	amount uint64
}

const (
	modelParticipants = 4
	initialBalance    = 1_000_000
)

// model tracks the exact share of every participant with rationals.
type model struct {
	stakes   [modelParticipants]uint64
	paid     [modelParticipants]uint64
	earned   [modelParticipants]*big.Rat
	settles  [modelParticipants]int
	dists    int
	total    uint64
	rewarded uint64
}

func newModel() *model {
	m := &model{}
	for i := range m.earned {
		m.earned[i] = new(big.Rat)
	}
	return m
}

func (m *model) balance(i int) uint64 {
	return initialBalance - m.stakes[i] + m.paid[i]
}

// checkShare asserts the payout never exceeds the exact share and that the rounding
// loss stays within one unit per flooring step.
func (m *model) checkShare(t *testing.T, i int, pending uint64) {
	got := new(big.Rat).SetInt(new(big.Int).SetUint64(m.paid[i] + pending))
	assert.True(t, got.Cmp(m.earned[i]) <= 0, "participant %d got %v, exact share %v", i, got, m.earned[i])

	bound := new(big.Rat).SetInt64(int64(m.settles[i] + m.dists + 1))
	loss := new(big.Rat).Sub(m.earned[i], got)
	assert.True(t, loss.Cmp(bound) <= 0, "participant %d lost %v, bound %v", i, loss, bound)
}

func TestEngine_ReferenceModel(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			runModel(t, seed)
		})
	}
}

func runModel(t *testing.T, seed int64) {
	var ops []modelOp
	fuzz.NewWithSeed(seed).
		NilChance(0).
		NumElements(50, 300).
		Funcs(func(o *modelOp, c fuzz.Continue) {
			o.kind = c.Intn(numOps)
			o.who = c.Intn(modelParticipants)
			o.amount = uint64(c.Int63n(20_000))
		}).
		Fuzz(&ops)

	addrs := datagen.RandAddresses(modelParticipants)
	f := newMemFixture(t, addrs...)
	e := f.engine
	m := newModel()

	for step, op := range ops {
		who := addrs[op.who]
		i := op.who
		switch op.kind {
		case opDeposit:
			amount := op.amount
			err := e.Deposit(who, u(amount))
			if amount > m.balance(i) {
				require.ErrorIs(t, err, ErrTransfer, "step %d", step)
				continue
			}
			require.NoError(t, err, "step %d", step)
			m.stakes[i] += amount
			m.total += amount
			m.settles[i]++
		case opWithdraw:
			amount := op.amount % (m.stakes[i] + 2)
			err := e.Withdraw(who, u(amount))
			if amount > m.stakes[i] {
				require.ErrorIs(t, err, ErrInsufficientStake, "step %d", step)
				continue
			}
			require.NoError(t, err, "step %d", step)
			m.stakes[i] -= amount
			m.total -= amount
			m.settles[i]++
		case opClaim:
			paid, err := e.Claim(who)
			require.NoError(t, err, "step %d", step)
			m.paid[i] += paid.Uint64()
			m.settles[i]++
			m.checkShare(t, i, 0)
		case opDistribute:
			amount := op.amount * 10
			err := e.Distribute(u(amount))
			if m.total == 0 {
				require.ErrorIs(t, err, ErrNoStakers, "step %d", step)
				continue
			}
			require.NoError(t, err, "step %d", step)
			m.dists++
			m.rewarded += amount
			for j := range m.stakes {
				share := new(big.Rat).SetFrac(
					new(big.Int).SetUint64(amount*m.stakes[j]),
					new(big.Int).SetUint64(m.total),
				)
				m.earned[j].Add(m.earned[j], share)
			}
		}

		p, err := e.Pool()
		require.NoError(t, err)
		require.Equal(t, m.total, p.TotalStake().Uint64(), "step %d", step)
		require.Equal(t, m.rewarded, p.TotalRewards().Uint64(), "step %d", step)
	}

	var paidTotal uint64
	for i, who := range addrs {
		pending, err := e.ComputeReward(who)
		require.NoError(t, err)
		m.checkShare(t, i, pending.Uint64())

		paid, err := e.Claim(who)
		require.NoError(t, err)
		assert.Equal(t, pending, paid)
		m.paid[i] += paid.Uint64()
		paidTotal += m.paid[i]

		assert.Equal(t, m.stakes[i], f.stake(who))
		assert.Equal(t, m.balance(i), f.balance(who))
	}
	assert.LessOrEqual(t, paidTotal, m.rewarded)
}
