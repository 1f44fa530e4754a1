// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
	"sync/atomic"
	"time"
)

// Goes to run and manage life-cycle of go routines.
type Goes struct {
	wg      sync.WaitGroup
	running atomic.Int32
}

// Go run f in go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	g.running.Add(1)
	go func() {
		defer func() {
			g.running.Add(-1)
			g.wg.Done()
		}()
		f()
	}()
}

// Running returns the number of go routines not yet returned.
func (g *Goes) Running() int {
	return int(g.running.Load())
}

// Wait wait for all go routines started by 'Go' done.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// WaitTimeout waits like Wait but gives up after d. It reports whether all go routines exited.
func (g *Goes) WaitTimeout(d time.Duration) bool {
	select {
	case <-g.Done():
		return true
	case <-time.After(d):
		return false
	}
}

// Done return the done channel for exiting of all go routines.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
