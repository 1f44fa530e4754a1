// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var goes Goes
	release := make(chan struct{})
	for range 3 {
		goes.Go(func() { <-release })
	}
	assert.Equal(t, 3, goes.Running())
	assert.False(t, goes.WaitTimeout(10*time.Millisecond))

	close(release)
	goes.Wait()
	assert.Equal(t, 0, goes.Running())

	select {
	case <-goes.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel not closed")
	}
	assert.True(t, goes.WaitTimeout(time.Second))
}
