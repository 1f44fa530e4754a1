// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auditdb

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/rewardpool/rewards/events"
)

const recorderBuffer = 256

// Recorder stores the events dispatched by a feed into the audit db.
type Recorder struct {
	db  *AuditDB
	ch  chan *events.Event
	sub event.Subscription
}

// NewRecorder subscribes to feed immediately, so no event emitted after it returns is missed.
func (db *AuditDB) NewRecorder(feed *events.Feed) *Recorder {
	ch := make(chan *events.Event, recorderBuffer)
	return &Recorder{
		db:  db,
		ch:  ch,
		sub: feed.Subscribe(ch),
	}
}

// Run inserts events until ctx is done or the feed is closed.
func (r *Recorder) Run(ctx context.Context) {
	defer r.sub.Unsubscribe()

	for {
		select {
		case ev := <-r.ch:
			if _, err := r.db.Insert(ctx, ev); err != nil {
				logger.Warn("failed to record event", "kind", ev.Kind, "err", err)
			}
		case <-r.sub.Err():
			return
		case <-ctx.Done():
			return
		}
	}
}
