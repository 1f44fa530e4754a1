// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/rewardpool/co"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
)

const defaultQueueSize = 1024

var (
	logger = log.WithContext("pkg", "events")

	metricDroppedEvents = metrics.LazyLoadCounter("events_dropped_count")
)

// Feed is a Sink fanning events out to subscribers.
//
// Emit only enqueues; a dispatch goroutine delivers queued events in order. When the queue is
// full the event is dropped and counted, so a slow subscriber never stalls the emitter.
type Feed struct {
	feed  event.Feed
	scope event.SubscriptionScope
	queue chan *Event
	goes  co.Goes

	done      chan struct{}
	closeOnce sync.Once
}

var _ Sink = (*Feed)(nil)

// NewFeed creates a feed and starts its dispatch loop. A queueSize <= 0 selects the default.
func NewFeed(queueSize int) *Feed {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	f := &Feed{
		queue: make(chan *Event, queueSize),
		done:  make(chan struct{}),
	}
	f.goes.Go(f.dispatchLoop)
	return f
}

func (f *Feed) dispatchLoop() {
	for {
		select {
		case ev := <-f.queue:
			f.feed.Send(ev)
		case <-f.done:
			return
		}
	}
}

// Emit implements Sink.
func (f *Feed) Emit(ev *Event) {
	select {
	case <-f.done:
		return
	default:
	}

	select {
	case f.queue <- ev:
	default:
		metricDroppedEvents().Add(1)
		logger.Warn("event queue full, dropped", "kind", ev.Kind, "who", ev.Who)
	}
}

// Subscribe registers ch to receive every dispatched event.
// The dispatch loop waits for each subscriber, so ch should be drained promptly.
func (f *Feed) Subscribe(ch chan<- *Event) event.Subscription {
	return f.scope.Track(f.feed.Subscribe(ch))
}

// Close stops dispatching and ends every subscription. Queued events are discarded.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		close(f.done)
		f.scope.Close()
		f.goes.Wait()
	})
}
