// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	apievents "github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/types"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	subscriberBuffer = 64
)

var logger = log.WithContext("pkg", "subscriptions")

type Subscriptions struct {
	feed     *events.Feed
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once

	mu     sync.Mutex
	closed bool
}

func New(feed *events.Feed, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		feed: feed,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

type eventFilter struct {
	who  *types.Address
	kind *events.Kind
}

func (f *eventFilter) match(ev *events.Event) bool {
	if f.who != nil && *f.who != ev.Who {
		return false
	}
	if f.kind != nil && *f.kind != ev.Kind {
		return false
	}
	return true
}

func parseEventFilter(req *http.Request) (*eventFilter, error) {
	var filter eventFilter
	query := req.URL.Query()
	if s := query.Get("who"); s != "" {
		who, err := utils.ParseAddress(s, "who")
		if err != nil {
			return nil, err
		}
		filter.who = &who
	}
	if s := query.Get("kind"); s != "" {
		kind, err := events.ParseKind(strings.ToLower(s))
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "kind"))
		}
		filter.kind = &kind
	}
	return &filter, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req)
	if err != nil {
		return err
	}

	if !s.track() {
		return utils.HTTPError(errors.New("service closed"), http.StatusServiceUnavailable)
	}
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	session := uuid.New()
	logger.Debug("subscription opened", "session", session, "remote", req.RemoteAddr)
	defer logger.Debug("subscription closed", "session", session)

	ch := make(chan *events.Event, subscriberBuffer)
	sub := s.feed.Subscribe(ch)
	defer sub.Unsubscribe()

	closed := make(chan struct{})
	go s.readLoop(conn, closed)

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case ev := <-ch:
			if !filter.match(ev) {
				continue
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return nil
			}
			if err := conn.WriteJSON(apievents.ConvertEvent(ev)); err != nil {
				logger.Debug("failed to write event", "session", session, "err", err)
				return nil
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-sub.Err():
			return nil
		case <-closed:
			return nil
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "service closed")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		}
	}
}

// readLoop consumes control frames and reports the peer going away.
func (s *Subscriptions) readLoop(conn *websocket.Conn, closed chan struct{}) {
	defer close(closed)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// track registers a handler unless the service is closed.
func (s *Subscriptions) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

// Close ends every open subscription and waits for the handlers to return.
// Subscriptions requested afterwards are refused.
func (s *Subscriptions) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.done)
		s.mu.Unlock()

		s.wg.Wait()
	})
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("subscriptions_events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
