// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/rewardpool/api/balances"
	"github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/api/middleware"
	"github.com/vechain/rewardpool/api/pool"
	"github.com/vechain/rewardpool/api/subscriptions"
	"github.com/vechain/rewardpool/auditdb"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/rewards"
	"github.com/vechain/rewardpool/rewards/currency"

	rewardevents "github.com/vechain/rewardpool/rewards/events"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EventsLimit          uint64
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
}

// New return api router. The audit db is optional, /events is not served without it.
func New(
	engine *rewards.Engine,
	bank *currency.Bank,
	auditDB *auditdb.AuditDB,
	feed *rewardevents.Feed,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pool.New(engine).
		Mount(router, "/pool")
	balances.New(bank).
		Mount(router, "/balances")
	if auditDB != nil {
		events.New(auditDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(feed, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enableReqLogger := opts.EnableReqLogger
	if enableReqLogger == nil {
		enableReqLogger = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
