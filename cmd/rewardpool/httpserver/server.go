// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver starts the HTTP listeners of the daemon: the pool API, the metrics
// endpoint and the admin endpoint. Each Start function returns the base url and a stop
// function that closes the server and waits for it to exit.
package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/admin"
	"github.com/vechain/rewardpool/co"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
)

var logger = log.WithContext("pkg", "httpserver")

// StartAPIServer serves handler on addr, bounding each request by timeout when it is non-zero.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	handler = requestBodyLimit(handler)
	if timeout > 0 {
		handler = handleAPITimeout(handler, timeout)
	}
	return serve("API", addr, handler, "/")
}

// StartMetricsServer serves the prometheus registry on addr.
func StartMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return serve("metrics", addr, handlers.CompressHandler(router), "/metrics")
}

// StartAdminServer serves the log level, API logs and health endpoints on addr.
func StartAdminServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, health *health.Health) (string, func(), error) {
	return serve("admin", addr, admin.New(logLevel, apiLogs, health), "/admin")
}

func serve(name, addr string, handler http.Handler, path string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("server stopped", "name", name, "err", err)
		}
	})
	return "http://" + listener.Addr().String() + path, func() {
		srv.Close()
		goes.Wait()
	}, nil
}
