// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/api/admin/apilogs"
	"github.com/vechain/rewardpool/health"
)

func TestStartMetricsServer(t *testing.T) {
	url, stop, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer stop()

	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	res.Body.Close()
	// metrics are disabled by default, the noop handler answers 404
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestStartAPIServer(t *testing.T) {
	var deadline atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		deadline.Store(ok)
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	url, stop, err := StartAPIServer("localhost:0", handler, time.Second)
	require.NoError(t, err)
	defer stop()

	res, err := http.Post(url, "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, deadline.Load())

	res, err = http.Post(url, "application/json", bytes.NewReader(make([]byte, maxRequestBody+1)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

func TestHandleAPITimeoutSkipsWebsocket(t *testing.T) {
	var deadline bool
	h := handleAPITimeout(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}), time.Second)

	req := httptest.NewRequest(http.MethodGet, "/subscriptions/events", nil)
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Upgrade", "websocket")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, deadline)
}

func TestStartAdminServer(t *testing.T) {
	var level slog.LevelVar
	var apiLogs atomic.Bool

	url, stop, err := StartAdminServer("localhost:0", &level, &apiLogs, health.New())
	require.NoError(t, err)
	defer stop()

	res, err := http.Get(url + "/apilogs") //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var status apilogs.LogStatus
	require.NoError(t, json.NewDecoder(res.Body).Decode(&status))
	assert.False(t, status.Enabled)
}

func TestStartServer_AddrInUse(t *testing.T) {
	url, stop, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer stop()

	addr := url[len("http://") : len(url)-len("/metrics")]
	_, _, err = StartMetricsServer(addr)
	assert.ErrorContains(t, err, "listen metrics addr")
}
