// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/rewardpool/log"
)

// mockLogger records the context of info and warn records.
type mockLogger struct {
	infos [][]any
	warns [][]any
}

func (m *mockLogger) With(_ ...any) log.Logger                     { return m }
func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any)         {}
func (m *mockLogger) Trace(_ string, _ ...any)                     {}
func (m *mockLogger) Debug(_ string, _ ...any)                     {}
func (m *mockLogger) Error(_ string, _ ...any)                     {}
func (m *mockLogger) Crit(_ string, _ ...any)                      {}
func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (m *mockLogger) Info(_ string, ctx ...any)                    { m.infos = append(m.infos, ctx) }
func (m *mockLogger) Warn(_ string, ctx ...any)                    { m.warns = append(m.warns, ctx) }

func field(ctx []any, key string) any {
	for i := 0; i+1 < len(ctx); i += 2 {
		if ctx[i] == key {
			return ctx[i+1]
		}
	}
	return nil
}

func TestRequestLoggerMiddleware(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	}

	tests := []struct {
		name         string
		handler      http.HandlerFunc
		enabled      bool
		threshold    time.Duration
		log5xx       bool
		expectedCode int
		infos        int
		warns        int
	}{
		{"enabled", ok, true, 0, false, http.StatusOK, 1, 0},
		{"disabled", ok, false, 0, false, http.StatusOK, 0, 0},
		{"slow request", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(15 * time.Millisecond)
			ok(w, r)
		}, false, 5 * time.Millisecond, false, http.StatusOK, 0, 1},
		{"fast request under threshold", ok, false, time.Second, false, http.StatusOK, 0, 0},
		{"5xx logged", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, false, 0, true, http.StatusInternalServerError, 0, 1},
		{"4xx not logged as failure", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}, false, 0, true, http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(logger, &enabled, tt.threshold, tt.log5xx)(tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/pool/deposit", strings.NewReader(`{"amount":"10"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Len(t, logger.infos, tt.infos)
			assert.Len(t, logger.warns, tt.warns)

			for _, ctx := range append(logger.infos, logger.warns...) {
				assert.Equal(t, "/pool/deposit", field(ctx, "URI"))
				assert.Equal(t, http.MethodPost, field(ctx, "Method"))
				assert.Equal(t, tt.expectedCode, field(ctx, "Status"))
				assert.Equal(t, `{"amount":"10"}`, field(ctx, "Body"))
			}
		})
	}
}

func TestRequestLoggerMiddleware_BodyPreserved(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)

	var seen string
	handler := RequestLoggerMiddleware(&mockLogger{}, &enabled, 0, false)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload")))
	assert.Equal(t, "payload", seen)
}
