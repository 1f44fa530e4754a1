// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(&rootLogger{NewLogger(slog.DiscardHandler)})
}

type rootLogger struct{ Logger }

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(&rootLogger{l})
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(*rootLogger).Logger
}

// WithContext returns a logger that resolves the root logger lazily, so package-level
// loggers declared with var pick up the handler installed later by SetDefault.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx  []any
	mu   sync.Mutex
	l    Logger
	base Logger
}

func (z *lazyLogger) get() Logger {
	z.mu.Lock()
	defer z.mu.Unlock()
	current := Root()
	if z.l == nil || z.base != current {
		z.base = current
		z.l = current.With(z.ctx...)
	}
	return z.l
}

func (z *lazyLogger) With(ctx ...any) Logger { return z.get().With(ctx...) }
func (z *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	z.get().Log(level, msg, ctx...)
}
func (z *lazyLogger) Trace(msg string, ctx ...any) { z.get().Trace(msg, ctx...) }
func (z *lazyLogger) Debug(msg string, ctx ...any) { z.get().Debug(msg, ctx...) }
func (z *lazyLogger) Info(msg string, ctx ...any)  { z.get().Info(msg, ctx...) }
func (z *lazyLogger) Warn(msg string, ctx ...any)  { z.get().Warn(msg, ctx...) }
func (z *lazyLogger) Error(msg string, ctx ...any) { z.get().Error(msg, ctx...) }
func (z *lazyLogger) Crit(msg string, ctx ...any)  { z.get().Crit(msg, ctx...) }
func (z *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return z.get().Enabled(ctx, level)
}

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...any) {
	Root().Log(LevelTrace, msg, ctx...)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...any) {
	Root().Log(slog.LevelDebug, msg, ctx...)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...any) {
	Root().Log(slog.LevelInfo, msg, ctx...)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...any) {
	Root().Log(slog.LevelWarn, msg, ctx...)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...any) {
	Root().Log(slog.LevelError, msg, ctx...)
}
