// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// Format selects the output encoding of NewHandler.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
	FormatLogfmt   Format = "logfmt"
)

// NewHandler builds the handler for the given format. Terminal output is colored only when
// the file is an interactive terminal. Records below level are dropped, and level may be
// changed while the handler is in use.
func NewHandler(f *os.File, format Format, level *slog.LevelVar) (slog.Handler, error) {
	useColor := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return newHandler(f, format, level, useColor)
}

func newHandler(w io.Writer, format Format, level *slog.LevelVar, useColor bool) (slog.Handler, error) {
	var inner slog.Handler
	switch format {
	case FormatTerminal, "":
		inner = gethlog.NewTerminalHandler(w, useColor)
	case FormatJSON:
		inner = gethlog.JSONHandler(w)
	case FormatLogfmt:
		inner = gethlog.LogfmtHandler(w)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return &levelHandler{level: level, inner: inner}, nil
}

// levelHandler filters records by a mutable minimum level before handing them to inner,
// which is built at full verbosity.
type levelHandler struct {
	level *slog.LevelVar
	inner slog.Handler
}

func (h *levelHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}
