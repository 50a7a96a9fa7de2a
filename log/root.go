// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger bound to the given context pairs that always writes
// through the current root logger. Package level loggers are created before the
// command line configures the root, so they must not capture it eagerly.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

// New returns a new logger with the given context bound to the current root.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}

func Trace(msg string, ctx ...any) {
	Root().Write(LevelTrace, msg, ctx...)
}

func Debug(msg string, ctx ...any) {
	Root().Write(slog.LevelDebug, msg, ctx...)
}

func Info(msg string, ctx ...any) {
	Root().Write(slog.LevelInfo, msg, ctx...)
}

func Warn(msg string, ctx ...any) {
	Root().Write(slog.LevelWarn, msg, ctx...)
}

func Error(msg string, ctx ...any) {
	Root().Write(slog.LevelError, msg, ctx...)
}

func Crit(msg string, ctx ...any) {
	Root().Write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

type contextLogger struct {
	ctx []any
}

func (c *contextLogger) merge(attrs []any) []any {
	merged := make([]any, 0, len(c.ctx)+len(attrs))
	merged = append(merged, c.ctx...)
	return append(merged, attrs...)
}

func (c *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: c.merge(ctx)}
}

func (c *contextLogger) New(ctx ...any) Logger {
	return c.With(ctx...)
}

func (c *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	Root().Write(level, msg, c.merge(ctx)...)
}

func (c *contextLogger) Write(level slog.Level, msg string, attrs ...any) {
	Root().Write(level, msg, c.merge(attrs)...)
}

func (c *contextLogger) Trace(msg string, ctx ...any) {
	Root().Write(LevelTrace, msg, c.merge(ctx)...)
}

func (c *contextLogger) Debug(msg string, ctx ...any) {
	Root().Write(slog.LevelDebug, msg, c.merge(ctx)...)
}

func (c *contextLogger) Info(msg string, ctx ...any) {
	Root().Write(slog.LevelInfo, msg, c.merge(ctx)...)
}

func (c *contextLogger) Warn(msg string, ctx ...any) {
	Root().Write(slog.LevelWarn, msg, c.merge(ctx)...)
}

func (c *contextLogger) Error(msg string, ctx ...any) {
	Root().Write(slog.LevelError, msg, c.merge(ctx)...)
}

func (c *contextLogger) Crit(msg string, ctx ...any) {
	Root().Write(LevelCrit, msg, c.merge(ctx)...)
	os.Exit(1)
}

func (c *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (c *contextLogger) Handler() slog.Handler {
	return Root().Handler().WithAttrs(argsToAttrs(c.ctx))
}

func argsToAttrs(args []any) []slog.Attr {
	var r slog.Record
	r.Add(args...)
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}
