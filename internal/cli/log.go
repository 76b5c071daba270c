// Package cli implements the connmat command-line interface.
//
// The commands are:
//   - build: Convert an assignments file into a connectivity matrix
//   - stats: Summarize a written matrix
//   - view: Browse a written matrix interactively
//   - render: Draw a written matrix as a DOT or SVG graph
//   - serve: Expose the build over HTTP
//   - cache: Manage the build cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context; pipeline and cache events are reported
// through observability hooks at debug level.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of a single operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Built 3x3 matrix (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks implements the observability hook interfaces on top of a logger.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnReadStart(_ context.Context, path string) {
	h.logger.Debug("reading", "path", path)
}

func (h *logHooks) OnReadComplete(_ context.Context, path string, pairs int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("read failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("read complete", "path", path, "pairs", pairs, "duration", d)
}

func (h *logHooks) OnBuildComplete(_ context.Context, size, pairs int, d time.Duration) {
	h.logger.Debug("build complete", "size", size, "pairs", pairs, "duration", d)
}

func (h *logHooks) OnWriteStart(_ context.Context, path, format string) {
	h.logger.Debug("writing", "path", path, "format", format)
}

func (h *logHooks) OnWriteComplete(_ context.Context, path, format string, n int64, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("write failed", "path", path, "err", err)
		return
	}
	h.logger.Debug("write complete", "path", path, "format", format, "bytes", n, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Info("request", "id", id, "method", method, "path", path, "status", status, "duration", d)
}
