// Package logging holds the process-wide logger. Until SetLogger is called
// nothing is logged; the host library installs a handler that forwards
// records to the host's log callback.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger replaces the process-wide logger. Passing nil disables logging.
// Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current process-wide logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// CallbackHandler is a slog.Handler that renders each record as a single
// line and passes it to a callback.
type CallbackHandler struct {
	fn     func(string)
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewCallbackHandler returns a handler writing records at or above level
// to fn. A nil level means slog.LevelInfo.
func NewCallbackHandler(fn func(string), level slog.Leveler) *CallbackHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CallbackHandler{fn: fn, level: level}
}

func (h *CallbackHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *CallbackHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	h.fn(b.String())
	return nil
}

func (h *CallbackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &h2
}

func (h *CallbackHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, p, ga)
		}
		return
	}
	fmt.Fprintf(b, " %s%s=%v", prefix, a.Key, a.Value)
}

// Recover logs a panic in progress and swallows it. It must be called
// directly by defer.
func Recover(where string) {
	if r := recover(); r != nil {
		Logger().Error("panic", "where", where, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
	}
}
