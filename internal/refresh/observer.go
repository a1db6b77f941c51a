package refresh

import (
	"context"
	"log/slog"
)

// Observer receives diagnostic events from guards, channels and the gate.
type Observer interface {
	Debug(msg string, attrs ...slog.Attr)
	Warn(msg string, attrs ...slog.Attr)
}

// SlogObserver forwards events to a slog.Logger. A panicking handler is
// swallowed so logging can never take down a refresh task.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver wraps logger; nil uses slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) Debug(msg string, attrs ...slog.Attr) {
	o.log(slog.LevelDebug, msg, attrs)
}

func (o *SlogObserver) Warn(msg string, attrs ...slog.Attr) {
	o.log(slog.LevelWarn, msg, attrs)
}

func (o *SlogObserver) log(level slog.Level, msg string, attrs []slog.Attr) {
	defer func() { _ = recover() }()
	l := slog.Default()
	if o != nil && o.logger != nil {
		l = o.logger
	}
	l.LogAttrs(context.Background(), level, msg, attrs...)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Debug(string, ...slog.Attr) {}
func (NopObserver) Warn(string, ...slog.Attr)  {}

func observerOrDefault(o Observer) Observer {
	if o == nil {
		return NewSlogObserver(nil)
	}
	return o
}
