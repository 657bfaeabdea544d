package core

import (
	"log/slog"
	"time"
)

// TelemetryHook receives notifications about dispatched backend calls.
//
// Events never carry credentials, prompts or answers; only operational
// metadata (provider, model, timing, output size).
type TelemetryHook interface {
	OnRequestStart(e RequestStartEvent)
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent describes a call about to be dispatched.
type RequestStartEvent struct {
	Provider  string
	Model     string
	Streaming bool
	Augmented bool
	Start     time.Time
}

// RequestEndEvent describes a finished call.
type RequestEndEvent struct {
	Provider    string
	Model       string
	Streaming   bool
	Start       time.Time
	End         time.Time
	OutputChars int
	Fragments   int
	Err         error
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook discards all events.
type NoopTelemetryHook struct{}

func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// LogTelemetryHook writes events to a slog.Logger.
type LogTelemetryHook struct {
	Logger *slog.Logger
}

func (h LogTelemetryHook) OnRequestStart(e RequestStartEvent) {
	h.Logger.Debug("backend call started",
		"provider", e.Provider,
		"model", e.Model,
		"streaming", e.Streaming,
		"augmented", e.Augmented,
	)
}

func (h LogTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	attrs := []any{
		"provider", e.Provider,
		"model", e.Model,
		"streaming", e.Streaming,
		"duration", e.Duration(),
		"response_length", e.OutputChars,
	}
	if e.Streaming {
		attrs = append(attrs, "fragments", e.Fragments)
	}
	if e.Err != nil {
		h.Logger.Error("backend call failed", append(attrs, "error", e.Err)...)
		return
	}
	h.Logger.Info("backend call completed", attrs...)
}

var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = LogTelemetryHook{}
)
