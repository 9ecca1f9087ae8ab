// Package telemetry is a fire-and-forget sink for named events with
// string/bool/number properties. Emission failures never affect request
// handling.
package telemetry

import (
	"context"
	"log/slog"
)

// Event names emitted by the API.
const (
	EventLoginAttempt = "login_attempt"
	EventTaskCreated  = "task_created"
	EventTaskDeleted  = "task_deleted"
)

// Props is the event property bag. Values should be strings, bools or
// numbers.
type Props map[string]any

// Sink accepts named events. Implementations must not block request
// handling on delivery and must swallow delivery errors.
type Sink interface {
	Emit(ctx context.Context, event string, props Props)
}

// LogSink writes events to structured logs. It is the default sink.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Emit(ctx context.Context, event string, props Props) {
	attrs := make([]any, 0, len(props)*2)
	for k, v := range props {
		attrs = append(attrs, k, v)
	}
	s.log.InfoContext(ctx, "event "+event, attrs...)
}

// NopSink discards all events, for tests.
type NopSink struct{}

func (NopSink) Emit(context.Context, string, Props) {}
