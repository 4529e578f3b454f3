package eventbus

import (
	"context"
)

// LoggingMiddleware logs every published event.
type LoggingMiddleware struct {
	logger Logger
}

// NewLoggingMiddleware creates a LoggingMiddleware.
func NewLoggingMiddleware(logger Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Before logs event receipt.
func (m *LoggingMiddleware) Before(ctx context.Context, event Event) (Event, error) {
	m.logger.Debug("event_published", "event_type", event.EventType())
	return event, nil
}

// After logs delivery outcome.
func (m *LoggingMiddleware) After(ctx context.Context, event Event, err error) error {
	if err != nil {
		m.logger.Warn("event_delivery_failed", "event_type", event.EventType(), "error", err)
	}
	return nil
}
