// Package testutil provides shared test utilities and mocks.
//
// All mocks in this package are designed for testing the dialogue engine
// components in isolation without requiring external dependencies.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/quickmark-labs/qrbot/eventbus"
)

// =============================================================================
// MOCK LOGGER
// =============================================================================

// MockLogger captures structured log entries for assertion.
type MockLogger struct {
	// Logs captures all log entries.
	Logs []LogEntry

	mu sync.Mutex
}

// LogEntry represents a captured log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// NewMockLogger creates a MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{
		Logs: make([]LogEntry, 0),
	}
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.log("debug", msg, keysAndValues...)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.log("info", msg, keysAndValues...)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.log("warn", msg, keysAndValues...)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.log("error", msg, keysAndValues...)
}

func (m *MockLogger) log(level, msg string, keysAndValues ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := make(map[string]any)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}

	m.Logs = append(m.Logs, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

// GetLogs returns captured logs (thread-safe).
func (m *MockLogger) GetLogs() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]LogEntry, len(m.Logs))
	copy(copied, m.Logs)
	return copied
}

// HasLog checks if a log message exists at the given level.
func (m *MockLogger) HasLog(level, message string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, log := range m.Logs {
		if log.Level == level && log.Message == message {
			return true
		}
	}
	return false
}

// Clear removes all captured logs.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = nil
}

// =============================================================================
// STATIC LOCALES
// =============================================================================

// StaticLocales is a fixed locale inventory implementing the controller's
// LocaleSource without loading catalog files.
type StaticLocales struct {
	// Codes lists the available locale codes.
	Codes []string

	// Default is the fallback locale code.
	Default string

	// DisplayNames maps codes to self-reported language names.
	DisplayNames map[string]string
}

// NewStaticLocales creates a StaticLocales with the given codes; the first
// code is the default.
func NewStaticLocales(codes ...string) *StaticLocales {
	if len(codes) == 0 {
		codes = []string{"en"}
	}
	names := make(map[string]string, len(codes))
	for _, code := range codes {
		names[code] = code
	}
	return &StaticLocales{Codes: codes, Default: codes[0], DisplayNames: names}
}

func (s *StaticLocales) Has(locale string) bool {
	for _, code := range s.Codes {
		if code == locale {
			return true
		}
	}
	return false
}

func (s *StaticLocales) Locales() []string {
	out := make([]string, len(s.Codes))
	copy(out, s.Codes)
	sort.Strings(out)
	return out
}

func (s *StaticLocales) Name(code string) string {
	if name, ok := s.DisplayNames[code]; ok {
		return name
	}
	return code
}

func (s *StaticLocales) DefaultLocale() string {
	return s.Default
}

// =============================================================================
// EVENT RECORDER
// =============================================================================

// EventRecorder captures bus events for assertion.
type EventRecorder struct {
	// Events captures all observed events in publish order per type.
	Events []eventbus.Event

	mu sync.Mutex
}

// NewEventRecorder creates an EventRecorder.
func NewEventRecorder() *EventRecorder {
	return &EventRecorder{
		Events: make([]eventbus.Event, 0),
	}
}

// Attach subscribes the recorder to every event type on the bus.
func (r *EventRecorder) Attach(bus *eventbus.Bus) {
	for _, eventType := range []string{
		eventbus.TypeOperationStarted,
		eventbus.TypeFieldAccepted,
		eventbus.TypeValidationRejected,
		eventbus.TypeChoiceResolved,
		eventbus.TypePayloadGenerated,
		eventbus.TypeOperationCancelled,
		eventbus.TypeEncodingFailed,
	} {
		bus.Subscribe(eventType, r.record)
	}
}

func (r *EventRecorder) record(ctx context.Context, event eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

// GetEvents returns a copy of captured events (thread-safe).
func (r *EventRecorder) GetEvents() []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := make([]eventbus.Event, len(r.Events))
	copy(copied, r.Events)
	return copied
}

// OfType returns captured events of a single type, in order.
func (r *EventRecorder) OfType(eventType string) []eventbus.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []eventbus.Event
	for _, e := range r.Events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// CountByType counts captured events of a single type.
func (r *EventRecorder) CountByType(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.Events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// Clear removes all captured events.
func (r *EventRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = nil
}
