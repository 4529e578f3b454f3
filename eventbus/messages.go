// Package eventbus provides the in-process event bus for dialogue
// lifecycle events.
//
// Events are fire-and-forget and fan out to every subscriber. Subscribers
// are wired at startup (logging, metrics); the dialogue controller only
// publishes and never depends on who listens.
package eventbus

// Event is the protocol for all bus events.
type Event interface {
	// EventType returns the stable event name used for subscription.
	EventType() string
}

// Event type names.
const (
	TypeOperationStarted   = "OperationStarted"
	TypeFieldAccepted      = "FieldAccepted"
	TypeValidationRejected = "ValidationRejected"
	TypeChoiceResolved     = "ChoiceResolved"
	TypePayloadGenerated   = "PayloadGenerated"
	TypeOperationCancelled = "OperationCancelled"
	TypeEncodingFailed     = "EncodingFailed"
)

// OperationStarted is emitted when a user selects a data type and a fresh
// session is created.
type OperationStarted struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
}

func (*OperationStarted) EventType() string { return TypeOperationStarted }

// FieldAccepted is emitted when a step value passes validation (or an
// optional step is skipped) and is stored.
type FieldAccepted struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
	Step      int    `json:"step"`
	Field     string `json:"field"`
	Skipped   bool   `json:"skipped,omitempty"`
}

func (*FieldAccepted) EventType() string { return TypeFieldAccepted }

// ValidationRejected is emitted when input fails a step validator. The
// session stays at the same step.
type ValidationRejected struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
	Step      int    `json:"step"`
	Validator string `json:"validator"`
}

func (*ValidationRejected) EventType() string { return TypeValidationRejected }

// ChoiceResolved is emitted when an enumerated-choice reply is mapped to
// its canonical value. Fallback marks a reply that matched no entry.
type ChoiceResolved struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
	Step      int    `json:"step"`
	Canonical string `json:"canonical"`
	Fallback  bool   `json:"fallback,omitempty"`
}

func (*ChoiceResolved) EventType() string { return TypeChoiceResolved }

// PayloadGenerated is emitted when an operation completes with a payload.
type PayloadGenerated struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
	Bytes     int    `json:"bytes"`
}

func (*PayloadGenerated) EventType() string { return TypePayloadGenerated }

// OperationCancelled is emitted when the user cancels an operation.
type OperationCancelled struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
	Step      int    `json:"step"`
}

func (*OperationCancelled) EventType() string { return TypeOperationCancelled }

// EncodingFailed is emitted when an encoder fails or produces an empty
// payload. The operation is aborted, not retried.
type EncodingFailed struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	DataType  string `json:"data_type"`
	Reason    string `json:"reason"`
}

func (*EncodingFailed) EventType() string { return TypeEncodingFailed }
