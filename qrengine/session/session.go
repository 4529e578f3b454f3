// Package session provides per-user conversation state and the concurrent
// session store.
//
// A Session is one in-progress data-collection operation: the data type
// being built, the current step, and the validated fields collected so far.
// Sessions are ephemeral - created when a data type is selected, destroyed
// on completion or cancel. The store guards each user's state with per-key
// mutual exclusion so concurrent events for different users never block
// each other.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickmark-labs/qrbot/qrengine/schema"
)

// State is the dialogue state of one user.
type State string

const (
	// StateIdle means no operation is in progress; the user sees the menu.
	StateIdle State = "idle"
	// StateSelectingType means the user was shown the data type menu.
	StateSelectingType State = "selecting_type"
	// StateSelectingLanguage means the user was shown the language menu.
	StateSelectingLanguage State = "selecting_language"
	// StateCollecting means the current step expects free text.
	StateCollecting State = "collecting"
	// StateAwaitingChoice means the current step expects a fixed selection.
	StateAwaitingChoice State = "awaiting_choice"
)

// validTransitions defines allowed state transitions. Completion is not a
// stored state: a finished operation folds straight back to idle.
var validTransitions = map[State]map[State]bool{
	StateIdle: {
		StateSelectingType:     true,
		StateSelectingLanguage: true,
		StateIdle:              true,
	},
	StateSelectingType: {
		StateCollecting:     true,
		StateAwaitingChoice: true,
		StateIdle:           true,
	},
	StateSelectingLanguage: {
		StateIdle: true,
	},
	StateCollecting: {
		StateCollecting:     true,
		StateAwaitingChoice: true,
		StateIdle:           true,
	},
	StateAwaitingChoice: {
		StateCollecting:     true,
		StateAwaitingChoice: true,
		StateIdle:           true,
	},
}

// IsValidTransition checks if a state transition is allowed.
func IsValidTransition(from, to State) bool {
	if targets, ok := validTransitions[from]; ok {
		return targets[to]
	}
	return false
}

// Session is one active data-collection operation.
type Session struct {
	ID             string
	UserID         string
	DataType       schema.DataType
	Step           int // 1-based index into the type schema
	Fields         map[int]string
	AwaitingChoice bool
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// New creates a session positioned at the first step of dt.
func New(userID string, dt schema.DataType) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             "sess_" + uuid.New().String()[:16],
		UserID:         userID,
		DataType:       dt,
		Step:           1,
		Fields:         make(map[int]string),
		CreatedAt:      now,
		LastActivityAt: now,
	}
}

// StoreField records the validated value for the current step. Values are
// write-once; only a full session reset discards them.
func (s *Session) StoreField(value string) {
	s.Fields[s.Step] = value
	s.LastActivityAt = time.Now().UTC()
}

// Advance moves the session to the next step.
func (s *Session) Advance() {
	s.Step++
	s.LastActivityAt = time.Now().UTC()
}

// User is the store entry for one user: dialogue state, locale preference,
// and the active session, if any.
type User struct {
	ID      string
	State   State
	Locale  string
	Session *Session
}

// ClearSession atomically drops the active session and returns to idle.
func (u *User) ClearSession() {
	u.Session = nil
	u.State = StateIdle
}
