// Package dialogue provides the dialogue controller: the per-user state
// machine that routes incoming text events, drives validators and encoders
// through the type schema registry, and answers with a presentation-neutral
// Action.
//
// The controller never compares against localized display strings. Incoming
// commands, data type selections and choice replies are canonical tokens;
// mapping button labels to tokens is the transport's job, rendering
// localization keys to text is the catalog's.
package dialogue

import (
	"github.com/quickmark-labs/qrbot/qrengine/schema"
)

// ActionKind classifies the controller's answer to one text event.
type ActionKind string

const (
	// ActionPrompt asks the user for the next input.
	ActionPrompt ActionKind = "prompt"
	// ActionValidationError reports rejected input; the step is retried.
	ActionValidationError ActionKind = "validation_error"
	// ActionPayloadReady carries a completed payload.
	ActionPayloadReady ActionKind = "payload_ready"
	// ActionCancelled confirms an explicit cancel.
	ActionCancelled ActionKind = "cancelled"
	// ActionIgnored answers unroutable input with a static hint.
	ActionIgnored ActionKind = "ignored"
	// ActionOperationFailed reports an aborted encoding. The session is
	// gone; the user starts over from the menu.
	ActionOperationFailed ActionKind = "operation_failed"
)

// Keyboard hints which reply keyboard the transport should render.
type Keyboard string

const (
	KeyboardMainMenu  Keyboard = "main_menu"
	KeyboardDataTypes Keyboard = "data_types"
	KeyboardCancel    Keyboard = "cancel"
	KeyboardSkip      Keyboard = "skip"
	KeyboardChoices   Keyboard = "choices"
	KeyboardLanguages Keyboard = "languages"
)

// Choice is one selectable option offered with a prompt. LabelKey resolves
// through the text catalog; Label, when set, is already display-ready
// (used for language names, which are self-reported by each locale).
type Choice struct {
	LabelKey string `json:"label_key,omitempty"`
	Label    string `json:"label,omitempty"`
	Value    string `json:"value"`
}

// Action is the controller's answer to one text event.
type Action struct {
	Kind ActionKind `json:"kind"`
	// TextKey is the localization key for the message to show.
	TextKey string `json:"text_key"`
	// Locale is the user's resolved locale, for the transport to render with.
	Locale string `json:"locale"`
	// Keyboard hints the reply keyboard to render.
	Keyboard Keyboard `json:"keyboard"`
	// Choices carries the selectable options for choice prompts.
	Choices []Choice `json:"choices,omitempty"`
	// Payload is the canonical payload string; set only for payload_ready.
	Payload string `json:"payload,omitempty"`
	// PayloadType names the data type the payload encodes.
	PayloadType schema.DataType `json:"payload_type,omitempty"`
}

// choicesFromSpec converts a schema choice set into action choices.
func choicesFromSpec(specs []schema.Choice) []Choice {
	out := make([]Choice, 0, len(specs))
	for _, c := range specs {
		out = append(out, Choice{LabelKey: c.LabelKey, Value: c.Canonical})
	}
	return out
}
