package dialogue

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickmark-labs/qrbot/eventbus"
	"github.com/quickmark-labs/qrbot/qrengine/encode"
	"github.com/quickmark-labs/qrbot/qrengine/observability"
	"github.com/quickmark-labs/qrbot/qrengine/schema"
	"github.com/quickmark-labs/qrbot/qrengine/session"
	"github.com/quickmark-labs/qrbot/qrengine/validate"
)

// Logger is the minimal logging interface the controller needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// LocaleSource is the slice of the text catalog the controller depends on.
// Display strings themselves are never read here; only locale identity.
type LocaleSource interface {
	Has(locale string) bool
	Locales() []string
	Name(code string) string
	DefaultLocale() string
}

// Controller is the dialogue state machine. One instance serves all users;
// per-user serialization is the session store's responsibility.
type Controller struct {
	registry *schema.Registry
	store    *session.Store
	bus      *eventbus.Bus
	locales  LocaleSource
	parser   *KeywordParser
	logger   Logger
	tracer   trace.Tracer
}

// NewController wires the controller. bus may be nil when no listeners are
// configured.
func NewController(
	registry *schema.Registry,
	store *session.Store,
	bus *eventbus.Bus,
	locales LocaleSource,
	logger Logger,
) *Controller {
	return &Controller{
		registry: registry,
		store:    store,
		bus:      bus,
		locales:  locales,
		parser:   NewKeywordParser(),
		logger:   logger,
		tracer:   otel.Tracer("qrbot/dialogue"),
	}
}

// HandleEvent routes one incoming text event for a user and returns the
// resulting action. Events for the same user are processed strictly in
// order; events for different users run concurrently.
func (c *Controller) HandleEvent(ctx context.Context, userID, text string) Action {
	ctx, span := c.tracer.Start(ctx, "dialogue.HandleEvent")
	defer span.End()
	start := time.Now()

	var action Action
	_ = c.store.With(userID, func(u *session.User) error {
		action = c.dispatch(ctx, u, text)
		action.Locale = c.resolveLocale(u)
		return nil
	})

	span.SetAttributes(
		attribute.String("dialogue.action", string(action.Kind)),
		attribute.String("dialogue.text_key", action.TextKey),
	)
	observability.RecordEvent(string(action.Kind), time.Since(start).Seconds())
	observability.SetActiveSessions(c.store.ActiveSessions())

	c.logger.Debug("event_handled",
		"user_id", userID,
		"action", string(action.Kind),
		"text_key", action.TextKey,
	)
	return action
}

func (c *Controller) resolveLocale(u *session.User) string {
	if u.Locale != "" {
		return u.Locale
	}
	return c.locales.DefaultLocale()
}

// dispatch runs under the user's store lock.
func (c *Controller) dispatch(ctx context.Context, u *session.User, text string) Action {
	cmd := c.parser.Parse(text)

	// An active collection step owns the input: only cancel (and skip,
	// where the step allows it) are commands there; everything else is
	// field data.
	if u.State == session.StateCollecting || u.State == session.StateAwaitingChoice {
		return c.handleFieldInput(ctx, u, text, cmd)
	}

	switch u.State {
	case session.StateSelectingType:
		return c.handleTypeSelection(ctx, u, text, cmd)
	case session.StateSelectingLanguage:
		return c.handleLanguageSelection(u, text)
	default:
		return c.handleIdle(ctx, u, cmd)
	}
}

// =============================================================================
// Menu states
// =============================================================================

func (c *Controller) handleIdle(ctx context.Context, u *session.User, cmd Command) Action {
	switch cmd {
	case CommandStart:
		return Action{Kind: ActionPrompt, TextKey: "welcome", Keyboard: KeyboardMainMenu}
	case CommandCreate:
		c.setState(u, session.StateSelectingType)
		return Action{Kind: ActionPrompt, TextKey: "select_data_type", Keyboard: KeyboardDataTypes}
	case CommandHelp:
		return Action{Kind: ActionPrompt, TextKey: "help_text", Keyboard: KeyboardMainMenu}
	case CommandLanguage:
		c.setState(u, session.StateSelectingLanguage)
		return Action{
			Kind:     ActionPrompt,
			TextKey:  "select_language",
			Keyboard: KeyboardLanguages,
			Choices:  c.languageChoices(),
		}
	case CommandCancel, CommandBack:
		// Nothing in progress; just show the menu again.
		return Action{Kind: ActionPrompt, TextKey: "main_menu", Keyboard: KeyboardMainMenu}
	default:
		return Action{Kind: ActionIgnored, TextKey: "use_buttons", Keyboard: KeyboardMainMenu}
	}
}

func (c *Controller) handleTypeSelection(ctx context.Context, u *session.User, text string, cmd Command) Action {
	switch cmd {
	case CommandCancel, CommandBack:
		c.setState(u, session.StateIdle)
		return Action{Kind: ActionPrompt, TextKey: "main_menu", Keyboard: KeyboardMainMenu}
	}

	token := strings.ToLower(strings.TrimSpace(text))
	dt, ok := c.registry.Parse(token)
	if !ok {
		// Unmatched input is ignored with a hint; state is unchanged.
		return Action{Kind: ActionIgnored, TextKey: "use_buttons", Keyboard: KeyboardDataTypes}
	}
	return c.startOperation(ctx, u, dt)
}

func (c *Controller) handleLanguageSelection(u *session.User, text string) Action {
	code := strings.ToLower(strings.TrimSpace(text))
	if !c.locales.Has(code) {
		// Unknown selection falls back to the default locale.
		code = c.locales.DefaultLocale()
	}
	u.Locale = code
	c.setState(u, session.StateIdle)
	c.logger.Info("locale_changed", "user_id", u.ID, "locale", code)
	return Action{Kind: ActionPrompt, TextKey: "language_changed", Keyboard: KeyboardMainMenu}
}

func (c *Controller) languageChoices() []Choice {
	codes := c.locales.Locales()
	choices := make([]Choice, 0, len(codes))
	for _, code := range codes {
		choices = append(choices, Choice{Label: c.locales.Name(code), Value: code})
	}
	return choices
}

// =============================================================================
// Collection states
// =============================================================================

func (c *Controller) startOperation(ctx context.Context, u *session.User, dt schema.DataType) Action {
	spec, ok := c.registry.Lookup(dt)
	if !ok {
		return Action{Kind: ActionIgnored, TextKey: "use_buttons", Keyboard: KeyboardDataTypes}
	}

	u.Session = session.New(u.ID, dt)
	c.publish(ctx, &eventbus.OperationStarted{
		UserID:    u.ID,
		SessionID: u.Session.ID,
		DataType:  string(dt),
	})
	c.logger.Info("operation_started",
		"user_id", u.ID, "session_id", u.Session.ID, "data_type", string(dt))

	return c.promptForStep(u, spec)
}

// promptForStep positions the user state for the session's current step and
// builds its prompt.
func (c *Controller) promptForStep(u *session.User, spec *schema.TypeSchema) Action {
	f, err := spec.Field(u.Session.Step)
	if err != nil {
		// Step out of schema range; treat as internal failure.
		c.logger.Error("step_out_of_range",
			"user_id", u.ID, "data_type", string(spec.Type), "step", u.Session.Step)
		u.ClearSession()
		return Action{Kind: ActionOperationFailed, TextKey: "generation_failed", Keyboard: KeyboardMainMenu}
	}

	if f.HasChoices() {
		u.Session.AwaitingChoice = true
		c.setState(u, session.StateAwaitingChoice)
		return Action{
			Kind:     ActionPrompt,
			TextKey:  f.PromptKey,
			Keyboard: KeyboardChoices,
			Choices:  choicesFromSpec(f.Choices),
		}
	}

	u.Session.AwaitingChoice = false
	c.setState(u, session.StateCollecting)
	keyboard := KeyboardCancel
	if f.Optional {
		keyboard = KeyboardSkip
	}
	return Action{Kind: ActionPrompt, TextKey: f.PromptKey, Keyboard: keyboard}
}

func (c *Controller) handleFieldInput(ctx context.Context, u *session.User, text string, cmd Command) Action {
	sess := u.Session
	if sess == nil {
		// State says collecting but no session exists; recover to idle.
		c.logger.Warn("stale_collection_state", "user_id", u.ID, "state", string(u.State))
		c.setState(u, session.StateIdle)
		return Action{Kind: ActionIgnored, TextKey: "use_buttons", Keyboard: KeyboardMainMenu}
	}

	if cmd == CommandCancel {
		return c.cancelOperation(ctx, u)
	}

	spec, ok := c.registry.Lookup(sess.DataType)
	if !ok {
		c.logger.Error("unknown_session_type", "user_id", u.ID, "data_type", string(sess.DataType))
		u.ClearSession()
		return Action{Kind: ActionOperationFailed, TextKey: "generation_failed", Keyboard: KeyboardMainMenu}
	}
	f, err := spec.Field(sess.Step)
	if err != nil {
		c.logger.Error("step_out_of_range",
			"user_id", u.ID, "data_type", string(sess.DataType), "step", sess.Step)
		u.ClearSession()
		return Action{Kind: ActionOperationFailed, TextKey: "generation_failed", Keyboard: KeyboardMainMenu}
	}

	if u.State == session.StateAwaitingChoice {
		reply := strings.TrimSpace(text)
		canonical := f.ResolveChoice(reply)
		c.publish(ctx, &eventbus.ChoiceResolved{
			UserID:    u.ID,
			SessionID: sess.ID,
			DataType:  string(sess.DataType),
			Step:      sess.Step,
			Canonical: canonical,
			Fallback:  canonical != reply,
		})
		return c.storeAndAdvance(ctx, u, spec, canonical, false)
	}

	if cmd == CommandSkip && f.Optional {
		return c.storeAndAdvance(ctx, u, spec, "", true)
	}

	if !validate.Check(f.Validator, text) {
		c.publish(ctx, &eventbus.ValidationRejected{
			UserID:    u.ID,
			SessionID: sess.ID,
			DataType:  string(sess.DataType),
			Step:      sess.Step,
			Validator: string(f.Validator),
		})
		keyboard := KeyboardCancel
		if f.Optional {
			keyboard = KeyboardSkip
		}
		// Step is not advanced and nothing is stored; the user retries.
		return Action{Kind: ActionValidationError, TextKey: f.ErrorKey, Keyboard: keyboard}
	}

	return c.storeAndAdvance(ctx, u, spec, text, false)
}

// storeAndAdvance records the value for the current step, then either
// completes the operation or moves to the next applicable step.
func (c *Controller) storeAndAdvance(ctx context.Context, u *session.User, spec *schema.TypeSchema, value string, skipped bool) Action {
	sess := u.Session
	f, _ := spec.Field(sess.Step)
	sess.StoreField(value)
	c.publish(ctx, &eventbus.FieldAccepted{
		UserID:    u.ID,
		SessionID: sess.ID,
		DataType:  string(sess.DataType),
		Step:      sess.Step,
		Field:     f.Name,
		Skipped:   skipped,
	})

	if sess.Step >= spec.EffectiveFieldCount(sess.Fields) {
		return c.complete(ctx, u)
	}

	sess.Advance()
	// Steps whose skip rule is satisfied by an earlier field are not
	// collected at all.
	for {
		next, err := spec.Field(sess.Step)
		if err != nil {
			return c.complete(ctx, u)
		}
		if next.SkipWhen != nil && sess.Fields[next.SkipWhen.Step] == next.SkipWhen.Equals {
			sess.Advance()
			continue
		}
		break
	}
	return c.promptForStep(u, spec)
}

func (c *Controller) complete(ctx context.Context, u *session.User) Action {
	sess := u.Session
	payload, err := encode.Encode(sess.DataType, sess.Fields)
	if err != nil || strings.TrimSpace(payload) == "" {
		reason := "empty_payload"
		if err != nil {
			reason = err.Error()
		}
		c.publish(ctx, &eventbus.EncodingFailed{
			UserID:    u.ID,
			SessionID: sess.ID,
			DataType:  string(sess.DataType),
			Reason:    reason,
		})
		c.logger.Error("encoding_failed",
			"user_id", u.ID, "data_type", string(sess.DataType), "reason", reason)
		u.ClearSession()
		return Action{Kind: ActionOperationFailed, TextKey: "generation_failed", Keyboard: KeyboardMainMenu}
	}

	dt := sess.DataType
	c.publish(ctx, &eventbus.PayloadGenerated{
		UserID:    u.ID,
		SessionID: sess.ID,
		DataType:  string(dt),
		Bytes:     len(payload),
	})
	c.logger.Info("payload_generated",
		"user_id", u.ID, "session_id", sess.ID, "data_type", string(dt), "bytes", len(payload))

	// Completion always clears the whole session before the next,
	// unrelated operation.
	u.ClearSession()
	return Action{
		Kind:        ActionPayloadReady,
		TextKey:     "qr_ready",
		Keyboard:    KeyboardMainMenu,
		Payload:     payload,
		PayloadType: dt,
	}
}

func (c *Controller) cancelOperation(ctx context.Context, u *session.User) Action {
	sess := u.Session
	if sess != nil {
		c.publish(ctx, &eventbus.OperationCancelled{
			UserID:    u.ID,
			SessionID: sess.ID,
			DataType:  string(sess.DataType),
			Step:      sess.Step,
		})
		c.logger.Info("operation_cancelled",
			"user_id", u.ID, "session_id", sess.ID, "data_type", string(sess.DataType))
	}
	u.ClearSession()
	return Action{Kind: ActionCancelled, TextKey: "operation_cancelled", Keyboard: KeyboardMainMenu}
}

// =============================================================================
// Helpers
// =============================================================================

func (c *Controller) setState(u *session.User, to session.State) {
	if !session.IsValidTransition(u.State, to) {
		c.logger.Warn("invalid_state_transition",
			"user_id", u.ID, "from", string(u.State), "to", string(to))
	}
	u.State = to
}

func (c *Controller) publish(ctx context.Context, event eventbus.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, event); err != nil {
		c.logger.Warn("event_publish_failed", "event_type", event.EventType(), "error", err)
	}
}
