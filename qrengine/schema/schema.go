// Package schema provides the static type schema registry.
//
// One TypeSchema per supported data type declares the ordered field specs:
// which validator guards each step, whether the step is optional, and the
// enumerated choice set when the step is a fixed selection. The registry is
// built once at package init and is read-only afterwards.
package schema

import (
	"fmt"

	"github.com/quickmark-labs/qrbot/qrengine/validate"
)

// DataType identifies one of the supported payload kinds.
type DataType string

const (
	TypeURL      DataType = "url"
	TypeText     DataType = "text"
	TypeEmail    DataType = "email"
	TypePhone    DataType = "phone"
	TypeWiFi     DataType = "wifi"
	TypeLocation DataType = "location"
	TypeSMS      DataType = "sms"
	TypeWhatsApp DataType = "whatsapp"
	TypeVCard    DataType = "vcard"
	TypeEvent    DataType = "event"
	TypePayPal   DataType = "paypal"
	TypeCrypto   DataType = "crypto"
	TypeYouTube  DataType = "youtube"
	TypeSocial   DataType = "social"
)

// AllTypes lists every data type in menu order.
var AllTypes = []DataType{
	TypeURL, TypeText, TypeEmail, TypePhone, TypeWiFi, TypeLocation,
	TypeSMS, TypeWhatsApp, TypeVCard, TypeEvent, TypePayPal, TypeCrypto,
	TypeYouTube, TypeSocial,
}

// =============================================================================
// Field Specs
// =============================================================================

// Choice is one entry of an enumerated choice set. LabelKey resolves to the
// localized display label through the text catalog; Canonical is the stable
// locale-independent value stored in the session and consumed by encoders.
type Choice struct {
	LabelKey  string
	Canonical string
}

// SkipRule marks a field as absent when an earlier step holds a given value.
// The wifi password step is skipped when the encryption choice is "nopass".
type SkipRule struct {
	Step   int
	Equals string
}

// FieldSpec describes one collection step of a data type.
type FieldSpec struct {
	// Name is the stable field name, used for diagnostics and events.
	Name string
	// PromptKey is the catalog key for the step prompt.
	PromptKey string
	// ErrorKey is the catalog key shown on validation failure.
	ErrorKey string
	// Validator guards free-text input for this step. Ignored for
	// enumerated-choice steps.
	Validator validate.ValidatorID
	// Optional steps accept the skip command and store an empty string.
	Optional bool
	// Choices, when non-empty, makes this a fixed-selection step.
	Choices []Choice
	// FallbackChoice is the canonical value stored when a choice reply
	// matches no entry. The permissive fallback is deliberate, observable
	// behavior.
	FallbackChoice string
	// SkipWhen removes this step entirely when the referenced earlier
	// field holds the given canonical value.
	SkipWhen *SkipRule
}

// HasChoices reports whether this step expects a fixed selection.
func (f *FieldSpec) HasChoices() bool {
	return len(f.Choices) > 0
}

// ResolveChoice maps a reply to its canonical value. Matching is exact
// against canonical values; anything else falls back to FallbackChoice.
func (f *FieldSpec) ResolveChoice(reply string) string {
	for _, c := range f.Choices {
		if c.Canonical == reply {
			return c.Canonical
		}
	}
	return f.FallbackChoice
}

// TypeSchema is the immutable schema for one data type.
type TypeSchema struct {
	Type   DataType
	Fields []FieldSpec
}

// FieldCount returns the number of declared steps, ignoring skip rules.
func (s *TypeSchema) FieldCount() int {
	return len(s.Fields)
}

// EffectiveFieldCount returns the number of steps that apply given the
// fields collected so far. This is where the conditional wifi password
// step shortens the schema from 3 to 2.
func (s *TypeSchema) EffectiveFieldCount(fields map[int]string) int {
	n := 0
	for _, f := range s.Fields {
		if f.SkipWhen != nil && fields[f.SkipWhen.Step] == f.SkipWhen.Equals {
			continue
		}
		n++
	}
	return n
}

// Field returns the spec for a 1-based step index.
func (s *TypeSchema) Field(step int) (*FieldSpec, error) {
	if step < 1 || step > len(s.Fields) {
		return nil, fmt.Errorf("type %s has no step %d", s.Type, step)
	}
	return &s.Fields[step-1], nil
}

// =============================================================================
// Registry
// =============================================================================

// Registry holds the schemas for all data types. Read-only after Build.
type Registry struct {
	schemas map[DataType]*TypeSchema
}

// Lookup returns the schema for a data type.
func (r *Registry) Lookup(dt DataType) (*TypeSchema, bool) {
	s, ok := r.schemas[dt]
	return s, ok
}

// Parse maps a canonical type token to its DataType.
func (r *Registry) Parse(token string) (DataType, bool) {
	dt := DataType(token)
	_, ok := r.schemas[dt]
	return dt, ok
}

// Validate performs a sanity pass over the registry: every declared type
// present, every validator known, skip rules and fallbacks well-formed.
func (r *Registry) Validate() error {
	for _, dt := range AllTypes {
		s, ok := r.schemas[dt]
		if !ok {
			return fmt.Errorf("missing schema for type %s", dt)
		}
		if len(s.Fields) == 0 {
			return fmt.Errorf("type %s declares no fields", dt)
		}
		for i := range s.Fields {
			f := &s.Fields[i]
			if f.HasChoices() {
				if f.FallbackChoice == "" {
					return fmt.Errorf("type %s step %d: choice set without fallback", dt, i+1)
				}
				continue
			}
			if !validate.Known(f.Validator) {
				return fmt.Errorf("type %s step %d: unknown validator %q", dt, i+1, f.Validator)
			}
			if f.SkipWhen != nil && (f.SkipWhen.Step < 1 || f.SkipWhen.Step > i) {
				return fmt.Errorf("type %s step %d: skip rule references step %d", dt, i+1, f.SkipWhen.Step)
			}
		}
	}
	return nil
}

// NewRegistry builds the static registry. It panics only through Validate
// misuse in tests; production callers should check Validate at startup.
func NewRegistry() *Registry {
	return &Registry{schemas: buildSchemas()}
}

func buildSchemas() map[DataType]*TypeSchema {
	encryptionChoices := []Choice{
		{LabelKey: "encryption_wpa", Canonical: "WPA"},
		{LabelKey: "encryption_wep", Canonical: "WEP"},
		{LabelKey: "encryption_none", Canonical: "nopass"},
	}
	cryptoChoices := []Choice{
		{LabelKey: "crypto_btc", Canonical: "BTC"},
		{LabelKey: "crypto_eth", Canonical: "ETH"},
		{LabelKey: "crypto_usdt", Canonical: "USDT"},
	}
	socialChoices := []Choice{
		{LabelKey: "social_instagram", Canonical: "instagram"},
		{LabelKey: "social_tiktok", Canonical: "tiktok"},
		{LabelKey: "social_facebook", Canonical: "facebook"},
		{LabelKey: "social_linkedin", Canonical: "linkedin"},
		{LabelKey: "social_twitter", Canonical: "twitter"},
	}

	return map[DataType]*TypeSchema{
		TypeURL: {Type: TypeURL, Fields: []FieldSpec{
			{Name: "url", PromptKey: "enter_url", ErrorKey: "invalid_url", Validator: validate.ValidatorURL},
		}},
		TypeText: {Type: TypeText, Fields: []FieldSpec{
			{Name: "text", PromptKey: "enter_text", ErrorKey: "text_too_long", Validator: validate.ValidatorText},
		}},
		TypeEmail: {Type: TypeEmail, Fields: []FieldSpec{
			{Name: "address", PromptKey: "enter_email", ErrorKey: "invalid_email", Validator: validate.ValidatorEmail},
		}},
		TypePhone: {Type: TypePhone, Fields: []FieldSpec{
			{Name: "phone", PromptKey: "enter_phone", ErrorKey: "invalid_phone", Validator: validate.ValidatorPhone},
		}},
		TypeWiFi: {Type: TypeWiFi, Fields: []FieldSpec{
			{Name: "ssid", PromptKey: "enter_wifi_ssid", ErrorKey: "invalid_input", Validator: validate.ValidatorNonEmpty},
			{Name: "encryption", PromptKey: "select_encryption", Choices: encryptionChoices, FallbackChoice: "WPA"},
			{Name: "password", PromptKey: "enter_wifi_password", ErrorKey: "invalid_input", Validator: validate.ValidatorNonEmpty,
				SkipWhen: &SkipRule{Step: 2, Equals: "nopass"}},
		}},
		TypeLocation: {Type: TypeLocation, Fields: []FieldSpec{
			{Name: "latitude", PromptKey: "enter_location_lat", ErrorKey: "invalid_coordinate", Validator: validate.ValidatorCoordinate},
			{Name: "longitude", PromptKey: "enter_location_lon", ErrorKey: "invalid_coordinate", Validator: validate.ValidatorCoordinate},
		}},
		TypeSMS: {Type: TypeSMS, Fields: []FieldSpec{
			{Name: "phone", PromptKey: "enter_sms_phone", ErrorKey: "invalid_phone", Validator: validate.ValidatorPhone},
			{Name: "text", PromptKey: "enter_sms_text", ErrorKey: "text_too_long", Validator: validate.ValidatorText, Optional: true},
		}},
		TypeWhatsApp: {Type: TypeWhatsApp, Fields: []FieldSpec{
			{Name: "phone", PromptKey: "enter_whatsapp_phone", ErrorKey: "invalid_phone", Validator: validate.ValidatorPhone},
			{Name: "text", PromptKey: "enter_whatsapp_text", ErrorKey: "text_too_long", Validator: validate.ValidatorText, Optional: true},
		}},
		TypeVCard: {Type: TypeVCard, Fields: []FieldSpec{
			{Name: "name", PromptKey: "enter_vcard_name", ErrorKey: "invalid_input", Validator: validate.ValidatorNonEmpty},
			{Name: "company", PromptKey: "enter_vcard_company", ErrorKey: "invalid_input", Validator: validate.ValidatorText, Optional: true},
			{Name: "phone", PromptKey: "enter_vcard_phone", ErrorKey: "invalid_phone", Validator: validate.ValidatorPhone, Optional: true},
			{Name: "email", PromptKey: "enter_vcard_email", ErrorKey: "invalid_email", Validator: validate.ValidatorEmail, Optional: true},
			{Name: "website", PromptKey: "enter_vcard_website", ErrorKey: "invalid_url", Validator: validate.ValidatorURL, Optional: true},
		}},
		TypeEvent: {Type: TypeEvent, Fields: []FieldSpec{
			{Name: "title", PromptKey: "enter_event_title", ErrorKey: "invalid_input", Validator: validate.ValidatorNonEmpty},
			{Name: "date", PromptKey: "enter_event_date", ErrorKey: "invalid_date", Validator: validate.ValidatorDate},
			{Name: "time", PromptKey: "enter_event_time", ErrorKey: "invalid_time", Validator: validate.ValidatorTime, Optional: true},
			{Name: "location", PromptKey: "enter_event_location", ErrorKey: "invalid_input", Validator: validate.ValidatorText, Optional: true},
		}},
		TypePayPal: {Type: TypePayPal, Fields: []FieldSpec{
			{Name: "email", PromptKey: "enter_paypal_email", ErrorKey: "invalid_email", Validator: validate.ValidatorEmail},
			{Name: "amount", PromptKey: "enter_paypal_amount", ErrorKey: "invalid_number", Validator: validate.ValidatorAmount, Optional: true},
		}},
		TypeCrypto: {Type: TypeCrypto, Fields: []FieldSpec{
			{Name: "address", PromptKey: "enter_crypto_address", ErrorKey: "invalid_input", Validator: validate.ValidatorNonEmpty},
			{Name: "currency", PromptKey: "enter_crypto_currency", Choices: cryptoChoices, FallbackChoice: "BTC"},
		}},
		TypeYouTube: {Type: TypeYouTube, Fields: []FieldSpec{
			{Name: "url", PromptKey: "enter_youtube", ErrorKey: "invalid_url", Validator: validate.ValidatorURL},
		}},
		TypeSocial: {Type: TypeSocial, Fields: []FieldSpec{
			{Name: "username", PromptKey: "enter_social_username", ErrorKey: "invalid_input", Validator: validate.ValidatorNonEmpty},
			{Name: "platform", PromptKey: "enter_social_platform", Choices: socialChoices, FallbackChoice: "instagram"},
		}},
	}
}
