// Package validate provides the field validators for the dialogue engine.
//
// Each validator is a pure predicate over raw user text. Validators never
// normalize input - canonicalization (phone cleaning, scheme prefixing)
// belongs to the encoders. Unparseable input yields false, never an error.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidatorID identifies a validator in the schema registry.
type ValidatorID string

const (
	ValidatorURL        ValidatorID = "url"
	ValidatorEmail      ValidatorID = "email"
	ValidatorPhone      ValidatorID = "phone"
	ValidatorCoordinate ValidatorID = "coordinate"
	ValidatorDate       ValidatorID = "date"
	ValidatorTime       ValidatorID = "time"
	ValidatorAmount     ValidatorID = "amount"
	ValidatorHexColor   ValidatorID = "hex_color"
	ValidatorNonEmpty   ValidatorID = "non_empty"
	ValidatorText       ValidatorID = "text"
)

// MaxTextLength caps free-text payload input.
const MaxTextLength = 500

// =============================================================================
// Patterns
// =============================================================================

var (
	// Optional http/https scheme, dot-separated labels (<=63 chars each,
	// no leading/trailing hyphen), 2-6 letter TLD, optional port and path.
	urlPattern = regexp.MustCompile(`(?i)^(https?://)?([A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?\.)+[A-Za-z]{2,6}(:[0-9]{1,5})?(/.*)?$`)

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Optional leading +, then at least 10 digits/spaces/hyphens/parentheses.
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)

	hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

	// Two-digit 24-hour clock. time.Parse("15:04", ...) accepts a
	// single-digit hour, which would leak into DTSTART as T93000.
	timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// =============================================================================
// Validators
// =============================================================================

// URL reports whether text looks like a web address.
func URL(text string) bool {
	return urlPattern.MatchString(text)
}

// Email reports whether text is a plausible email address.
func Email(text string) bool {
	return emailPattern.MatchString(text)
}

// Phone reports whether text is a phone number: optional leading +,
// then digits, spaces, hyphens or parentheses, at least 10 characters.
func Phone(text string) bool {
	return phonePattern.MatchString(text)
}

// Coordinate reports whether text parses as a float in [-180, 180].
// The same range is applied to both latitude and longitude; latitude is
// intentionally not restricted to [-90, 90].
func Coordinate(text string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return false
	}
	return v >= -180 && v <= 180
}

// Date reports whether text is a strict YYYY-MM-DD calendar date.
func Date(text string) bool {
	_, err := time.Parse("2006-01-02", text)
	return err == nil
}

// Time reports whether text is a strict 24-hour HH:MM clock time.
func Time(text string) bool {
	return timePattern.MatchString(text)
}

// Amount reports whether text parses as a non-negative float.
func Amount(text string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return false
	}
	return v >= 0
}

// HexColor reports whether text is # followed by 3 or 6 hex digits.
func HexColor(text string) bool {
	return hexColorPattern.MatchString(text)
}

// NonEmpty reports whether text contains at least one non-whitespace rune.
func NonEmpty(text string) bool {
	return strings.TrimSpace(text) != ""
}

// Text reports whether free text fits the payload length cap.
func Text(text string) bool {
	return utf8.RuneCountInString(text) <= MaxTextLength
}

// =============================================================================
// Registry
// =============================================================================

var validators = map[ValidatorID]func(string) bool{
	ValidatorURL:        URL,
	ValidatorEmail:      Email,
	ValidatorPhone:      Phone,
	ValidatorCoordinate: Coordinate,
	ValidatorDate:       Date,
	ValidatorTime:       Time,
	ValidatorAmount:     Amount,
	ValidatorHexColor:   HexColor,
	ValidatorNonEmpty:   NonEmpty,
	ValidatorText:       Text,
}

// Known reports whether id refers to a registered validator.
func Known(id ValidatorID) bool {
	_, ok := validators[id]
	return ok
}

// Check runs the validator identified by id against text.
// Unknown validator IDs reject everything.
func Check(id ValidatorID, text string) bool {
	fn, ok := validators[id]
	if !ok {
		return false
	}
	return fn(text)
}
