package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com", true},
		{"http://example.com", true},
		{"example.com", true},
		{"sub.example.co.uk", true},
		{"example.com:8080/path?q=1", true},
		{"EXAMPLE.COM", true},
		{"my-site.org", true},
		{"ftp://example.com", false},
		{"example", false},
		{"-bad.com", false},
		{"bad-.com", false},
		{"example.toolongtld", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, URL(tt.input), "input=%q", tt.input)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"u%x_y-z@host.io", true},
		{"user@example", false},
		{"user@example.c", false},
		{"@example.com", false},
		{"user example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Email(tt.input), "input=%q", tt.input)
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+1 (234) 567-890", true},
		{"1234567890", true},
		{"555-1234567", true},
		{"+49 30 901820", true},
		{"123456789", false}, // only 9 characters
		{"+12345abc6789", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Phone(tt.input), "input=%q", tt.input)
	}
}

func TestCoordinate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"12.34", true},
		{"-56.78", true},
		{"180", true},
		{"-180", true},
		{"0", true},
		// The shared [-180, 180] range applies to latitude too, so 100
		// passes even though it is not a valid latitude.
		{"100", true},
		{"200", false},
		{"180.0001", false},
		{"-180.5", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Coordinate(tt.input), "input=%q", tt.input)
	}
}

func TestDate(t *testing.T) {
	assert.True(t, Date("2026-08-31"))
	assert.True(t, Date("2000-01-01"))
	assert.False(t, Date("2026-8-31"))
	assert.False(t, Date("31-08-2026"))
	assert.False(t, Date("2026-13-01"))
	assert.False(t, Date("2026-02-30"))
	assert.False(t, Date("today"))
	assert.False(t, Date(""))
}

func TestTime(t *testing.T) {
	assert.True(t, Time("09:30"))
	assert.True(t, Time("23:59"))
	assert.True(t, Time("00:00"))
	assert.False(t, Time("24:00"))
	assert.False(t, Time("9:30"))
	assert.False(t, Time("09:5"))
	assert.False(t, Time("23:60"))
	assert.False(t, Time("09:30:15"))
	assert.False(t, Time("noon"))
}

func TestAmount(t *testing.T) {
	assert.True(t, Amount("0"))
	assert.True(t, Amount("19.99"))
	assert.True(t, Amount("1000000"))
	assert.False(t, Amount("-1"))
	assert.False(t, Amount("12,50"))
	assert.False(t, Amount("free"))
	assert.False(t, Amount(""))
}

func TestHexColor(t *testing.T) {
	assert.True(t, HexColor("#000000"))
	assert.True(t, HexColor("#FFF"))
	assert.True(t, HexColor("#a1B2c3"))
	assert.False(t, HexColor("000000"))
	assert.False(t, HexColor("#12345"))
	assert.False(t, HexColor("#GGG"))
	assert.False(t, HexColor(""))
}

func TestNonEmpty(t *testing.T) {
	assert.True(t, NonEmpty("x"))
	assert.True(t, NonEmpty("  word  "))
	assert.False(t, NonEmpty(""))
	assert.False(t, NonEmpty("   "))
	assert.False(t, NonEmpty("\t\n"))
}

func TestText(t *testing.T) {
	assert.True(t, Text(""))
	assert.True(t, Text("hello"))
	assert.True(t, Text(strings.Repeat("a", MaxTextLength)))
	assert.False(t, Text(strings.Repeat("a", MaxTextLength+1)))
}

func TestCheckDispatch(t *testing.T) {
	assert.True(t, Check(ValidatorEmail, "a@b.co"))
	assert.False(t, Check(ValidatorEmail, "nope"))
	assert.False(t, Check(ValidatorID("bogus"), "anything"))
	assert.True(t, Known(ValidatorURL))
	assert.False(t, Known(ValidatorID("bogus")))
}

// Validators are pure: same input, same answer.
func TestCheckIdempotent(t *testing.T) {
	inputs := []string{"a@b.co", "200", "12.34", "+1 (234) 567-890", ""}
	for id := range validators {
		for _, in := range inputs {
			first := Check(id, in)
			second := Check(id, in)
			assert.Equal(t, first, second, "validator %s input %q", id, in)
		}
	}
}
