package encode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickmark-labs/qrbot/qrengine/schema"
)

func TestWebAddress(t *testing.T) {
	assert.Equal(t, "https://example.com", WebAddress("example.com"))
	assert.Equal(t, "https://example.com", WebAddress("https://example.com"))
	assert.Equal(t, "http://example.com", WebAddress("http://example.com"))
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+1234567890", CleanPhone("+1 (234) 567-890"))
	assert.Equal(t, "5551234567", CleanPhone("555-1234567"))
	assert.Equal(t, "+49301234567", CleanPhone("+49 30 123 45 67"))
}

func TestPhonePayload(t *testing.T) {
	payload, err := Encode(schema.TypePhone, map[int]string{1: "+1 (234) 567-890"})
	require.NoError(t, err)
	assert.Equal(t, "tel:+1234567890", payload)
}

func TestWiFi(t *testing.T) {
	assert.Equal(t, "WIFI:T:WPA;S:Home;P:secret123;;", WiFi("Home", "WPA", "secret123"))
	assert.Equal(t, "WIFI:T:WEP;S:Cafe;P:pw;;", WiFi("Cafe", "WEP", "pw"))
	// Open networks drop the password, even if one was typed earlier.
	assert.Equal(t, "WIFI:T:nopass;S:Home;;", WiFi("Home", "nopass", "secret123"))
	assert.Equal(t, "WIFI:T:nopass;S:Home;;", WiFi("Home", "WPA", ""))
}

func TestLocation(t *testing.T) {
	payload, err := Encode(schema.TypeLocation, map[int]string{1: "12.34", 2: "56.78"})
	require.NoError(t, err)
	assert.Equal(t, "geo:12.34,56.78", payload)

	// The encoder performs no range checks; an out-of-range latitude is
	// passed through verbatim.
	payload, err = Encode(schema.TypeLocation, map[int]string{1: "200", 2: "56.78"})
	require.NoError(t, err)
	assert.Equal(t, "geo:200,56.78", payload)
}

func TestSMS(t *testing.T) {
	assert.Equal(t, "sms:5551234567", SMS("555-1234567", ""))
	assert.Equal(t, "smsto:5551234567:hi", SMS("555-1234567", "hi"))
}

func TestWhatsApp(t *testing.T) {
	assert.Equal(t, "https://wa.me/15551234567", WhatsApp("+1 555 123 4567", ""))
	assert.Equal(t, "https://wa.me/15551234567?text=hello", WhatsApp("+1 555 123 4567", "hello"))
}

func TestPayPal(t *testing.T) {
	assert.Equal(t, "https://paypal.me/me@shop.io", PayPal("me@shop.io", ""))
	assert.Equal(t, "https://paypal.me/me@shop.io/19.99", PayPal("me@shop.io", "19.99"))
}

func TestCrypto(t *testing.T) {
	assert.Equal(t, "bitcoin:1A2b3C", Crypto("1A2b3C", "BTC"))
	assert.Equal(t, "ethereum:0xdead", Crypto("0xdead", "ETH"))
	assert.Equal(t, "tether:Tabc", Crypto("Tabc", "USDT"))
	assert.Equal(t, "doge:Dxyz", Crypto("Dxyz", "DOGE"))
}

func TestSocial(t *testing.T) {
	assert.Equal(t, "https://instagram.com/jane", Social("jane", "instagram"))
	assert.Equal(t, "https://tiktok.com/@jane", Social("jane", "tiktok"))
	assert.Equal(t, "https://facebook.com/jane", Social("jane", "facebook"))
	assert.Equal(t, "https://linkedin.com/in/jane", Social("jane", "linkedin"))
	assert.Equal(t, "https://twitter.com/jane", Social("jane", "twitter"))
	assert.Equal(t, "https://myspace.com/jane", Social("jane", "myspace"))
}

func TestVCardFull(t *testing.T) {
	got := VCard("Jane Doe", "Acme", "+1 555 000", "jane@acme.io", "acme.io")
	want := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:Jane Doe;Jane Doe;;;",
		"FN:Jane Doe",
		"ORG:Acme",
		"TEL;TYPE=WORK:+1 555 000",
		"EMAIL;TYPE=WORK:jane@acme.io",
		"URL:acme.io",
		"END:VCARD",
	}, "\r\n") + "\r\n"
	assert.Equal(t, want, got)
}

func TestVCardOmitsEmptyFields(t *testing.T) {
	got := VCard("Jane Doe", "", "", "", "")
	assert.Contains(t, got, "FN:Jane Doe")
	assert.NotContains(t, got, "ORG:")
	assert.NotContains(t, got, "TEL")
	assert.NotContains(t, got, "EMAIL")
	assert.NotContains(t, got, "URL:")
}

func TestVCardEscaping(t *testing.T) {
	got := VCard("Doe; Jane", "Acme, Inc", "", "", "")
	assert.Contains(t, got, `FN:Doe\; Jane`)
	assert.Contains(t, got, `ORG:Acme\, Inc`)
}

func TestVCardFallback(t *testing.T) {
	// Control characters cannot be represented in a vCard line; the
	// encoder degrades to the plain-text contact summary.
	got := VCard("Jane\nDoe", "Acme", "", "", "")
	assert.Equal(t, "Name: Jane\nDoe\nCompany: Acme", got)
}

func TestEventWithTime(t *testing.T) {
	got := Event("Standup", "2026-09-01", "09:30", "Room 4")
	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"SUMMARY:Standup",
		"DTSTART:20260901T093000",
		"LOCATION:Room 4",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestEventDateOnly(t *testing.T) {
	got := Event("Launch", "2026-10-20", "", "")
	assert.Contains(t, got, "DTSTART:20261020\n")
	assert.Contains(t, got, "LOCATION:\n")
}

func TestEventFallback(t *testing.T) {
	got := Event("Bad\x00Title", "2026-10-20", "12:00", "HQ")
	assert.Equal(t, "Event: Bad\x00Title\nDate: 2026-10-20\nTime: 12:00\nLocation: HQ", got)
}

func TestEncodeDispatch(t *testing.T) {
	payload, err := Encode(schema.TypeURL, map[int]string{1: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", payload)

	payload, err = Encode(schema.TypeText, map[int]string{1: "just words"})
	require.NoError(t, err)
	assert.Equal(t, "just words", payload)

	payload, err = Encode(schema.TypeEmail, map[int]string{1: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "mailto:a@b.co", payload)

	payload, err = Encode(schema.TypeYouTube, map[int]string{1: "youtube.com/watch?v=x"})
	require.NoError(t, err)
	assert.Equal(t, "https://youtube.com/watch?v=x", payload)

	_, err = Encode(schema.DataType("bogus"), map[int]string{})
	assert.Error(t, err)
}

// Encoders are pure: encoding the same field set twice gives identical output.
func TestEncodeIdempotent(t *testing.T) {
	fields := map[int]string{1: "Home", 2: "WPA", 3: "secret123"}
	first, err := Encode(schema.TypeWiFi, fields)
	require.NoError(t, err)
	second, err := Encode(schema.TypeWiFi, fields)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
