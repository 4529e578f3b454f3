// Package encode provides the payload encoders.
//
// Each encoder is a pure function from a completed field set (1-based step
// index -> validated raw text) to the canonical payload string for one data
// type. Normalization - phone cleaning, scheme prefixing, choice-to-scheme
// mapping - happens here and only here.
package encode

import (
	"fmt"
	"strings"

	"github.com/quickmark-labs/qrbot/qrengine/schema"
)

// Encode maps a completed field set to the canonical payload for dt.
// The returned error marks an internal encoding failure; field sets that
// passed validation normally encode without error.
func Encode(dt schema.DataType, fields map[int]string) (string, error) {
	switch dt {
	case schema.TypeURL, schema.TypeYouTube:
		return WebAddress(fields[1]), nil
	case schema.TypeText:
		return fields[1], nil
	case schema.TypeEmail:
		return "mailto:" + fields[1], nil
	case schema.TypePhone:
		return "tel:" + CleanPhone(fields[1]), nil
	case schema.TypeWiFi:
		return WiFi(fields[1], fields[2], fields[3]), nil
	case schema.TypeLocation:
		return fmt.Sprintf("geo:%s,%s", fields[1], fields[2]), nil
	case schema.TypeSMS:
		return SMS(fields[1], fields[2]), nil
	case schema.TypeWhatsApp:
		return WhatsApp(fields[1], fields[2]), nil
	case schema.TypeVCard:
		return VCard(fields[1], fields[2], fields[3], fields[4], fields[5]), nil
	case schema.TypeEvent:
		return Event(fields[1], fields[2], fields[3], fields[4]), nil
	case schema.TypePayPal:
		return PayPal(fields[1], fields[2]), nil
	case schema.TypeCrypto:
		return Crypto(fields[1], fields[2]), nil
	case schema.TypeSocial:
		return Social(fields[1], fields[2]), nil
	default:
		return "", fmt.Errorf("no encoder for data type %q", dt)
	}
}

// WebAddress prefixes https:// when no scheme is present.
func WebAddress(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// CleanPhone strips everything except digits and plus signs.
func CleanPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WiFi renders the WIFI: network descriptor. A "nopass" encryption choice
// or an absent password both yield the open-network form, regardless of any
// password previously typed.
func WiFi(ssid, encryption, password string) string {
	if encryption == "nopass" || password == "" {
		return fmt.Sprintf("WIFI:T:nopass;S:%s;;", ssid)
	}
	return fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", encryption, ssid, password)
}

// SMS renders smsto:<phone>:<text>, or sms:<phone> when text was skipped.
func SMS(phone, text string) string {
	clean := CleanPhone(phone)
	if text != "" {
		return fmt.Sprintf("smsto:%s:%s", clean, text)
	}
	return "sms:" + clean
}

// WhatsApp renders a wa.me link. The leading + is stripped; wa.me expects
// bare international digits.
func WhatsApp(phone, text string) string {
	clean := strings.ReplaceAll(CleanPhone(phone), "+", "")
	if text != "" {
		return fmt.Sprintf("https://wa.me/%s?text=%s", clean, text)
	}
	return "https://wa.me/" + clean
}

// PayPal renders a paypal.me link, with the amount path segment only when
// an amount was given.
func PayPal(email, amount string) string {
	if amount != "" {
		return fmt.Sprintf("https://paypal.me/%s/%s", email, amount)
	}
	return "https://paypal.me/" + email
}

// cryptoSchemes maps canonical currency codes to URI scheme prefixes.
var cryptoSchemes = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
}

// Crypto renders <scheme>:<address>. Unknown currency codes are lowercased
// and used as the scheme directly.
func Crypto(address, currency string) string {
	prefix, ok := cryptoSchemes[currency]
	if !ok {
		prefix = strings.ToLower(currency)
	}
	return prefix + ":" + address
}

// socialProfiles maps canonical platform names to profile URL templates.
var socialProfiles = map[string]string{
	"instagram": "https://instagram.com/%s",
	"tiktok":    "https://tiktok.com/@%s",
	"facebook":  "https://facebook.com/%s",
	"linkedin":  "https://linkedin.com/in/%s",
	"twitter":   "https://twitter.com/%s",
}

// Social renders a profile URL. Unknown platforms fall back to
// https://<platform>.com/<username>.
func Social(username, platform string) string {
	if tmpl, ok := socialProfiles[platform]; ok {
		return fmt.Sprintf(tmpl, username)
	}
	return fmt.Sprintf("https://%s.com/%s", platform, username)
}
