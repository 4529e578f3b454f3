package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Validate())
}

func TestFieldCounts(t *testing.T) {
	r := NewRegistry()

	counts := map[DataType]int{
		TypeURL: 1, TypeText: 1, TypeEmail: 1, TypePhone: 1, TypeYouTube: 1,
		TypeLocation: 2, TypeSMS: 2, TypeWhatsApp: 2, TypePayPal: 2,
		TypeCrypto: 2, TypeSocial: 2, TypeWiFi: 3, TypeEvent: 4, TypeVCard: 5,
	}
	for dt, want := range counts {
		s, ok := r.Lookup(dt)
		require.True(t, ok, "type %s", dt)
		assert.Equal(t, want, s.FieldCount(), "type %s", dt)
	}
}

func TestOptionality(t *testing.T) {
	r := NewRegistry()

	optional := map[DataType][]bool{
		TypeSMS:      {false, true},
		TypeWhatsApp: {false, true},
		TypePayPal:   {false, true},
		TypeCrypto:   {false, false},
		TypeSocial:   {false, false},
		TypeLocation: {false, false},
		TypeVCard:    {false, true, true, true, true},
		TypeEvent:    {false, false, true, true},
	}
	for dt, want := range optional {
		s, _ := r.Lookup(dt)
		for i, opt := range want {
			f, err := s.Field(i + 1)
			require.NoError(t, err)
			assert.Equal(t, opt, f.Optional, "type %s step %d", dt, i+1)
		}
	}
}

func TestWiFiConditionalFieldCount(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Lookup(TypeWiFi)

	// With WPA encryption the password step applies.
	assert.Equal(t, 3, s.EffectiveFieldCount(map[int]string{1: "Home", 2: "WPA"}))
	assert.Equal(t, 3, s.EffectiveFieldCount(map[int]string{1: "Home", 2: "WEP"}))
	// With no encryption the schema shortens to 2 steps.
	assert.Equal(t, 2, s.EffectiveFieldCount(map[int]string{1: "Home", 2: "nopass"}))
	// Before the encryption choice is made, all steps count.
	assert.Equal(t, 3, s.EffectiveFieldCount(map[int]string{1: "Home"}))
}

func TestChoiceResolution(t *testing.T) {
	r := NewRegistry()

	s, _ := r.Lookup(TypeCrypto)
	f, err := s.Field(2)
	require.NoError(t, err)
	require.True(t, f.HasChoices())
	assert.Equal(t, "ETH", f.ResolveChoice("ETH"))
	assert.Equal(t, "USDT", f.ResolveChoice("USDT"))
	// Unmatched replies fall back to BTC.
	assert.Equal(t, "BTC", f.ResolveChoice("DOGE"))
	assert.Equal(t, "BTC", f.ResolveChoice(""))

	s, _ = r.Lookup(TypeSocial)
	f, _ = s.Field(2)
	assert.Equal(t, "tiktok", f.ResolveChoice("tiktok"))
	assert.Equal(t, "instagram", f.ResolveChoice("myspace"))

	s, _ = r.Lookup(TypeWiFi)
	f, _ = s.Field(2)
	assert.Equal(t, "nopass", f.ResolveChoice("nopass"))
	assert.Equal(t, "WPA", f.ResolveChoice("ROT13"))
}

func TestParse(t *testing.T) {
	r := NewRegistry()
	dt, ok := r.Parse("wifi")
	assert.True(t, ok)
	assert.Equal(t, TypeWiFi, dt)

	_, ok = r.Parse("barcode")
	assert.False(t, ok)
}

func TestFieldOutOfRange(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Lookup(TypeURL)
	_, err := s.Field(0)
	assert.Error(t, err)
	_, err = s.Field(2)
	assert.Error(t, err)
}
