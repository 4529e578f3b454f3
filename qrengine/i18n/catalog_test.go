package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewStatic("en", map[string]map[string]string{
		"en": {
			"language_name": "English",
			"welcome":       "Welcome!",
			"cancel":        "Cancel",
		},
		"ru": {
			"language_name": "Русский",
			"welcome":       "Добро пожаловать!",
		},
	})
}

func TestGet(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, "Welcome!", c.Get("en", "welcome"))
	assert.Equal(t, "Добро пожаловать!", c.Get("ru", "welcome"))
}

func TestFallbackChain(t *testing.T) {
	c := testCatalog()
	// Key missing in ru falls back to en.
	assert.Equal(t, "Cancel", c.Get("ru", "cancel"))
	// Unknown locale falls back to en.
	assert.Equal(t, "Welcome!", c.Get("de", "welcome"))
	// Key missing everywhere resolves to a bracketed placeholder.
	assert.Equal(t, "[no_such_key]", c.Get("en", "no_such_key"))
	assert.Equal(t, "[no_such_key]", c.Get("de", "no_such_key"))
}

func TestLocalesAndNames(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, []string{"en", "ru"}, c.Locales())
	assert.Equal(t, "English", c.Name("en"))
	assert.Equal(t, "Русский", c.Name("ru"))
	assert.Equal(t, "de", c.Name("de"))
	assert.True(t, c.Has("ru"))
	assert.False(t, c.Has("de"))
	assert.Equal(t, "en", c.DefaultLocale())
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"),
		[]byte(`{"language_name":"English","welcome":"Welcome!"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "es.json"),
		[]byte(`{"language_name":"Español","welcome":"¡Bienvenido!"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("ignored"), 0o644))

	c, err := Load(dir, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "es"}, c.Locales())
	assert.Equal(t, "¡Bienvenido!", c.Get("es", "welcome"))
}

func TestLoadMissingDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "es.json"),
		[]byte(`{"language_name":"Español"}`), 0o644))

	_, err := Load(dir, "en")
	assert.Error(t, err)
}

func TestLoadBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"),
		[]byte(`{broken`), 0o644))

	_, err := Load(dir, "en")
	assert.Error(t, err)
}
