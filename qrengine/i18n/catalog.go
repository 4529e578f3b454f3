// Package i18n provides the text catalog: translation key + locale to
// display string, with a defined fallback chain.
//
// Lookup order: requested locale, then the default locale, then a bracketed
// placeholder carrying the key. The catalog is loaded once at startup from
// a directory of per-locale JSON files and is read-only afterwards.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// Catalog maps locale + key to display text.
type Catalog struct {
	defaultLocale string
	translations  map[string]map[string]string
}

// Load reads every *.json file in dir as a locale catalog; the file name
// (minus extension) is the locale code. The default locale must be present.
func Load(dir, defaultLocale string) (*Catalog, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	translations := make(map[string]map[string]string)
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		code := strings.TrimSuffix(de.Name(), ".json")
		raw, err := os.ReadFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", code, err)
		}
		table := make(map[string]string)
		if err := sonic.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", code, err)
		}
		translations[code] = table
	}

	if _, ok := translations[defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %q not found in %s", defaultLocale, dir)
	}
	return &Catalog{defaultLocale: defaultLocale, translations: translations}, nil
}

// NewStatic builds a catalog from in-memory tables. Intended for tests.
func NewStatic(defaultLocale string, translations map[string]map[string]string) *Catalog {
	return &Catalog{defaultLocale: defaultLocale, translations: translations}
}

// Get resolves key in the given locale. Unknown locales fall back to the
// default locale; keys missing everywhere resolve to "[key]".
func (c *Catalog) Get(locale, key string) string {
	if table, ok := c.translations[locale]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if locale != c.defaultLocale {
		if text, ok := c.translations[c.defaultLocale][key]; ok {
			return text
		}
	}
	return "[" + key + "]"
}

// Has reports whether a locale is loaded.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.translations[locale]
	return ok
}

// DefaultLocale returns the configured fallback locale.
func (c *Catalog) DefaultLocale() string {
	return c.defaultLocale
}

// Locales returns the loaded locale codes, sorted.
func (c *Catalog) Locales() []string {
	codes := make([]string, 0, len(c.translations))
	for code := range c.translations {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Name returns a locale's self-reported display name (the language_name
// key), falling back to the code itself.
func (c *Catalog) Name(code string) string {
	if table, ok := c.translations[code]; ok {
		if name, ok := table["language_name"]; ok {
			return name
		}
	}
	return code
}
