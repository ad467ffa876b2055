// Package i18n holds the supported locale table and the translation
// dictionary that plugin language files are merged into.
package i18n

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Dictionary accumulates translations per locale. Nested mappings are
// flattened into dot-separated keys; the last write to a key wins.
type Dictionary struct {
	entries map[string]map[string]string
	mu      sync.RWMutex
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]map[string]string)}
}

// Add merges mapping into the translations of locale.
func (d *Dictionary) Add(mapping map[string]any, locale string) {
	locale = Normalize(locale)
	flat := make(map[string]string, len(mapping))
	flatten(locale, "", mapping, flat)

	d.mu.Lock()
	defer d.mu.Unlock()

	table, ok := d.entries[locale]
	if !ok {
		table = make(map[string]string, len(flat))
		d.entries[locale] = table
	}
	for k, v := range flat {
		table[k] = v
	}
}

// Get returns the translation of key in locale.
func (d *Dictionary) Get(locale, key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v, ok := d.entries[Normalize(locale)][key]

	return v, ok
}

// Translate returns the translation of key in locale, falling back to
// DefaultLocale and then to the key itself.
func (d *Dictionary) Translate(locale, key string) string {
	if v, ok := d.Get(locale, key); ok {
		return v
	}
	if v, ok := d.Get(DefaultLocale, key); ok {
		return v
	}

	return key
}

// Keys returns the sorted translation keys of locale.
func (d *Dictionary) Keys(locale string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	table := d.entries[Normalize(locale)]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Len returns the number of translations held for locale.
func (d *Dictionary) Len(locale string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries[Normalize(locale)])
}

// Locales returns the sorted locales that have at least one translation.
func (d *Dictionary) Locales() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, 0, len(d.entries))
	for l, table := range d.entries {
		if len(table) > 0 {
			out = append(out, l)
		}
	}
	sort.Strings(out)

	return out
}

// flatten copies scalar leaves of m into out. Values with no string form,
// such as lists, are logged and skipped.
func flatten(locale, prefix string, m map[string]any, out map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(locale, key, nested, out)

			continue
		}
		str, err := cast.ToStringE(v)
		if err != nil {
			log.Warn().
				Str("locale", locale).
				Str("key", key).
				Str("type", fmt.Sprintf("%T", v)).
				Msg("skipping translation value that is not a string")

			continue
		}
		out[key] = str
	}
}
