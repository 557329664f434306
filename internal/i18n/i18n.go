// Package i18n builds the merged translation table for a site and hands out
// per-locale accessors. Three sources merge in order: built-in defaults, JSON
// locale files under the project's content/i18n directory, and fragments
// injected by plugins. Later sources win per key, per locale.
package i18n

import (
	"sort"

	"golang.org/x/text/language"

	"github.com/vitessedocs/vitesse/internal/schema"
)

// Table maps locale code to message key to translated string.
type Table map[string]map[string]string

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for locale, msgs := range t {
		entry := make(map[string]string, len(msgs))
		for k, v := range msgs {
			entry[k] = v
		}
		out[locale] = entry
	}
	return out
}

// Merge upserts every entry from other into t. A locale entry is created when
// absent; existing keys are overwritten.
func (t Table) Merge(other Table) {
	for locale, msgs := range other {
		entry, ok := t[locale]
		if !ok {
			entry = make(map[string]string, len(msgs))
			t[locale] = entry
		}
		for k, v := range msgs {
			entry[k] = v
		}
	}
}

// Translations is the merged translation system for one site. Immutable after
// Load; accessors share the underlying table.
type Translations struct {
	table         Table
	defaultLocale string
	localeIDs     []string
	matcher       language.Matcher
}

// Load reads the on-disk locale files under srcDir and merges them between the
// built-in defaults and the plugin-injected fragments. A missing i18n
// directory is not an error; any other read or parse failure propagates
// unchanged.
func Load(cfg *schema.SiteConfig, srcDir string, plugin Table) (*Translations, error) {
	disk, err := LoadDir(srcDir)
	if err != nil {
		return nil, err
	}

	table := Builtin().Clone()
	table.Merge(disk)
	table.Merge(plugin)

	defaultLocale := BuiltinLocale
	if cfg != nil && cfg.DefaultLocale != "" {
		defaultLocale = cfg.DefaultLocale
	}

	t := &Translations{table: table, defaultLocale: defaultLocale}
	t.buildMatcher(cfg)
	return t, nil
}

// buildMatcher indexes the configured locales for best-match lookup, so a
// request like "en-US" resolves to a configured "en".
func (t *Translations) buildMatcher(cfg *schema.SiteConfig) {
	ids := []string{t.defaultLocale}
	if cfg != nil {
		for code := range cfg.Locales {
			if code != t.defaultLocale {
				ids = append(ids, code)
			}
		}
	}
	sort.Strings(ids[1:])

	tags := make([]language.Tag, 0, len(ids))
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		tag, err := language.Parse(id)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		kept = append(kept, id)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
		kept = []string{BuiltinLocale}
	}
	t.localeIDs = kept
	t.matcher = language.NewMatcher(tags)
}

// Resolve maps a requested locale onto the closest configured one, falling
// back to the default locale when nothing matches.
func (t *Translations) Resolve(requested string) string {
	if _, ok := t.table[requested]; ok {
		return requested
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return t.defaultLocale
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return t.defaultLocale
	}
	return t.localeIDs[idx]
}

// DefaultLocale returns the locale used as the fallback for every accessor.
func (t *Translations) DefaultLocale() string { return t.defaultLocale }

// Locales returns the locale codes present in the merged table, sorted.
func (t *Translations) Locales() []string {
	out := make([]string, 0, len(t.table))
	for locale := range t.table {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Table returns the merged table. Callers must not mutate it.
func (t *Translations) Table() Table { return t.table }

// Locale returns an accessor bound to the given locale. Unknown locales still
// get a working accessor; every lookup then falls through the default chain.
func (t *Translations) Locale(locale string) *Accessor {
	return &Accessor{locale: t.Resolve(locale), parent: t}
}

// Accessor resolves message keys for one locale with fallback to the default
// locale and finally the built-in English table.
type Accessor struct {
	locale string
	parent *Translations
}

// LocaleID returns the resolved locale this accessor is bound to.
func (a *Accessor) LocaleID() string { return a.locale }

// Lookup resolves key through the fallback chain, reporting whether any source
// had it.
func (a *Accessor) Lookup(key string) (string, bool) {
	for _, locale := range []string{a.locale, a.parent.defaultLocale, BuiltinLocale} {
		if msgs, ok := a.parent.table[locale]; ok {
			if v, ok := msgs[key]; ok {
				return v, true
			}
		}
	}
	return "", false
}

// T resolves key, returning the empty string when no source defines it.
func (a *Accessor) T(key string) string {
	v, _ := a.Lookup(key)
	return v
}

// Has reports whether the accessor's own locale defines key, without
// consulting the fallback chain.
func (a *Accessor) Has(key string) bool {
	msgs, ok := a.parent.table[a.locale]
	if !ok {
		return false
	}
	_, ok = msgs[key]
	return ok
}
