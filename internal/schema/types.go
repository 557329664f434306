// Package schema defines the site configuration shape and its validation
// pipeline. Validation is two-phase: a structural decode of the raw value into
// typed structures (with field-path errors), then a pure defaults/normalization
// pass. A SiteConfig in circulation has always passed the full pipeline.
package schema

import (
	"encoding/json"
	"strings"
)

// SiteConfig is the validated, normalized site configuration. Produced only by
// Validate; never constructed directly by plugins. All collection fields are
// non-nil after normalization so the serialized form is stable.
type SiteConfig struct {
	Title         string                  `json:"title" yaml:"title" validate:"required"`
	Description   string                  `json:"description" yaml:"description"`
	Nav           []NavItem               `json:"nav" yaml:"nav" validate:"dive"`
	Locales       map[string]LocaleConfig `json:"locales" yaml:"locales" validate:"dive"`
	DefaultLocale string                  `json:"defaultLocale" yaml:"defaultLocale" validate:"omitempty,bcp47_language_tag"`
	CustomCSS     []string                `json:"customCss" yaml:"customCss"`
	Logo          *LogoConfig             `json:"logo,omitempty" yaml:"logo,omitempty"`
	Components    map[string]string       `json:"components" yaml:"components"`
	Prerender     bool                    `json:"prerender" yaml:"prerender"`
}

// NavItemType distinguishes the two navigation item shapes.
type NavItemType string

const (
	// NavLink is an external link item (label + absolute URL).
	NavLink NavItemType = "link"
	// NavPage is an internal item referencing a content slug.
	NavPage NavItemType = "page"
)

// NormalizeNavItemType canonicalizes user input returning empty string if unknown.
func NormalizeNavItemType(raw string) NavItemType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(NavLink):
		return NavLink
	case string(NavPage):
		return NavPage
	default:
		return ""
	}
}

// NavItem is one navigation entry. External items carry Link (and a required
// Label, optionally translated per locale); internal items carry Slug with an
// optional Label. A bare string in the raw config is shorthand for an internal
// item with only a slug.
type NavItem struct {
	Type         NavItemType       `json:"type" yaml:"type"`
	Label        string            `json:"label" yaml:"label"`
	Link         string            `json:"link,omitempty" yaml:"link,omitempty" validate:"omitempty,url"`
	Slug         string            `json:"slug,omitempty" yaml:"slug,omitempty"`
	Translations map[string]string `json:"translations" yaml:"translations"`
	Attrs        AttrBag           `json:"attrs" yaml:"attrs"`
}

// AttrBag holds sanitized HTML attributes for a nav item. Values are limited
// to string, bool, and float64 (numbers are canonicalized to float64 so that a
// serialize/re-validate round trip is value-stable).
type AttrBag map[string]any

// TextDirection enumerates supported text directions for a locale.
type TextDirection string

const (
	DirLTR TextDirection = "ltr"
	DirRTL TextDirection = "rtl"
)

// NormalizeTextDirection canonicalizes user input returning empty string if unknown.
func NormalizeTextDirection(raw string) TextDirection {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(DirLTR):
		return DirLTR
	case string(DirRTL):
		return DirRTL
	default:
		return ""
	}
}

// LocaleConfig describes one locale entry. The map key in SiteConfig.Locales
// is the locale code; Lang optionally overrides it as the BCP-47 tag used in
// emitted HTML.
type LocaleConfig struct {
	Label string        `json:"label" yaml:"label" validate:"required"`
	Lang  string        `json:"lang,omitempty" yaml:"lang,omitempty" validate:"omitempty,bcp47_language_tag"`
	Dir   TextDirection `json:"dir" yaml:"dir" validate:"omitempty,oneof=ltr rtl"`
}

// LogoConfig is either a single-image form (Src) or a light/dark pair form
// (Light + Dark). The two shapes are mutually exclusive; validation rejects
// mixed or incomplete forms.
type LogoConfig struct {
	Src           string `json:"src,omitempty" yaml:"src,omitempty"`
	Light         string `json:"light,omitempty" yaml:"light,omitempty"`
	Dark          string `json:"dark,omitempty" yaml:"dark,omitempty"`
	Alt           string `json:"alt" yaml:"alt"`
	ReplacesTitle bool   `json:"replacesTitle" yaml:"replacesTitle"`
}

// IsPair reports whether the logo uses the light/dark pair form.
func (l *LogoConfig) IsPair() bool { return l != nil && l.Src == "" }

// Clone returns a deep copy of the configuration. The plugin runtime hands
// clones to plugin setups so a setup cannot reach into run state.
func (c *SiteConfig) Clone() *SiteConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Nav = make([]NavItem, len(c.Nav))
	for i, n := range c.Nav {
		out.Nav[i] = n.clone()
	}
	out.Locales = make(map[string]LocaleConfig, len(c.Locales))
	for k, v := range c.Locales {
		out.Locales[k] = v
	}
	out.CustomCSS = make([]string, len(c.CustomCSS))
	copy(out.CustomCSS, c.CustomCSS)
	out.Components = make(map[string]string, len(c.Components))
	for k, v := range c.Components {
		out.Components[k] = v
	}
	if c.Logo != nil {
		logo := *c.Logo
		out.Logo = &logo
	}
	return &out
}

func (n NavItem) clone() NavItem {
	out := n
	out.Translations = make(map[string]string, len(n.Translations))
	for k, v := range n.Translations {
		out.Translations[k] = v
	}
	out.Attrs = make(AttrBag, len(n.Attrs))
	for k, v := range n.Attrs {
		out.Attrs[k] = v
	}
	return out
}

// JSON returns the canonical serialized form of the configuration, as embedded
// in the generated user-config virtual module. Map keys marshal sorted, so the
// output is deterministic for a given config.
func (c *SiteConfig) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
