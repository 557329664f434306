package schema

import (
	"fmt"
	"strings"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
)

// failure builds the single error shape all schema violations funnel through.
// The context label distinguishes "initial config" from per-plugin updates.
func failure(context, field, reason string) *verrors.ThemeError {
	msg := fmt.Sprintf("invalid configuration (%s): %s: %s", context, field, reason)
	return verrors.New(verrors.CategoryValidation, verrors.SeverityFatal, msg).
		WithContext("context", context).
		WithContext("field", field).
		WithContext("reason", reason)
}

// decodeConfig structurally decodes a raw value into a SiteConfig. Unknown
// top-level keys (including the reserved plugins key) are stripped; shape
// violations return a failure naming the exact field path. Prerender absence
// is reported separately so the defaults pass can distinguish unset from an
// explicit false.
func decodeConfig(raw any, context string) (*SiteConfig, bool, error) {
	if raw == nil {
		return nil, false, failure(context, "(root)", "configuration must be a mapping, got null")
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false, failure(context, "(root)", fmt.Sprintf("configuration must be a mapping, got %T", raw))
	}

	cfg := &SiteConfig{}
	prerenderSet := false

	for key, val := range m {
		switch key {
		case "title":
			s, err := asString(val, context, "title")
			if err != nil {
				return nil, false, err
			}
			cfg.Title = s
		case "description":
			s, err := asString(val, context, "description")
			if err != nil {
				return nil, false, err
			}
			cfg.Description = s
		case "nav":
			items, err := decodeNav(val, context)
			if err != nil {
				return nil, false, err
			}
			cfg.Nav = items
		case "locales":
			locales, err := decodeLocales(val, context)
			if err != nil {
				return nil, false, err
			}
			cfg.Locales = locales
		case "defaultLocale":
			s, err := asString(val, context, "defaultLocale")
			if err != nil {
				return nil, false, err
			}
			cfg.DefaultLocale = s
		case "customCss":
			css, err := decodeStringList(val, context, "customCss")
			if err != nil {
				return nil, false, err
			}
			cfg.CustomCSS = css
		case "logo":
			logo, err := decodeLogo(val, context)
			if err != nil {
				return nil, false, err
			}
			cfg.Logo = logo
		case "components":
			comps, err := decodeComponents(val, context)
			if err != nil {
				return nil, false, err
			}
			cfg.Components = comps
		case "prerender":
			if val == nil {
				continue
			}
			b, ok := val.(bool)
			if !ok {
				return nil, false, failure(context, "prerender", fmt.Sprintf("expected a boolean, got %T", val))
			}
			cfg.Prerender = b
			prerenderSet = true
		default:
			// Unknown keys are stripped, matching the normalizing decode the
			// rest of the pipeline depends on. The plugins key in particular
			// is never part of the validated configuration surface.
		}
	}

	return cfg, prerenderSet, nil
}

func decodeNav(val any, context string) ([]NavItem, error) {
	if val == nil {
		return nil, nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil, failure(context, "nav", fmt.Sprintf("expected a list, got %T", val))
	}
	items := make([]NavItem, 0, len(list))
	for i, entry := range list {
		item, err := decodeNavItem(entry, context, fmt.Sprintf("nav[%d]", i))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeNavItem(entry any, context, path string) (NavItem, error) {
	// Bare string shorthand: an internal item with only a slug.
	if s, ok := entry.(string); ok {
		if strings.TrimSpace(s) == "" {
			return NavItem{}, failure(context, path, "slug shorthand must not be empty")
		}
		return NavItem{Type: NavPage, Slug: s}, nil
	}

	m, ok := entry.(map[string]any)
	if !ok {
		return NavItem{}, failure(context, path, fmt.Sprintf("expected a mapping or string, got %T", entry))
	}

	item := NavItem{}

	if rawType, has := m["type"]; has {
		s, err := asString(rawType, context, path+".type")
		if err != nil {
			return NavItem{}, err
		}
		item.Type = NormalizeNavItemType(s)
		if item.Type == "" {
			return NavItem{}, failure(context, path+".type", fmt.Sprintf("unknown nav item type %q (allowed: link|page)", s))
		}
	} else if _, has := m["link"]; has {
		item.Type = NavLink
	} else if _, has := m["slug"]; has {
		item.Type = NavPage
	} else {
		return NavItem{}, failure(context, path, "nav item must have a link or a slug")
	}

	if raw, has := m["label"]; has {
		s, err := asString(raw, context, path+".label")
		if err != nil {
			return NavItem{}, err
		}
		item.Label = s
	}

	switch item.Type {
	case NavLink:
		raw, has := m["link"]
		if !has {
			return NavItem{}, failure(context, path+".link", "required for link items")
		}
		s, err := asString(raw, context, path+".link")
		if err != nil {
			return NavItem{}, err
		}
		item.Link = s

		if raw, has := m["translations"]; has {
			tr, err := decodeTranslations(raw, context, path+".translations")
			if err != nil {
				return NavItem{}, err
			}
			item.Translations = tr
		}
	case NavPage:
		raw, has := m["slug"]
		if !has {
			return NavItem{}, failure(context, path+".slug", "required for page items")
		}
		s, err := asString(raw, context, path+".slug")
		if err != nil {
			return NavItem{}, err
		}
		item.Slug = s
	}

	if raw, has := m["attrs"]; has {
		attrs, err := decodeAttrs(raw, context, path+".attrs")
		if err != nil {
			return NavItem{}, err
		}
		item.Attrs = attrs
	}

	return item, nil
}

// decodeAttrs sanitizes an HTML attribute bag. Only string, bool, and numeric
// values are accepted; numbers are canonicalized to float64 and nulls dropped.
func decodeAttrs(val any, context, path string) (AttrBag, error) {
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, failure(context, path, fmt.Sprintf("expected a mapping, got %T", val))
	}
	attrs := make(AttrBag, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		switch tv := v.(type) {
		case string:
			attrs[k] = tv
		case bool:
			attrs[k] = tv
		default:
			f, ok := canonicalNumber(v)
			if !ok {
				return nil, failure(context, path+"."+k, fmt.Sprintf("attribute values must be strings, numbers, or booleans, got %T", v))
			}
			attrs[k] = f
		}
	}
	return attrs, nil
}

func decodeTranslations(val any, context, path string) (map[string]string, error) {
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, failure(context, path, fmt.Sprintf("expected a mapping, got %T", val))
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, failure(context, path+"."+k, fmt.Sprintf("expected a string, got %T", v))
		}
		out[k] = s
	}
	return out, nil
}

func decodeLocales(val any, context string) (map[string]LocaleConfig, error) {
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, failure(context, "locales", fmt.Sprintf("expected a mapping, got %T", val))
	}
	out := make(map[string]LocaleConfig, len(m))
	for code, raw := range m {
		path := "locales." + code
		lm, ok := raw.(map[string]any)
		if !ok {
			return nil, failure(context, path, fmt.Sprintf("expected a mapping, got %T", raw))
		}
		lc := LocaleConfig{}
		if v, has := lm["label"]; has {
			s, err := asString(v, context, path+".label")
			if err != nil {
				return nil, err
			}
			lc.Label = s
		}
		if v, has := lm["lang"]; has {
			s, err := asString(v, context, path+".lang")
			if err != nil {
				return nil, err
			}
			lc.Lang = s
		}
		if v, has := lm["dir"]; has {
			s, err := asString(v, context, path+".dir")
			if err != nil {
				return nil, err
			}
			d := NormalizeTextDirection(s)
			if d == "" && strings.TrimSpace(s) != "" {
				return nil, failure(context, path+".dir", fmt.Sprintf("unknown text direction %q (allowed: ltr|rtl)", s))
			}
			lc.Dir = d
		}
		out[code] = lc
	}
	return out, nil
}

func decodeLogo(val any, context string) (*LogoConfig, error) {
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, failure(context, "logo", fmt.Sprintf("expected a mapping, got %T", val))
	}
	logo := &LogoConfig{}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"src", &logo.Src},
		{"light", &logo.Light},
		{"dark", &logo.Dark},
		{"alt", &logo.Alt},
	} {
		if v, has := m[f.key]; has {
			s, err := asString(v, context, "logo."+f.key)
			if err != nil {
				return nil, err
			}
			*f.dst = s
		}
	}
	if v, has := m["replacesTitle"]; has && v != nil {
		b, ok := v.(bool)
		if !ok {
			return nil, failure(context, "logo.replacesTitle", fmt.Sprintf("expected a boolean, got %T", v))
		}
		logo.ReplacesTitle = b
	}
	return logo, nil
}

func decodeComponents(val any, context string) (map[string]string, error) {
	if val == nil {
		return nil, nil
	}
	m, ok := val.(map[string]any)
	if !ok {
		return nil, failure(context, "components", fmt.Sprintf("expected a mapping, got %T", val))
	}
	out := make(map[string]string, len(m))
	for name, raw := range m {
		s, err := asString(raw, context, "components."+name)
		if err != nil {
			return nil, err
		}
		out[name] = s
	}
	return out, nil
}

func decodeStringList(val any, context, field string) ([]string, error) {
	if val == nil {
		return nil, nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil, failure(context, field, fmt.Sprintf("expected a list, got %T", val))
	}
	out := make([]string, 0, len(list))
	for i, entry := range list {
		s, err := asString(entry, context, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func asString(v any, context, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", failure(context, path, fmt.Sprintf("expected a string, got %T", v))
	}
	return s, nil
}

// canonicalNumber converts any Go numeric type to float64, the canonical
// numeric representation inside a validated config. JSON round trips decode
// numbers as float64, so canonicalizing here keeps re-validation idempotent.
func canonicalNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
