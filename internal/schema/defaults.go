package schema

import "fmt"

// DefaultLocaleCode is applied when a monolingual config omits defaultLocale.
const DefaultLocaleCode = "en"

// ConfigDefaultApplier applies defaults for a specific configuration domain.
// Appliers are pure: same input config, same output config, no side effects,
// so re-validation after a plugin merge stays deterministic.
type ConfigDefaultApplier interface {
	ApplyDefaults(cfg *SiteConfig) error
	Domain() string
}

// GeneralDefaultApplier handles top-level scalar defaults.
type GeneralDefaultApplier struct{}

func (GeneralDefaultApplier) Domain() string { return "general" }

func (GeneralDefaultApplier) ApplyDefaults(cfg *SiteConfig) error {
	if cfg.DefaultLocale == "" && len(cfg.Locales) == 0 {
		cfg.DefaultLocale = DefaultLocaleCode
	}
	return nil
}

// NavDefaultApplier fills the always-present collections on nav items.
type NavDefaultApplier struct{}

func (NavDefaultApplier) Domain() string { return "nav" }

func (NavDefaultApplier) ApplyDefaults(cfg *SiteConfig) error {
	if cfg.Nav == nil {
		cfg.Nav = []NavItem{}
	}
	for i := range cfg.Nav {
		if cfg.Nav[i].Translations == nil {
			cfg.Nav[i].Translations = map[string]string{}
		}
		if cfg.Nav[i].Attrs == nil {
			cfg.Nav[i].Attrs = AttrBag{}
		}
	}
	return nil
}

// LocaleDefaultApplier normalizes locale entries.
type LocaleDefaultApplier struct{}

func (LocaleDefaultApplier) Domain() string { return "locales" }

func (LocaleDefaultApplier) ApplyDefaults(cfg *SiteConfig) error {
	if cfg.Locales == nil {
		cfg.Locales = map[string]LocaleConfig{}
	}
	for code, lc := range cfg.Locales {
		if lc.Dir == "" {
			lc.Dir = DirLTR
		}
		cfg.Locales[code] = lc
	}
	return nil
}

// CollectionDefaultApplier fills remaining nil collections so the serialized
// config shape is stable.
type CollectionDefaultApplier struct{}

func (CollectionDefaultApplier) Domain() string { return "collections" }

func (CollectionDefaultApplier) ApplyDefaults(cfg *SiteConfig) error {
	if cfg.CustomCSS == nil {
		cfg.CustomCSS = []string{}
	}
	if cfg.Components == nil {
		cfg.Components = map[string]string{}
	}
	return nil
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []ConfigDefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []ConfigDefaultApplier{
			GeneralDefaultApplier{},
			NavDefaultApplier{},
			LocaleDefaultApplier{},
			CollectionDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *SiteConfig) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}
