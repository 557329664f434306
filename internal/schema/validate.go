package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
)

// Validate runs the full validation pipeline on a raw configuration value:
// structural decode, defaults/normalization, then semantic validation. The
// context label is carried into every failure so callers can distinguish
// "initial config" from a config re-validated after a plugin update.
func Validate(raw any, context string) (*SiteConfig, error) {
	cfg, prerenderSet, err := decodeConfig(raw, context)
	if err != nil {
		return nil, err
	}
	if !prerenderSet {
		cfg.Prerender = true
	}
	if err := NewDefaultApplier().ApplyDefaults(cfg); err != nil {
		return nil, verrors.InternalError("applying configuration defaults", err)
	}
	if err := validateConfig(cfg, context); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig validates the decoded, normalized configuration structure.
func validateConfig(cfg *SiteConfig, context string) error {
	return newConfigurationValidator(cfg, context).validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config  *SiteConfig
	context string
}

// newConfigurationValidator creates a comprehensive configuration validator.
func newConfigurationValidator(cfg *SiteConfig, context string) *configurationValidator {
	return &configurationValidator{config: cfg, context: context}
}

// validate performs comprehensive configuration validation using domain-specific methods.
func (cv *configurationValidator) validate() error {
	// Declarative leaf constraints first, then cross-field domain checks
	if err := cv.validateLeaves(); err != nil {
		return err
	}
	if err := cv.validateNav(); err != nil {
		return err
	}
	if err := cv.validateLocales(); err != nil {
		return err
	}
	if err := cv.validateLogo(); err != nil {
		return err
	}
	if err := cv.validateComponents(); err != nil {
		return err
	}
	if err := cv.validateCustomCSS(); err != nil {
		return err
	}
	return nil
}

// leafValidate checks declarative per-field constraints (required, url,
// bcp47_language_tag, oneof) declared as struct tags.
var leafValidate = newLeafValidator()

func newLeafValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field paths with their serialized names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (cv *configurationValidator) validateLeaves() error {
	err := leafValidate.Struct(cv.config)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return verrors.InternalError("leaf validation", err)
	}
	fe := errs[0]
	return failure(cv.context, leafFieldPath(fe.Namespace()), leafReason(fe))
}

// leafFieldPath strips the root struct name from a validator namespace,
// turning "SiteConfig.nav[0].link" into "nav[0].link".
func leafFieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func leafReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return fmt.Sprintf("%q must be a valid URL", fe.Value())
	case "bcp47_language_tag":
		return fmt.Sprintf("%q must be a valid BCP-47 language tag", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s constraint", fe.Tag())
	}
}

// validateNav enforces the per-shape nav item rules the static tags cannot express.
func (cv *configurationValidator) validateNav() error {
	for i, item := range cv.config.Nav {
		path := fmt.Sprintf("nav[%d]", i)
		switch item.Type {
		case NavLink:
			if strings.TrimSpace(item.Label) == "" {
				return failure(cv.context, path+".label", "required for link items")
			}
			if strings.TrimSpace(item.Link) == "" {
				return failure(cv.context, path+".link", "must not be empty")
			}
		case NavPage:
			if strings.TrimSpace(item.Slug) == "" {
				return failure(cv.context, path+".slug", "must not be empty")
			}
		default:
			return failure(cv.context, path+".type", fmt.Sprintf("unknown nav item type %q", string(item.Type)))
		}
	}
	return nil
}

// validateLocales checks locale codes are parseable BCP-47 tags and that the
// default locale is a configured member when locales are present.
func (cv *configurationValidator) validateLocales() error {
	for code := range cv.config.Locales {
		if _, err := language.Parse(code); err != nil {
			return failure(cv.context, "locales."+code, fmt.Sprintf("%q must be a valid BCP-47 language tag", code))
		}
	}

	if len(cv.config.Locales) == 0 {
		return nil
	}
	if cv.config.DefaultLocale == "" {
		return failure(cv.context, "defaultLocale", "required when locales are configured")
	}
	if _, ok := cv.config.Locales[cv.config.DefaultLocale]; !ok {
		return failure(cv.context, "defaultLocale", fmt.Sprintf("%q is not a configured locale", cv.config.DefaultLocale))
	}
	return nil
}

// validateLogo enforces the mutually exclusive single-image vs light/dark pair shapes.
func (cv *configurationValidator) validateLogo() error {
	logo := cv.config.Logo
	if logo == nil {
		return nil
	}
	single := logo.Src != ""
	partial := logo.Light != "" || logo.Dark != ""
	pair := logo.Light != "" && logo.Dark != ""

	if single && partial {
		return failure(cv.context, "logo", "src and light/dark are mutually exclusive shapes")
	}
	if !single && !pair {
		return failure(cv.context, "logo", "either src or both light and dark are required")
	}
	return nil
}

// validateComponents checks override names look like component identifiers and
// paths are present.
func (cv *configurationValidator) validateComponents() error {
	for name, path := range cv.config.Components {
		if !isComponentName(name) {
			return failure(cv.context, "components."+name, "component names must start with an uppercase letter and contain only letters and digits")
		}
		if strings.TrimSpace(path) == "" {
			return failure(cv.context, "components."+name, "path must not be empty")
		}
	}
	return nil
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (cv *configurationValidator) validateCustomCSS() error {
	for i, ref := range cv.config.CustomCSS {
		if strings.TrimSpace(ref) == "" {
			return failure(cv.context, fmt.Sprintf("customCss[%d]", i), "must not be empty")
		}
	}
	return nil
}
