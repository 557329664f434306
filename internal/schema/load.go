package schema

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
)

// DefaultConfigFile is the conventional site configuration file name.
const DefaultConfigFile = "vitesse.yaml"

// LoadRaw reads a site configuration file into the untyped mapping the
// validator consumes. Environment variables referenced as ${VAR} are expanded
// after loading .env/.env.local (existing process env always wins).
func LoadRaw(configPath string) (map[string]any, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, verrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, verrors.FileReadError(configPath, err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, verrors.Wrap(err, verrors.CategoryConfig, verrors.SeverityFatal, "failed to parse configuration file").
			WithContext("path", configPath)
	}
	return raw, nil
}

// Load reads and fully validates a site configuration file.
func Load(configPath, context string) (*SiteConfig, error) {
	raw, err := LoadRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Validate(raw, context)
}

// SplitPlugins removes the reserved plugins key from a raw config map,
// returning the remaining config and the listed plugin script paths. The
// plugin list is handed to the runtime separately and is never part of the
// validated configuration surface.
func SplitPlugins(raw map[string]any) (map[string]any, []string, error) {
	val, has := raw["plugins"]
	if !has || val == nil {
		return raw, nil, nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil, nil, failure("initial config", "plugins", fmt.Sprintf("expected a list, got %T", val))
	}
	paths := make([]string, 0, len(list))
	for i, entry := range list {
		s, ok := entry.(string)
		if !ok {
			return nil, nil, failure("initial config", fmt.Sprintf("plugins[%d]", i), fmt.Sprintf("expected a script path string, got %T", entry))
		}
		paths = append(paths, s)
	}
	rest := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "plugins" {
			continue
		}
		rest[k] = v
	}
	return rest, paths, nil
}

// loadEnvFiles loads .env/.env.local if present. godotenv never overrides
// variables already set in the process environment.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("could not load env file", "path", envPath, "error", err)
			continue
		}
		slog.Debug("loaded environment variables", "path", envPath)
	}
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := SiteConfig{
		Title:       "My Documentation",
		Description: "Documentation built with vitesse",
		Nav: []NavItem{
			{Type: NavPage, Slug: "guides/getting-started", Label: "Getting Started", Translations: map[string]string{}, Attrs: AttrBag{}},
			{Type: NavLink, Label: "GitHub", Link: "https://github.com/your-org/your-repo", Translations: map[string]string{}, Attrs: AttrBag{"target": "_blank"}},
		},
		Locales: map[string]LocaleConfig{
			"en": {Label: "English", Dir: DirLTR},
		},
		DefaultLocale: "en",
		CustomCSS:     []string{"./src/styles/custom.css"},
		Components:    map[string]string{},
		Prerender:     true,
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	// The plugins key is consumed by the runtime, not the schema; document it
	// alongside the generated example.
	data = append(data, []byte("# plugins:\n#   - ./plugins/my-plugin.js\n")...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
