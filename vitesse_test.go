package vitesse

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
)

func testSetupOptions(t *testing.T, raw map[string]any, plugins []Plugin) SetupOptions {
	t.Helper()
	return SetupOptions{
		RawConfig: raw,
		Plugins:   plugins,
		Build: BuildContext{
			Root:          t.TempDir(),
			SrcDir:        t.TempDir(),
			Output:        OutputHybrid,
			TrailingSlash: "ignore",
			Command:       "build",
		},
	}
}

func TestSetup_FullPass(t *testing.T) {
	srcDir := t.TempDir()
	localesDir := filepath.Join(srcDir, "content", "i18n")
	require.NoError(t, os.MkdirAll(localesDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(localesDir, "fr.json"),
		[]byte(`{"search.label": "Rechercher"}`), 0o644))

	decorator := Plugin{
		Name: "decorator",
		Setup: func(ctx context.Context, sc *SetupContext) error {
			if err := sc.UpdateConfig(map[string]any{"description": "decorated"}); err != nil {
				return err
			}
			if err := sc.AddIntegration(Integration{
				Name:  "decorator-integration",
				Hooks: map[string]Hook{HookSetup: func(ctx context.Context) error { return nil }},
			}); err != nil {
				return err
			}
			return sc.InjectTranslations(TranslationTable{
				"en": {"decorator.badge": "New"},
				"fr": {"decorator.badge": "Nouveau"},
			})
		},
	}

	opts := SetupOptions{
		RawConfig: map[string]any{
			"title": "Vitesse Docs",
			"locales": map[string]any{
				"en": map[string]any{"label": "English"},
				"fr": map[string]any{"label": "Français"},
			},
			"defaultLocale": "en",
		},
		Plugins: []Plugin{decorator},
		Build: BuildContext{
			Root:          srcDir,
			SrcDir:        srcDir,
			Output:        OutputHybrid,
			TrailingSlash: "ignore",
			Command:       "build",
		},
	}

	result, err := Setup(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "decorated", result.Config.Description)

	require.Len(t, result.Integrations, 1)
	assert.Equal(t, "decorator-integration", result.Integrations[0].Name)

	// Disk file overrides the builtin, plugin injection lands on top.
	fr := result.Translations.Locale("fr")
	assert.Equal(t, "Rechercher", fr.T("search.label"))
	assert.Equal(t, "Nouveau", fr.T("decorator.badge"))

	resolved, ok := result.Modules.Resolve(ModulePrefix + "plugin-translations")
	require.True(t, ok)
	src, ok := result.Modules.Load(resolved)
	require.True(t, ok)
	assert.Contains(t, src, "decorator.badge")

	decls := result.Modules.TypeDeclarations()
	require.Contains(t, decls, DeclarationFile)
	assert.Contains(t, decls[DeclarationFile], "\"decorator.badge\": string;")

	require.Len(t, result.Audit, 3)
	assert.Equal(t, "decorator", result.Audit[0].Plugin)
}

func TestSetup_InvalidConfigAborts(t *testing.T) {
	called := false
	probe := Plugin{
		Name: "probe",
		Setup: func(ctx context.Context, sc *SetupContext) error {
			called = true
			return nil
		},
	}

	_, err := Setup(context.Background(), testSetupOptions(t, map[string]any{}, []Plugin{probe}))
	require.Error(t, err)
	assert.False(t, called)

	te, ok := verrors.AsThemeError(err)
	require.True(t, ok)
	assert.Equal(t, verrors.CategoryValidation, te.Category)
	assert.Equal(t, "initial config", te.Context["context"])
}

func TestSetup_PrerenderConflict(t *testing.T) {
	disabler := Plugin{
		Name: "disabler",
		Setup: func(ctx context.Context, sc *SetupContext) error {
			return sc.UpdateConfig(map[string]any{"prerender": false})
		},
	}

	opts := testSetupOptions(t, map[string]any{"title": "Docs"}, []Plugin{disabler})
	opts.Build.Output = OutputStatic

	_, err := Setup(context.Background(), opts)
	require.Error(t, err)
	te, ok := verrors.AsThemeError(err)
	require.True(t, ok)
	assert.Equal(t, verrors.CategoryConflict, te.Category)
}

func TestLoadConfigFile_SplitsPlugins(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte("title: Docs\nplugins:\n  - alpha\n  - ./local.js\n"), 0o644))

	raw, specs, err := LoadConfigFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "Docs", raw["title"])
	assert.NotContains(t, raw, "plugins")
	assert.Equal(t, []string{"alpha", "./local.js"}, specs)
}
