package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/schema"
)

func writeLocaleFile(t *testing.T, srcDir, name, content string) {
	t.Helper()
	dir := filepath.Join(srcDir, "content", "i18n")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func multiLocaleConfig(t *testing.T) *schema.SiteConfig {
	t.Helper()
	cfg, err := schema.Validate(map[string]any{
		"title": "Docs",
		"locales": map[string]any{
			"en": map[string]any{"label": "English"},
			"fr": map[string]any{"label": "Français"},
		},
		"defaultLocale": "en",
	}, "initial config")
	require.NoError(t, err)
	return cfg
}

func TestLoadDir_MissingDirectoryIsEmpty(t *testing.T) {
	table, err := LoadDir(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestLoadDir_ReadsLocaleFiles(t *testing.T) {
	srcDir := t.TempDir()
	writeLocaleFile(t, srcDir, "en.json", `{"search.label": "Find"}`)
	writeLocaleFile(t, srcDir, "fr.json", `{"search.label": "Rechercher"}`)
	writeLocaleFile(t, srcDir, "notes.txt", "ignored")

	table, err := LoadDir(srcDir)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "Find", table["en"]["search.label"])
	assert.Equal(t, "Rechercher", table["fr"]["search.label"])
}

func TestLoadDir_MalformedJSONPropagatesUnchanged(t *testing.T) {
	srcDir := t.TempDir()
	writeLocaleFile(t, srcDir, "en.json", `{"broken":`)

	_, err := LoadDir(srcDir)
	require.Error(t, err)
	_, isThemeErr := verrors.AsThemeError(err)
	assert.False(t, isThemeErr, "parse failures carry the raw decoder error")
}

func TestLoad_MergeOrder(t *testing.T) {
	srcDir := t.TempDir()
	writeLocaleFile(t, srcDir, "en.json", `{"search.label": "Find", "site.tagline": "From disk"}`)

	plugin := Table{"en": {"search.label": "Plugin wins"}}

	tr, err := Load(multiLocaleConfig(t), srcDir, plugin)
	require.NoError(t, err)

	en := tr.Locale("en")
	assert.Equal(t, "Plugin wins", en.T("search.label"))
	assert.Equal(t, "From disk", en.T("site.tagline"))
	assert.Equal(t, "On this page", en.T("toc.title"), "built-in keys survive underneath")
}

func TestLoad_PropagatesDiskErrors(t *testing.T) {
	srcDir := t.TempDir()
	writeLocaleFile(t, srcDir, "en.json", `[1, 2]`)

	_, err := Load(multiLocaleConfig(t), srcDir, nil)
	require.Error(t, err)
}

func TestAccessor_FallbackChain(t *testing.T) {
	srcDir := t.TempDir()
	writeLocaleFile(t, srcDir, "fr.json", `{"page.nextLink": "Suivant"}`)
	writeLocaleFile(t, srcDir, "en.json", `{"page.nextLink": "Onwards", "site.tagline": "Default only"}`)

	tr, err := Load(multiLocaleConfig(t), srcDir, nil)
	require.NoError(t, err)

	fr := tr.Locale("fr")
	assert.Equal(t, "Suivant", fr.T("page.nextLink"), "own locale first")
	assert.Equal(t, "Default only", fr.T("site.tagline"), "default locale second")
	assert.Equal(t, "On this page", fr.T("toc.title"), "built-in English last")
	assert.Equal(t, "", fr.T("no.such.key"))

	_, found := fr.Lookup("no.such.key")
	assert.False(t, found)

	assert.True(t, fr.Has("page.nextLink"))
	assert.False(t, fr.Has("toc.title"), "Has ignores the fallback chain")
}

func TestTranslations_Resolve(t *testing.T) {
	tr, err := Load(multiLocaleConfig(t), t.TempDir(), nil)
	require.NoError(t, err)

	tests := []struct {
		requested string
		want      string
	}{
		{"en", "en"},
		{"fr", "fr"},
		{"en-US", "en"},
		{"fr-CA", "fr"},
		{"de", "en"},
		{"not a tag!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Resolve(tt.requested))
		})
	}
}

func TestTranslations_LocalesSortedAndTableShared(t *testing.T) {
	srcDir := t.TempDir()
	writeLocaleFile(t, srcDir, "fr.json", `{}`)

	tr, err := Load(multiLocaleConfig(t), srcDir, Table{"de": {"search.label": "Suche"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "en", "fr"}, tr.Locales())
	assert.Equal(t, "Suche", tr.Table()["de"]["search.label"])
	assert.Equal(t, "en", tr.DefaultLocale())
}

func TestLoad_NilConfigUsesBuiltinLocale(t *testing.T) {
	tr, err := Load(nil, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, BuiltinLocale, tr.DefaultLocale())
	assert.Equal(t, "Search", tr.Locale("en").T("search.label"))
}
