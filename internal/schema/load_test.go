package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadRaw_ReadsYAML(t *testing.T) {
	path := writeConfig(t, `
title: From Disk
description: yaml loads into an untyped map
prerender: false
`)

	raw, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "From Disk", raw["title"])
	assert.Equal(t, false, raw["prerender"])
}

func TestLoadRaw_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("VITESSE_SITE_TITLE", "Env Title")
	path := writeConfig(t, "title: ${VITESSE_SITE_TITLE}\n")

	raw, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, "Env Title", raw["title"])
}

func TestLoadRaw_MissingFile(t *testing.T) {
	_, err := LoadRaw(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, verrors.IsCategory(err, verrors.CategoryConfig))
}

func TestLoadRaw_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "title: [unclosed\n")
	_, err := LoadRaw(path)
	require.Error(t, err)
	assert.True(t, verrors.IsCategory(err, verrors.CategoryConfig))
}

func TestLoad_ValidatesLoadedConfig(t *testing.T) {
	path := writeConfig(t, `
title: Loaded Docs
nav:
  - guides/intro
  - label: GitHub
    link: https://github.com/org/repo
`)

	cfg, err := Load(path, "initial config")
	require.NoError(t, err)
	assert.Equal(t, "Loaded Docs", cfg.Title)
	assert.True(t, cfg.Prerender)
	require.Len(t, cfg.Nav, 2)
	assert.Equal(t, NavPage, cfg.Nav[0].Type)
	assert.Equal(t, NavLink, cfg.Nav[1].Type)
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "description: missing the title\n")
	_, err := Load(path, "initial config")
	require.Error(t, err)
	assert.True(t, verrors.IsCategory(err, verrors.CategoryValidation))
}

func TestSplitPlugins(t *testing.T) {
	t.Run("no plugins key", func(t *testing.T) {
		rest, paths, err := SplitPlugins(map[string]any{"title": "X"})
		require.NoError(t, err)
		assert.Empty(t, paths)
		assert.Equal(t, "X", rest["title"])
	})

	t.Run("plugin paths extracted", func(t *testing.T) {
		raw := map[string]any{
			"title":   "X",
			"plugins": []any{"./plugins/a.js", "./plugins/b.js"},
		}
		rest, paths, err := SplitPlugins(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"./plugins/a.js", "./plugins/b.js"}, paths)
		_, has := rest["plugins"]
		assert.False(t, has)
		assert.Equal(t, "X", rest["title"])
	})

	t.Run("non-list value rejected", func(t *testing.T) {
		_, _, err := SplitPlugins(map[string]any{"plugins": "./a.js"})
		require.Error(t, err)
		te, ok := verrors.AsThemeError(err)
		require.True(t, ok)
		assert.Equal(t, "plugins", te.Context["field"])
	})

	t.Run("non-string entry rejected", func(t *testing.T) {
		_, _, err := SplitPlugins(map[string]any{"plugins": []any{"./a.js", 7}})
		require.Error(t, err)
		te, ok := verrors.AsThemeError(err)
		require.True(t, ok)
		assert.Equal(t, "plugins[1]", te.Context["field"])
	})
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path, "initial config")
	require.NoError(t, err)
	assert.Equal(t, "My Documentation", cfg.Title)
	assert.Equal(t, "en", cfg.DefaultLocale)
	require.Len(t, cfg.Nav, 2)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := writeConfig(t, "title: existing\n")
	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
	cfg, err := Load(path, "initial config")
	require.NoError(t, err)
	assert.Equal(t, "My Documentation", cfg.Title)
}
