package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestThemeError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ThemeError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestThemeError_WithContext(t *testing.T) {
	err := New(CategoryPlugin, SeverityWarning, "setup failed").
		WithContext("plugin", "sitemap").
		WithContext("step", "config")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["plugin"] != "sitemap" {
		t.Errorf("Context[plugin] = %v, want sitemap", err.Context["plugin"])
	}

	if err.Context["step"] != "config" {
		t.Errorf("Context[step] = %v, want config", err.Context["step"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	pluginErr := New(CategoryPlugin, SeverityWarning, "plugin error")
	wrappedErr := fmt.Errorf("runner: %w", New(CategoryInvariant, SeverityFatal, "plugins list touched"))
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"config error matches config category", configErr, CategoryConfig, true},
		{"config error doesn't match plugin category", configErr, CategoryPlugin, false},
		{"plugin error matches plugin category", pluginErr, CategoryPlugin, true},
		{"wrapped error still matches its category", wrappedErr, CategoryInvariant, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestGetCategory(t *testing.T) {
	if got := GetCategory(New(CategoryConflict, SeverityFatal, "conflict")); got != CategoryConflict {
		t.Errorf("GetCategory() = %v, want %v", got, CategoryConflict)
	}
	if got := GetCategory(fmt.Errorf("plain")); got != CategoryInternal {
		t.Errorf("GetCategory() = %v, want %v", got, CategoryInternal)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/vitesse.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/vitesse.yaml" {
			t.Errorf("Context[path] = %v, want /path/to/vitesse.yaml", err.Context["path"])
		}
	})

	t.Run("PluginSetupError", func(t *testing.T) {
		cause := fmt.Errorf("boom")
		err := PluginSetupError("analytics", cause)
		if err.Category != CategoryPlugin {
			t.Errorf("Category = %v, want %v", err.Category, CategoryPlugin)
		}
		if err.Context["plugin"] != "analytics" {
			t.Errorf("Context[plugin] = %v, want analytics", err.Context["plugin"])
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("defaultLocale", "unsupported value")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["field"] != "defaultLocale" {
			t.Errorf("Context[field] = %v, want defaultLocale", err.Context["field"])
		}
		if err.Context["reason"] != "unsupported value" {
			t.Errorf("Context[reason] = %v, want unsupported value", err.Context["reason"])
		}
	})

	t.Run("PrerenderConflict", func(t *testing.T) {
		err := PrerenderConflict("static")
		if err.Category != CategoryConflict {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConflict)
		}
		if err.Context["output"] != "static" {
			t.Errorf("Context[output] = %v, want static", err.Context["output"])
		}
	})
}
