package plugin

import (
	"context"
	"testing"
)

func namedPlugin(name string) Plugin {
	return Plugin{Name: name, Setup: func(context.Context, *SetupContext) error { return nil }}
}

// TestRegistryRegister tests plugin registration.
func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(namedPlugin("reading-time")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if !registry.Has("reading-time") {
		t.Error("Plugin should be registered")
	}

	// Duplicate names are rejected
	if err := registry.Register(namedPlugin("reading-time")); err == nil {
		t.Error("Should not allow duplicate registration")
	}
}

// TestRegistryRegisterInvalid tests registering malformed descriptors.
func TestRegistryRegisterInvalid(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(Plugin{Name: "", Setup: func(context.Context, *SetupContext) error { return nil }}); err == nil {
		t.Error("Should reject a blank name")
	}

	if err := registry.Register(Plugin{Name: "no-setup"}); err == nil {
		t.Error("Should reject a nil setup callback")
	}

	if registry.Count() != 0 {
		t.Errorf("Count() = %d, want 0", registry.Count())
	}
}

// TestRegistryGet tests plugin retrieval.
func TestRegistryGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(namedPlugin("sitemap")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	p, err := registry.Get("sitemap")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if p.Name != "sitemap" {
		t.Errorf("Get() returned %q, want %q", p.Name, "sitemap")
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Error("Get() should fail for unknown plugin")
	}
}

// TestRegistryNames tests sorted name listing.
func TestRegistryNames(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(namedPlugin(name)); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	names := registry.Names()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names() returned %d entries, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

// TestRegistryUnregister tests plugin removal.
func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(namedPlugin("temp")); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	if err := registry.Unregister("temp"); err != nil {
		t.Fatalf("Unregister() failed: %v", err)
	}
	if registry.Has("temp") {
		t.Error("Plugin should be unregistered")
	}

	if err := registry.Unregister("temp"); err == nil {
		t.Error("Unregister() should fail for unknown plugin")
	}
}

// TestRegistryClear tests clearing all plugins.
func TestRegistryClear(t *testing.T) {
	registry := NewRegistry()
	_ = registry.Register(namedPlugin("one"))
	_ = registry.Register(namedPlugin("two"))

	registry.Clear()

	if registry.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", registry.Count())
	}
}
