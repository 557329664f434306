// Package scripted loads plugins written as JavaScript setup scripts. A
// script runs in its own interpreter, declares a global name and a global
// setup function, and talks to the run through a bridged context object:
//
//	name = "banner";
//	function setup(ctx) {
//	    ctx.updateConfig({ description: "set from script" });
//	    ctx.injectTranslations({ en: { "banner.text": "hi" } });
//	    ctx.logger.info("banner configured");
//	}
//
// Script failures are plugin failures, fatal to the run, never panics.
package scripted

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/plugin"
)

// Load reads and evaluates a plugin script, returning the adapted plugin
// descriptor. The script body runs once here; its setup function runs later,
// when the runner reaches the plugin.
func Load(path string) (plugin.Plugin, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return plugin.Plugin{}, verrors.FileReadError(path, err)
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	if _, err := vm.RunScript(filepath.Base(path), string(src)); err != nil {
		return plugin.Plugin{}, verrors.PluginSetupError(scriptID(path), fmt.Errorf("script evaluation failed: %w", err))
	}

	name, err := scriptName(vm, path)
	if err != nil {
		return plugin.Plugin{}, err
	}

	setupVal := vm.Get("setup")
	setupFn, ok := goja.AssertFunction(setupVal)
	if !ok {
		return plugin.Plugin{}, verrors.PluginSetupError(name, fmt.Errorf("script must declare a global setup function"))
	}

	sp := &scriptPlugin{vm: vm, name: name, path: path, setup: setupFn}
	return plugin.Plugin{Name: name, Setup: sp.runSetup}, nil
}

// scriptPlugin owns one interpreter per script. The runner calls setup
// sequentially, so the interpreter is never entered concurrently.
type scriptPlugin struct {
	vm    *goja.Runtime
	name  string
	path  string
	setup goja.Callable
}

func scriptName(vm *goja.Runtime, path string) (string, error) {
	v := vm.Get("name")
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", verrors.PluginSetupError(scriptID(path), fmt.Errorf("script must declare a global name"))
	}
	name := strings.TrimSpace(v.String())
	if name == "" {
		return "", verrors.PluginSetupError(scriptID(path), fmt.Errorf("script name must not be blank"))
	}
	return name, nil
}

// scriptID identifies a script in errors before its declared name is known.
func scriptID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// ResolveAll turns plugin-list entries into loaded plugins. A path-like entry
// (relative, absolute, or with a script extension) loads from disk; anything
// else must name a plugin in the native registry.
func ResolveAll(specifiers []string, baseDir string) ([]plugin.Plugin, error) {
	plugins := make([]plugin.Plugin, 0, len(specifiers))
	for i, spec := range specifiers {
		p, err := resolve(spec, baseDir)
		if err != nil {
			return nil, verrors.ValidationFailedIn("plugin list", fmt.Sprintf("plugins[%d]", i), err.Error())
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func resolve(spec, baseDir string) (plugin.Plugin, error) {
	if isScriptPath(spec) {
		path := spec
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return Load(path)
	}
	p, err := plugin.Get(spec)
	if err != nil {
		return plugin.Plugin{}, fmt.Errorf("%q is neither a script path nor a registered plugin", spec)
	}
	return p, nil
}

func isScriptPath(spec string) bool {
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || filepath.IsAbs(spec) {
		return true
	}
	switch filepath.Ext(spec) {
	case ".js", ".mjs", ".cjs":
		return true
	}
	return false
}
