package scripted

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/host"
	"github.com/vitessedocs/vitesse/internal/i18n"
	"github.com/vitessedocs/vitesse/internal/plugin"
)

// runSetup invokes the script's setup function with the bridged context
// object. Context cancellation interrupts the interpreter.
func (sp *scriptPlugin) runSetup(ctx context.Context, sc *plugin.SetupContext) error {
	obj := sp.contextObject(sc)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			sp.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	_, err := sp.setup(goja.Undefined(), obj)
	close(done)
	sp.vm.ClearInterrupt()

	if err == nil {
		return nil
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) && ctx.Err() != nil {
		return ctx.Err()
	}

	// A mutator error thrown into the script and left uncaught comes back
	// wrapped in a goja exception; surface the original where possible.
	var ex *goja.Exception
	if errors.As(err, &ex) {
		if cause, ok := ex.Value().Export().(error); ok {
			if _, isStructured := verrors.AsThemeError(cause); isStructured {
				return cause
			}
			return verrors.PluginSetupError(sp.name, cause)
		}
	}
	return verrors.PluginSetupError(sp.name, err)
}

// contextObject builds the ctx value handed to the script's setup function.
func (sp *scriptPlugin) contextObject(sc *plugin.SetupContext) *goja.Object {
	vm := sp.vm
	build := sc.Build()

	obj := vm.NewObject()
	_ = obj.Set("config", sc.Config())
	_ = obj.Set("command", sc.Command())
	_ = obj.Set("restart", sc.Restart())
	_ = obj.Set("build", map[string]any{
		"root":          build.Root,
		"srcDir":        build.SrcDir,
		"output":        string(build.Output),
		"trailingSlash": string(build.TrailingSlash),
	})

	_ = obj.Set("updateConfig", func(partial map[string]any) error {
		return sc.UpdateConfig(partial)
	})
	_ = obj.Set("addIntegration", func(v goja.Value) error {
		integ, err := sp.integrationFromValue(v)
		if err != nil {
			return err
		}
		return sc.AddIntegration(integ)
	})
	_ = obj.Set("injectTranslations", func(fragments map[string]any) error {
		table, err := tableFromExport(fragments)
		if err != nil {
			return err
		}
		return sc.InjectTranslations(table)
	})
	_ = obj.Set("logger", sp.loggerObject(sc))
	return obj
}

// integrationFromValue converts a script-side {name, hooks} object. Hook
// functions are wrapped so the host can invoke them later; the host build runs
// hooks on a single goroutine, which keeps the interpreter single-entrant.
func (sp *scriptPlugin) integrationFromValue(v goja.Value) (host.Integration, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return host.Integration{}, fmt.Errorf("integration must be an object with a name")
	}
	obj := v.ToObject(sp.vm)

	name := ""
	if nv := obj.Get("name"); nv != nil && !goja.IsUndefined(nv) && !goja.IsNull(nv) {
		name = nv.String()
	}

	hooks := map[string]host.Hook{}
	if hv := obj.Get("hooks"); hv != nil && !goja.IsUndefined(hv) && !goja.IsNull(hv) {
		hobj := hv.ToObject(sp.vm)
		for _, key := range hobj.Keys() {
			fn, ok := goja.AssertFunction(hobj.Get(key))
			if !ok {
				return host.Integration{}, fmt.Errorf("hook %q is not a function", key)
			}
			hooks[key] = func(context.Context) error {
				_, err := fn(goja.Undefined())
				return err
			}
		}
	}
	return host.Integration{Name: name, Hooks: hooks}, nil
}

// tableFromExport converts an exported {locale: {key: string}} object,
// rejecting non-string message values.
func tableFromExport(fragments map[string]any) (i18n.Table, error) {
	table := i18n.Table{}
	for locale, entry := range fragments {
		msgs, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("locale %q: expected an object of message strings", locale)
		}
		out := make(map[string]string, len(msgs))
		for k, v := range msgs {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("locale %q, key %q: expected a string value", locale, k)
			}
			out[k] = s
		}
		table[locale] = out
	}
	return table, nil
}

func (sp *scriptPlugin) loggerObject(sc *plugin.SetupContext) *goja.Object {
	logger := sc.Logger()
	obj := sp.vm.NewObject()
	_ = obj.Set("debug", func(msg string) { logger.Debug(msg) })
	_ = obj.Set("info", func(msg string) { logger.Info(msg) })
	_ = obj.Set("warn", func(msg string) { logger.Warn(msg) })
	_ = obj.Set("error", func(msg string) { logger.Error(msg) })
	return obj
}
