package plugin

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/host"
	"github.com/vitessedocs/vitesse/internal/i18n"
	"github.com/vitessedocs/vitesse/internal/schema"
)

// PluginsKey is the reserved configuration key naming the plugin list. Plugins
// see it in their config snapshot but may never write it.
const PluginsKey = "plugins"

// runState is the mutable state of one run. Owned by the runner goroutine;
// plugins reach it only through SetupContext methods, never concurrently.
type runState struct {
	build        host.BuildContext
	pluginNames  []string
	working      map[string]any
	validated    *schema.SiteConfig
	added        []host.Integration
	translations i18n.Table
	audit        []Mutation
	failure      error
}

// fail records the first fatal mutation error. The runner aborts on it even if
// the plugin swallows the returned error.
func (s *runState) fail(err error) {
	if s.failure == nil {
		s.failure = err
	}
}

func (s *runState) record(plugin string, kind MutationKind, detail string, rejected bool) {
	s.audit = append(s.audit, Mutation{Plugin: plugin, Kind: kind, Detail: detail, Rejected: rejected})
}

// SetupContext is the view a plugin's setup callback gets of the run. All
// reads return copies; all writes go through the runner-owned state so they
// are validated, ordered, and audited.
type SetupContext struct {
	plugin string
	logger *slog.Logger
	state  *runState
}

// PluginName returns the name of the plugin this context belongs to.
func (sc *SetupContext) PluginName() string { return sc.plugin }

// Logger returns the per-plugin named logger.
func (sc *SetupContext) Logger() *slog.Logger { return sc.logger }

// Command returns the host invocation command ("dev", "build", ...).
func (sc *SetupContext) Command() string { return sc.state.build.Command }

// Restart reports whether this run is a dev-server restart pass.
func (sc *SetupContext) Restart() bool { return sc.state.build.Restart }

// Build returns a snapshot of the host build context. Its integrations list
// includes integrations added by earlier plugins in this run.
func (sc *SetupContext) Build() host.BuildContext {
	return sc.state.build.Snapshot(sc.state.added)
}

// Config returns a deep copy of the current working user config with the full
// plugin list re-attached under the reserved key, so a plugin can see what
// else is configured without being able to touch the real list.
func (sc *SetupContext) Config() map[string]any {
	snapshot := cloneRaw(sc.state.working)
	names := make([]string, len(sc.state.pluginNames))
	copy(names, sc.state.pluginNames)
	snapshot[PluginsKey] = names
	return snapshot
}

// ValidatedConfig returns a deep copy of the current validated configuration.
func (sc *SetupContext) ValidatedConfig() *schema.SiteConfig {
	return sc.state.validated.Clone()
}

// UpdateConfig shallow-merges partial into the working user config and
// re-validates the result. The merged config only takes effect if validation
// passes. Writing the reserved plugins key is an invariant violation fatal to
// the whole run, as is a merge result that fails validation.
func (sc *SetupContext) UpdateConfig(partial map[string]any) error {
	if sc.state.failure != nil {
		return sc.state.failure
	}
	if _, has := partial[PluginsKey]; has {
		err := verrors.PluginListTampered(sc.plugin)
		sc.state.record(sc.plugin, MutationConfig, "attempted to modify the plugin list", true)
		sc.state.fail(err)
		return err
	}

	merged := cloneRaw(sc.state.working)
	keys := make([]string, 0, len(partial))
	for k, v := range partial {
		merged[k] = cloneValue(v)
		keys = append(keys, k)
	}
	sort.Strings(keys)

	validated, err := schema.Validate(merged, fmt.Sprintf("config after plugin update (%s)", sc.plugin))
	if err != nil {
		if te, ok := verrors.AsThemeError(err); ok {
			te.WithContext("plugin", sc.plugin)
		}
		sc.state.record(sc.plugin, MutationConfig, fmt.Sprintf("rejected update of %s", strings.Join(keys, ", ")), true)
		sc.state.fail(err)
		return err
	}

	sc.state.working = merged
	sc.state.validated = validated
	sc.state.record(sc.plugin, MutationConfig, fmt.Sprintf("updated %s", strings.Join(keys, ", ")), false)
	sc.logger.Debug("config updated", "keys", keys)
	return nil
}

// AddIntegration appends an integration to the run's accumulated list after a
// minimal shape check. A malformed integration is returned as an error but
// does not abort the run unless the plugin propagates it.
func (sc *SetupContext) AddIntegration(integ host.Integration) error {
	if sc.state.failure != nil {
		return sc.state.failure
	}
	if err := integ.Validate(); err != nil {
		return verrors.IntegrationInvalid(sc.plugin, err.Error())
	}
	sc.state.added = append(sc.state.added, integ)
	sc.state.record(sc.plugin, MutationIntegration, fmt.Sprintf("added integration %q", integ.Name), false)
	sc.logger.Debug("integration added", "integration", integ.Name)
	return nil
}

// InjectTranslations merges per-locale message fragments into the run's
// accumulated translation table. Locale entries are created on first use and
// later keys overwrite earlier ones; an empty fragment never creates a locale.
func (sc *SetupContext) InjectTranslations(fragments i18n.Table) error {
	if sc.state.failure != nil {
		return sc.state.failure
	}
	locales := make([]string, 0, len(fragments))
	for locale, msgs := range fragments {
		if len(msgs) == 0 {
			continue
		}
		entry, ok := sc.state.translations[locale]
		if !ok {
			entry = make(map[string]string, len(msgs))
			sc.state.translations[locale] = entry
		}
		for k, v := range msgs {
			entry[k] = v
		}
		locales = append(locales, locale)
	}
	if len(locales) == 0 {
		return nil
	}
	sort.Strings(locales)
	sc.state.record(sc.plugin, MutationTranslations, fmt.Sprintf("injected translations for %s", strings.Join(locales, ", ")), false)
	return nil
}

// cloneRaw deep-copies an untyped config mapping.
func cloneRaw(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneRaw(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
