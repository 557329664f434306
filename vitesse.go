// Package vitesse exposes the documentation theming layer for host builds:
// configuration validation, ordered plugin execution, translation loading,
// and virtual-module generation. Use Setup for the full pass, or the aliased
// types to drive the stages individually.
package vitesse

import (
	"context"
	"log/slog"
	"time"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/host"
	"github.com/vitessedocs/vitesse/internal/i18n"
	"github.com/vitessedocs/vitesse/internal/metrics"
	"github.com/vitessedocs/vitesse/internal/plugin"
	"github.com/vitessedocs/vitesse/internal/plugin/scripted"
	"github.com/vitessedocs/vitesse/internal/schema"
	"github.com/vitessedocs/vitesse/internal/vmod"
)

type (
	SiteConfig   = schema.SiteConfig
	NavItem      = schema.NavItem
	LocaleConfig = schema.LocaleConfig
	LogoConfig   = schema.LogoConfig
	AttrBag      = schema.AttrBag

	Plugin       = plugin.Plugin
	SetupFunc    = plugin.SetupFunc
	SetupContext = plugin.SetupContext
	Mutation     = plugin.Mutation
	RunResult    = plugin.Result

	BuildContext  = host.BuildContext
	Integration   = host.Integration
	Hook          = host.Hook
	OutputFormat  = host.OutputFormat
	TrailingSlash = host.TrailingSlash

	TranslationTable = i18n.Table
	Translations     = i18n.Translations

	ModuleRegistry = vmod.Registry

	ThemeError    = verrors.ThemeError
	ErrorCategory = verrors.ErrorCategory

	Recorder = metrics.Recorder
)

const (
	OutputStatic = host.OutputStatic
	OutputHybrid = host.OutputHybrid
	OutputServer = host.OutputServer

	HookSetup      = host.HookSetup
	HookBuildStart = host.HookBuildStart
	HookBuildDone  = host.HookBuildDone

	ModulePrefix    = vmod.PublicPrefix
	DeclarationFile = vmod.DeclarationFile

	DefaultConfigFile = schema.DefaultConfigFile
)

// ValidateConfig validates an untyped configuration under the given context
// label.
func ValidateConfig(raw map[string]any, context string) (*SiteConfig, error) {
	return schema.Validate(raw, context)
}

// LoadConfigFile reads, interpolates, and splits a config file into the raw
// site configuration and the plugin specifier list.
func LoadConfigFile(path string) (raw map[string]any, pluginSpecs []string, err error) {
	full, err := schema.LoadRaw(path)
	if err != nil {
		return nil, nil, err
	}
	return schema.SplitPlugins(full)
}

// LoadPlugins resolves plugin specifiers to runnable plugins: script paths
// are evaluated, bare names looked up in the native registry.
func LoadPlugins(specs []string, baseDir string) ([]Plugin, error) {
	return scripted.ResolveAll(specs, baseDir)
}

// RegisterPlugin adds a native plugin to the process-wide registry so config
// files can reference it by name.
func RegisterPlugin(p Plugin) error {
	return plugin.Register(p)
}

// SetupOptions carries the inputs of a full theming pass.
type SetupOptions struct {
	// RawConfig is the untyped site configuration, plugins key already split
	// off (see LoadConfigFile).
	RawConfig map[string]any

	// Plugins is the ordered plugin list.
	Plugins []Plugin

	// Build describes the invoking host build.
	Build BuildContext

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Metrics defaults to the no-op recorder.
	Metrics Recorder
}

// SetupResult is the outcome of a completed pass.
type SetupResult struct {
	RunID        string
	Config       *SiteConfig
	Integrations []Integration
	Translations *Translations
	Modules      *ModuleRegistry
	Audit        []Mutation
	Duration     time.Duration
}

// Setup runs the full theming pass: validate the configuration, execute the
// plugins in order, load and merge translations, and generate the virtual
// modules. Any validation failure or plugin invariant violation aborts the
// pass with no partial result.
func Setup(ctx context.Context, opts SetupOptions) (*SetupResult, error) {
	runner := plugin.NewRunner(opts.Logger, opts.Metrics)
	run, err := runner.Run(ctx, plugin.RunRequest{
		RawConfig: opts.RawConfig,
		Plugins:   opts.Plugins,
		Build:     opts.Build,
	})
	if err != nil {
		return nil, err
	}

	translations, err := i18n.Load(run.Config, opts.Build.SrcDir, run.Translations)
	if err != nil {
		return nil, err
	}

	generator := vmod.NewGenerator(opts.Logger, opts.Metrics)
	modules, err := generator.Build(ctx, run.Config, opts.Build, run.Translations)
	if err != nil {
		return nil, err
	}

	return &SetupResult{
		RunID:        run.RunID,
		Config:       run.Config,
		Integrations: run.Integrations,
		Translations: translations,
		Modules:      modules,
		Audit:        run.Audit,
		Duration:     run.Duration,
	}, nil
}
