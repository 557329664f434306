package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/host"
	"github.com/vitessedocs/vitesse/internal/i18n"
	"github.com/vitessedocs/vitesse/internal/logfields"
	"github.com/vitessedocs/vitesse/internal/metrics"
	"github.com/vitessedocs/vitesse/internal/observability"
	"github.com/vitessedocs/vitesse/internal/schema"
)

// Runner executes plugin runs. A Runner is reusable; every run owns its own
// state and plugins within a run never execute concurrently.
type Runner struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewRunner creates a runner. A nil logger falls back to slog.Default, a nil
// recorder to the no-op recorder.
func NewRunner(logger *slog.Logger, recorder metrics.Recorder) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Runner{logger: logger, recorder: recorder}
}

// RunRequest carries the inputs of one plugin run.
type RunRequest struct {
	// RawConfig is the untyped user configuration, without the reserved
	// plugins key (see schema.SplitPlugins).
	RawConfig map[string]any

	// Plugins is the ordered plugin list for this run.
	Plugins []Plugin

	// Build describes the invoking host build.
	Build host.BuildContext
}

// Result is the output of a completed run. Integrations holds only the
// integrations plugins added in this run, ready to merge into the host's own
// list; Translations holds only plugin-injected fragments.
type Result struct {
	RunID        string
	Config       *schema.SiteConfig
	Integrations []host.Integration
	Translations i18n.Table
	Audit        []Mutation
	Duration     time.Duration
}

// Run validates the initial configuration, executes every plugin in order,
// and enforces the final output/prerender consistency check. Any validation
// failure or invariant violation aborts the whole run with no partial result.
func (r *Runner) Run(ctx context.Context, req RunRequest) (*Result, error) {
	runID := uuid.NewString()
	start := time.Now()

	ctx = observability.WithRunID(ctx, runID)
	ctx, span := observability.GetGlobalTracer().StartRunSpan(ctx, runID)

	result, err := r.run(ctx, runID, req)
	observability.EndSpan(span, err)

	elapsed := time.Since(start)
	r.recorder.ObserveRunDuration(elapsed)
	switch {
	case err == nil:
		result.Duration = elapsed
		r.recorder.IncRunOutcome("success")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		r.recorder.IncRunOutcome("canceled")
	default:
		r.recorder.IncRunOutcome("failed")
	}
	return result, err
}

func (r *Runner) run(ctx context.Context, runID string, req RunRequest) (*Result, error) {
	logger := r.logger.With(logfields.RunID(runID))
	logger.Info("starting plugin run", "plugins", len(req.Plugins), "command", req.Build.Command)

	validated, err := schema.Validate(req.RawConfig, "initial config")
	if err != nil {
		return nil, err
	}

	for i, p := range req.Plugins {
		if err := p.Validate(); err != nil {
			return nil, verrors.ValidationFailedIn("plugin list", fmt.Sprintf("plugins[%d]", i), err.Error())
		}
	}
	r.recorder.SetPluginCount(len(req.Plugins))

	names := make([]string, len(req.Plugins))
	for i, p := range req.Plugins {
		names[i] = p.Name
	}

	state := &runState{
		build:        req.Build,
		pluginNames:  names,
		working:      cloneRaw(req.RawConfig),
		validated:    validated,
		added:        []host.Integration{},
		translations: i18n.Table{},
	}

	for _, p := range req.Plugins {
		if err := ctx.Err(); err != nil {
			r.recorder.IncPluginResult(p.Name, metrics.ResultCanceled)
			return nil, err
		}
		if err := r.runPlugin(ctx, runID, p, state); err != nil {
			return nil, err
		}
	}

	if req.Build.Output == host.OutputStatic && !state.validated.Prerender {
		return nil, verrors.PrerenderConflict(string(req.Build.Output))
	}

	logger.Info("plugin run complete",
		"integrations", len(state.added),
		"translation_locales", len(state.translations),
		"mutations", len(state.audit))

	return &Result{
		RunID:        runID,
		Config:       state.validated,
		Integrations: state.added,
		Translations: state.translations,
		Audit:        state.audit,
	}, nil
}

func (r *Runner) runPlugin(ctx context.Context, runID string, p Plugin, state *runState) error {
	pctx := observability.WithPlugin(ctx, p.Name)
	pctx, span := observability.GetGlobalTracer().StartPluginSpan(pctx, p.Name, runID)

	logger := r.logger.With(logfields.RunID(runID), logfields.Plugin(p.Name))
	sc := &SetupContext{plugin: p.Name, logger: logger, state: state}

	start := time.Now()
	err := p.Setup(pctx, sc)
	elapsed := time.Since(start)
	r.recorder.ObservePluginDuration(p.Name, elapsed)

	// A fatal mutation error is the run's error even when the setup callback
	// swallowed or rewrapped it.
	if state.failure != nil {
		err = state.failure
	}

	if err != nil {
		label := metrics.ResultFatal
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			label = metrics.ResultCanceled
		} else if _, ok := verrors.AsThemeError(err); !ok {
			err = verrors.PluginSetupError(p.Name, err)
		}
		r.recorder.IncPluginResult(p.Name, label)
		observability.EndSpan(span, err)
		logger.Error("plugin setup failed", logfields.Error(err), logfields.DurationMS(float64(elapsed.Milliseconds())))
		return err
	}

	r.recorder.IncPluginResult(p.Name, metrics.ResultSuccess)
	observability.EndSpan(span, nil)
	logger.Debug("plugin setup complete", logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}
