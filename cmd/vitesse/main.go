package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/vitessedocs/vitesse"
	"github.com/vitessedocs/vitesse/internal/content"
	verrors "github.com/vitessedocs/vitesse/internal/errors"
	"github.com/vitessedocs/vitesse/internal/gitinfo"
	"github.com/vitessedocs/vitesse/internal/host"
	"github.com/vitessedocs/vitesse/internal/journal"
	"github.com/vitessedocs/vitesse/internal/logfields"
	"github.com/vitessedocs/vitesse/internal/metrics"
	"github.com/vitessedocs/vitesse/internal/observability"
	"github.com/vitessedocs/vitesse/internal/schema"
	"github.com/vitessedocs/vitesse/internal/watch"
)

var CLI struct {
	Config        string `short:"c" help:"Site configuration file path" default:"vitesse.yaml"`
	SrcDir        string `short:"s" help:"Project source directory" default:"."`
	Output        string `short:"o" help:"Host output format: static, hybrid or server" default:"hybrid"`
	TrailingSlash string `help:"Host trailing slash policy: always, never or ignore" default:"ignore"`
	Journal       string `help:"Run journal database path (empty disables recording)" default:""`
	Verbose       bool   `short:"v" help:"Enable verbose logging"`

	Validate struct {
	} `cmd:"" help:"Validate the configuration and run the plugin pipeline"`

	Modules struct {
		Name string `arg:"" optional:"" help:"Virtual module id to print (defaults to listing all ids)"`
	} `cmd:"" help:"Generate the virtual modules and print their ids or source"`

	I18n struct {
		Locale string `arg:"" optional:"" help:"Locale to print (defaults to listing locales)"`
	} `cmd:"" help:"Show merged translation tables"`

	Check struct {
		LastUpdated bool `help:"Include git last-updated times per file"`
	} `cmd:"" help:"Lint docs content frontmatter"`

	Watch struct {
		Debounce    time.Duration `help:"Settle window before revalidating" default:"500ms"`
		MetricsAddr string        `help:"Serve Prometheus metrics on this address while watching (empty disables)" default:""`
	} `cmd:"" help:"Revalidate whenever the config or content inputs change"`

	History struct {
		Limit int `short:"n" help:"Number of runs to show" default:"10"`
	} `cmd:"" help:"Show recent runs from the journal"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Write a starter configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	adapter := verrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = observability.WithCommand(ctx, kctx.Command())

	var err error
	switch kctx.Command() {
	case "validate":
		err = runValidate(ctx)
	case "modules", "modules <name>":
		err = runModules(ctx, CLI.Modules.Name)
	case "i18n", "i18n <locale>":
		err = runI18n(ctx, CLI.I18n.Locale)
	case "check":
		err = runCheck(ctx, CLI.Check.LastUpdated)
	case "watch":
		err = runWatch(ctx, CLI.Watch.Debounce, CLI.Watch.MetricsAddr)
	case "history":
		err = runHistory(ctx, CLI.History.Limit)
	case "init":
		err = runInit(CLI.Config, CLI.Init.Force)
	}
	adapter.HandleError(err)
}

// buildContext assembles the host description every pipeline command shares.
func buildContext(command string, restart bool) (host.BuildContext, error) {
	format := host.NormalizeOutputFormat(CLI.Output)
	if format == "" {
		return host.BuildContext{}, verrors.ValidationFailed("output", fmt.Sprintf("unknown output format %q", CLI.Output))
	}
	slash := host.NormalizeTrailingSlash(CLI.TrailingSlash)
	if slash == "" {
		return host.BuildContext{}, verrors.ValidationFailed("trailing-slash", fmt.Sprintf("unknown trailing slash policy %q", CLI.TrailingSlash))
	}
	srcDir, err := filepath.Abs(CLI.SrcDir)
	if err != nil {
		return host.BuildContext{}, verrors.InternalError("failed to resolve source dir", err)
	}
	return host.BuildContext{
		Root:          srcDir,
		SrcDir:        srcDir,
		Output:        format,
		TrailingSlash: slash,
		Command:       command,
		Restart:       restart,
	}, nil
}

// setup runs the full theming pass for a CLI command and records it in the
// journal when one is configured.
func setup(ctx context.Context, command string, restart bool, recorder vitesse.Recorder) (*vitesse.SetupResult, error) {
	build, err := buildContext(command, restart)
	if err != nil {
		return nil, err
	}
	raw, specs, err := vitesse.LoadConfigFile(CLI.Config)
	if err != nil {
		return nil, err
	}
	plugins, err := vitesse.LoadPlugins(specs, build.Root)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := vitesse.Setup(ctx, vitesse.SetupOptions{
		RawConfig: raw,
		Plugins:   plugins,
		Build:     build,
		Metrics:   recorder,
	})
	recordRun(ctx, started, len(plugins), result, err)
	return result, err
}

// recordRun appends the run to the journal. Recording is best effort; a
// journal failure never fails the command.
func recordRun(ctx context.Context, started time.Time, pluginCount int, result *vitesse.SetupResult, runErr error) {
	if CLI.Journal == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(CLI.Journal), 0o755); err != nil {
		observability.WarnContext(ctx, "cannot create journal directory", logfields.Error(err))
		return
	}
	store, err := journal.Open(CLI.Journal)
	if err != nil {
		observability.WarnContext(ctx, "cannot open run journal", logfields.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	entry := journal.Entry{
		Started:     started,
		Duration:    time.Since(started),
		Outcome:     journal.OutcomeSuccess,
		PluginCount: pluginCount,
	}
	switch {
	case runErr == nil:
		entry.RunID = result.RunID
		entry.Duration = result.Duration
	case errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded):
		entry.RunID = fmt.Sprintf("aborted-%d", started.UnixNano())
		entry.Outcome = journal.OutcomeCanceled
		entry.Error = runErr.Error()
	default:
		entry.RunID = fmt.Sprintf("failed-%d", started.UnixNano())
		entry.Outcome = journal.OutcomeFailed
		entry.Error = runErr.Error()
	}
	if err := store.Append(ctx, entry); err != nil {
		observability.WarnContext(ctx, "cannot record run", logfields.Error(err))
	}
}

func runValidate(ctx context.Context) error {
	result, err := setup(ctx, "validate", false, nil)
	if err != nil {
		return err
	}

	observability.InfoContext(ctx, "configuration valid",
		logfields.RunID(result.RunID),
		slog.String("title", result.Config.Title),
		slog.Int("integrations", len(result.Integrations)),
		slog.Int("locales", len(result.Translations.Locales())),
		slog.Int("modules", len(result.Modules.Names())),
		slog.Duration("duration", result.Duration))

	for _, m := range result.Audit {
		observability.DebugContext(ctx, "plugin mutation", slog.String("mutation", m.String()))
	}
	return nil
}

func runModules(ctx context.Context, name string) error {
	result, err := setup(ctx, "modules", false, nil)
	if err != nil {
		return err
	}

	if name == "" {
		for _, id := range result.Modules.Names() {
			fmt.Println(id)
		}
		for file := range result.Modules.TypeDeclarations() {
			fmt.Printf("%s (declaration file)\n", file)
		}
		return nil
	}

	resolved, ok := result.Modules.Resolve(name)
	if !ok {
		return verrors.ModuleUnknown(name)
	}
	src, ok := result.Modules.Load(resolved)
	if !ok {
		return verrors.ModuleUnknown(name)
	}
	fmt.Print(src)
	return nil
}

func runI18n(ctx context.Context, locale string) error {
	result, err := setup(ctx, "i18n", false, nil)
	if err != nil {
		return err
	}
	translations := result.Translations

	if locale == "" {
		for _, id := range translations.Locales() {
			marker := ""
			if id == translations.DefaultLocale() {
				marker = " (default)"
			}
			fmt.Printf("%s%s\n", id, marker)
		}
		return nil
	}

	resolved := translations.Resolve(locale)
	if resolved != locale {
		observability.DebugContext(ctx, "locale resolved",
			slog.String("requested", locale), slog.String("resolved", resolved))
	}
	table := translations.Table()[resolved]
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Printf("%s = %s\n", k, table[k])
	}
	return nil
}

func runCheck(ctx context.Context, lastUpdated bool) error {
	ctx = observability.WithStage(ctx, "docs-check")
	srcDir, err := filepath.Abs(CLI.SrcDir)
	if err != nil {
		return verrors.InternalError("failed to resolve source dir", err)
	}

	checker := content.NewChecker(slog.Default())
	report, err := checker.CheckDocs(ctx, srcDir)
	if err != nil {
		return err
	}

	var repo *gitinfo.Repo
	if lastUpdated {
		opened, found, err := gitinfo.Open(srcDir)
		if err != nil {
			return verrors.InternalError("failed to open git repository", err)
		}
		if !found {
			observability.WarnContext(ctx, "not a git repository, skipping last-updated times")
		}
		repo = opened
	}

	for _, issue := range report.Issues {
		fmt.Println(issue.String())
	}
	if repo != nil {
		if err := printLastUpdated(srcDir, repo); err != nil {
			return err
		}
	}

	observability.InfoContext(ctx, "docs check finished",
		slog.Int("files", report.FilesChecked), slog.Int("issues", len(report.Issues)))
	if report.HasErrors() {
		return verrors.ValidationFailed("content", fmt.Sprintf("%d issue(s) found in docs content", len(report.Issues)))
	}
	return nil
}

func printLastUpdated(srcDir string, repo *gitinfo.Repo) error {
	docsRoot := filepath.Join(srcDir, content.DocsDir)
	if _, err := os.Stat(docsRoot); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(docsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".md" {
			return err
		}
		when, ok, luErr := repo.LastUpdated(path)
		if luErr != nil {
			return verrors.InternalError("failed to read git history", luErr)
		}
		if ok {
			fmt.Printf("%s last updated %s\n", path, when.Format(time.RFC3339))
		} else {
			fmt.Printf("%s has no committed history\n", path)
		}
		return nil
	})
}

func runWatch(ctx context.Context, debounce time.Duration, metricsAddr string) error {
	var recorder vitesse.Recorder
	if metricsAddr != "" {
		reg := metrics.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		go func() {
			if err := metrics.Serve(ctx, metricsAddr, reg, slog.Default()); err != nil {
				slog.Error("metrics server failed", "error", err)
			}
		}()
	}

	// One pass up front so a broken config surfaces immediately.
	if _, err := setup(ctx, "watch", false, recorder); err != nil {
		slog.Error("initial validation failed", "error", err)
	}

	watcher, err := watch.New(CLI.Config, CLI.SrcDir, func(ctx context.Context) error {
		result, err := setup(ctx, "watch", true, recorder)
		if recorder != nil {
			recorder.IncConfigReload(err == nil)
		}
		if err != nil {
			observability.ErrorContext(ctx, "revalidation failed", logfields.Error(err))
			return nil
		}
		observability.InfoContext(ctx, "revalidated",
			logfields.RunID(result.RunID),
			slog.Int("modules", len(result.Modules.Names())),
			slog.Duration("duration", result.Duration))
		return nil
	}, slog.Default())
	if err != nil {
		return err
	}
	watcher.SetDebounce(debounce)
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	observability.InfoContext(ctx, "watching, press Ctrl-C to stop")
	<-ctx.Done()
	return nil
}

func runHistory(ctx context.Context, limit int) error {
	if CLI.Journal == "" {
		return verrors.ConfigRequired("journal")
	}
	store, err := journal.Open(CLI.Journal)
	if err != nil {
		return verrors.InternalError("failed to open run journal", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(ctx, limit)
	if err != nil {
		return verrors.InternalError("failed to read run journal", err)
	}
	if len(entries) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-8s  %4d plugin(s)  %s  %s",
			e.Started.Format(time.RFC3339), e.Outcome, e.PluginCount, e.Duration, e.RunID)
		if e.Error != "" {
			line += "  " + e.Error
		}
		fmt.Println(line)
	}
	return nil
}

func runInit(configPath string, force bool) error {
	if err := schema.Init(configPath, force); err != nil {
		return err
	}
	slog.Info("configuration written", "path", configPath)
	return nil
}
