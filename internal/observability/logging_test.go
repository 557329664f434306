package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestWithRunID(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-123")

	lc := extractLogContext(ctx)
	if lc.RunID != "run-123" {
		t.Errorf("expected run-123, got %s", lc.RunID)
	}
}

func TestWithPlugin(t *testing.T) {
	ctx := context.Background()
	ctx = WithPlugin(ctx, "sitemap")

	lc := extractLogContext(ctx)
	if lc.Plugin != "sitemap" {
		t.Errorf("expected sitemap, got %s", lc.Plugin)
	}
}

func TestWithStage(t *testing.T) {
	ctx := context.Background()
	ctx = WithStage(ctx, "validate")

	lc := extractLogContext(ctx)
	if lc.Stage != "validate" {
		t.Errorf("expected validate, got %s", lc.Stage)
	}
}

func TestMultipleContextValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithPlugin(ctx, "analytics")
	ctx = WithStage(ctx, "setup")
	ctx = WithCommand(ctx, "build")

	lc := extractLogContext(ctx)

	if lc.RunID != "run-1" {
		t.Error("expected run-1")
	}
	if lc.Plugin != "analytics" {
		t.Error("expected analytics")
	}
	if lc.Stage != "setup" {
		t.Error("expected setup")
	}
	if lc.Command != "build" {
		t.Error("expected build")
	}
}

func TestOverwriteContextValue(t *testing.T) {
	ctx := context.Background()
	ctx = WithPlugin(ctx, "first")
	ctx = WithPlugin(ctx, "second")

	lc := extractLogContext(ctx)
	if lc.Plugin != "second" {
		t.Errorf("expected second, got %s", lc.Plugin)
	}
}

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()
	lc := extractLogContext(ctx)

	if lc.RunID != "" || lc.Plugin != "" || lc.Stage != "" {
		t.Error("expected empty context")
	}
}

func TestInfoContext(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithPlugin(ctx, "sitemap")

	InfoContext(ctx, "test message", slog.String("extra", "value"))

	output := buf.String()
	if !contains(output, "run-1") {
		t.Error("expected run-1 in log output")
	}
	if !contains(output, "sitemap") {
		t.Error("expected sitemap in log output")
	}
	if !contains(output, "test message") {
		t.Error("expected message in log output")
	}
}

func TestWarnContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := context.Background()
	ctx = WithStage(ctx, "translations")

	WarnContext(ctx, "warning message", slog.String("reason", "missing locale"))

	output := buf.String()
	if !contains(output, "translations") {
		t.Error("expected stage in log output")
	}
	if !contains(output, "warning message") {
		t.Error("expected message in log output")
	}
}

func TestErrorContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := context.Background()
	ctx = WithRunID(ctx, "run-error")
	ctx = WithPlugin(ctx, "broken-plugin")

	ErrorContext(ctx, "error occurred", slog.String("error", "setup failed"))

	output := buf.String()
	if !contains(output, "run-error") {
		t.Error("expected run-error in log output")
	}
	if !contains(output, "broken-plugin") {
		t.Error("expected broken-plugin in log output")
	}
}

func TestDebugContext(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := context.Background()
	ctx = WithCommand(ctx, "modules")

	DebugContext(ctx, "debug info", slog.Int("count", 42))

	output := buf.String()
	if !contains(output, "modules") {
		t.Error("expected modules in log output")
	}
}

func TestContextIsolation(t *testing.T) {
	ctx1 := context.Background()
	ctx1 = WithRunID(ctx1, "run-1")

	ctx2 := context.Background()
	ctx2 = WithRunID(ctx2, "run-2")

	lc1 := extractLogContext(ctx1)
	lc2 := extractLogContext(ctx2)

	if lc1.RunID != "run-1" {
		t.Error("context1 modified")
	}
	if lc2.RunID != "run-2" {
		t.Error("context2 modified")
	}
}

func TestComplexContextFlow(t *testing.T) {
	ctx := context.Background()

	// Simulate a full plugin run
	ctx = WithRunID(ctx, "run-123")
	ctx = WithCommand(ctx, "build")

	// First plugin
	firstCtx := WithPlugin(ctx, "sitemap")
	firstCtx = WithStage(firstCtx, "setup")

	lc := extractLogContext(firstCtx)
	if lc.RunID != "run-123" || lc.Command != "build" ||
		lc.Plugin != "sitemap" || lc.Stage != "setup" {
		t.Error("complex context flow failed")
	}

	// Second plugin inherits run scope, not the first plugin's name
	secondCtx := WithPlugin(ctx, "analytics")
	secondCtx = WithStage(secondCtx, "setup")

	lc = extractLogContext(secondCtx)
	if lc.RunID != "run-123" || lc.Command != "build" ||
		lc.Plugin != "analytics" || lc.Stage != "setup" {
		t.Error("complex context flow for second plugin failed")
	}
}

func TestGetLogAttrsWithMixedValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithRunID(ctx, "run-1")
	ctx = WithPlugin(ctx, "sitemap")
	// Don't set stage or command

	attrs := getLogAttrs(ctx)

	// Should have at least run and plugin
	if len(attrs) < 2 {
		t.Errorf("expected at least 2 attributes, got %d", len(attrs))
	}

	// Verify that empty fields are not included
	attrStr := ""
	for _, attr := range attrs {
		attrStr += attr.Key
	}

	if !contains(attrStr, "run.id") {
		t.Error("expected run.id attribute")
	}
	if !contains(attrStr, "plugin") {
		t.Error("expected plugin attribute")
	}
	if contains(attrStr, "stage") {
		t.Error("unexpected stage attribute when not set")
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
