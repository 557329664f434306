package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Span represents a tracing span.
type Span interface {
	SetAttribute(key string, value interface{})
	AddEvent(name string)
	RecordError(err error)
	End()
}

// LocalSpan is a lightweight span implementation for local tracing.
type LocalSpan struct {
	name       string
	startTime  time.Time
	attributes map[string]interface{}
	events     []string
	err        error
}

// SetAttribute sets an attribute on the span.
func (s *LocalSpan) SetAttribute(key string, value interface{}) {
	if s.attributes == nil {
		s.attributes = make(map[string]interface{})
	}
	s.attributes[key] = value
}

// AddEvent adds an event to the span.
func (s *LocalSpan) AddEvent(name string) {
	s.events = append(s.events, name)
}

// RecordError records an error in the span.
func (s *LocalSpan) RecordError(err error) {
	if err != nil {
		s.err = err
		slog.Error("Span error", "span", s.name, "error", err)
	}
}

// End ends the span and logs duration.
func (s *LocalSpan) End() {
	duration := time.Since(s.startTime)
	slog.Debug("Span ended", "span", s.name, "duration_ms", duration.Milliseconds())
}

// TracerProvider manages span creation.
type TracerProvider struct {
	enabled bool
}

// NewTracerProvider creates a new tracer provider.
func NewTracerProvider() *TracerProvider {
	return &TracerProvider{enabled: true}
}

// StartSpan creates a new span for a given operation.
func (tp *TracerProvider) StartSpan(ctx context.Context, spanName string) (context.Context, Span) {
	if !tp.enabled {
		return ctx, &LocalSpan{name: spanName, startTime: time.Now()}
	}

	span := &LocalSpan{
		name:       spanName,
		startTime:  time.Now(),
		attributes: make(map[string]interface{}),
	}

	slog.Debug("Span started", "span", spanName)
	return context.WithValue(ctx, spanContextKey, span), span
}

// StartRunSpan creates a span for a full plugin run.
func (tp *TracerProvider) StartRunSpan(ctx context.Context, runID string) (context.Context, Span) {
	ctx, span := tp.StartSpan(ctx, "plugins.run")
	span.SetAttribute("run.id", runID)
	return ctx, span
}

// StartPluginSpan creates a span for a single plugin's setup.
func (tp *TracerProvider) StartPluginSpan(ctx context.Context, plugin, runID string) (context.Context, Span) {
	ctx, span := tp.StartSpan(ctx, fmt.Sprintf("plugin.%s", plugin))
	span.SetAttribute("run.id", runID)
	span.SetAttribute("plugin.name", plugin)
	return ctx, span
}

// StartModuleSpan creates a span for virtual module generation.
func (tp *TracerProvider) StartModuleSpan(ctx context.Context, moduleID string) (context.Context, Span) {
	ctx, span := tp.StartSpan(ctx, "module.generate")
	span.SetAttribute("module.id", moduleID)
	return ctx, span
}

// RecordError records an error in a span.
func RecordError(span Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
	}
}

// EndSpan ends a span and logs if there was an error.
func EndSpan(span Span, err error) {
	if span != nil {
		if err != nil {
			RecordError(span, err)
		}
		span.End()
	}
}

// GlobalTracerProvider holds the singleton tracer provider.
var globalTracerProvider *TracerProvider

// InitGlobalTracer initializes the global tracer provider.
func InitGlobalTracer() *TracerProvider {
	if globalTracerProvider == nil {
		globalTracerProvider = NewTracerProvider()
	}
	return globalTracerProvider
}

// GetGlobalTracer returns the global tracer provider.
func GetGlobalTracer() *TracerProvider {
	if globalTracerProvider == nil {
		return InitGlobalTracer()
	}
	return globalTracerProvider
}

// SetGlobalTracer sets the global tracer provider (for testing).
func SetGlobalTracer(tp *TracerProvider) {
	globalTracerProvider = tp
}

// Context key for storing span context.
type contextKey string

const spanContextKey contextKey = "span"

// SpanFromContext extracts span from context.
func SpanFromContext(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(spanContextKey).(Span)
	return span, ok
}
