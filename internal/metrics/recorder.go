package metrics

import "time"

// ResultLabel enumerates plugin result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for plugin run and module metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObservePluginDuration(plugin string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncPluginResult(plugin string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|warning|failed|canceled
	ObserveModuleGeneration(module string, d time.Duration)
	IncConfigReload(success bool)
	SetPluginCount(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePluginDuration(string, time.Duration)   {}
func (NoopRecorder) ObserveRunDuration(time.Duration)              {}
func (NoopRecorder) IncPluginResult(string, ResultLabel)           {}
func (NoopRecorder) IncRunOutcome(string)                          {}
func (NoopRecorder) ObserveModuleGeneration(string, time.Duration) {}
func (NoopRecorder) IncConfigReload(bool)                          {}
func (NoopRecorder) SetPluginCount(int)                            {}
