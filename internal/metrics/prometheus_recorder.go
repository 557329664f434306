package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	pluginDuration   *prom.HistogramVec
	runDuration      prom.Histogram
	pluginResults    *prom.CounterVec
	runOutcome       *prom.CounterVec
	moduleGeneration *prom.HistogramVec
	configReloads    *prom.CounterVec
	pluginCount      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.pluginDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "vitesse",
			Name:      "plugin_duration_seconds",
			Help:      "Duration of individual plugin setup calls",
			Buckets:   prom.DefBuckets,
		}, []string{"plugin"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "vitesse",
			Name:      "run_duration_seconds",
			Help:      "Total plugin run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.pluginResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vitesse",
			Name:      "plugin_results_total",
			Help:      "Plugin result counts by outcome",
		}, []string{"plugin", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vitesse",
			Name:      "run_outcomes_total",
			Help:      "Plugin run outcomes by final status",
		}, []string{"outcome"})
		pr.moduleGeneration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "vitesse",
			Name:      "module_generation_seconds",
			Help:      "Duration of individual virtual module generations",
			Buckets:   prom.DefBuckets,
		}, []string{"module"})
		pr.configReloads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vitesse",
			Name:      "config_reloads_total",
			Help:      "Configuration reloads by success/failure",
		}, []string{"result"})
		pr.pluginCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "vitesse",
			Name:      "plugin_count",
			Help:      "Number of plugins in the last run",
		})
		reg.MustRegister(pr.pluginDuration, pr.runDuration, pr.pluginResults, pr.runOutcome, pr.moduleGeneration, pr.configReloads, pr.pluginCount)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePluginDuration(plugin string, d time.Duration) {
	if p == nil || p.pluginDuration == nil {
		return
	}
	p.pluginDuration.WithLabelValues(plugin).Observe(d.Seconds())
}
func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}
func (p *PrometheusRecorder) IncPluginResult(plugin string, result ResultLabel) {
	if p == nil || p.pluginResults == nil {
		return
	}
	p.pluginResults.WithLabelValues(plugin, string(result)).Inc()
}
func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveModuleGeneration(module string, d time.Duration) {
	if p == nil || p.moduleGeneration == nil {
		return
	}
	p.moduleGeneration.WithLabelValues(module).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncConfigReload(success bool) {
	if p == nil || p.configReloads == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.configReloads.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) SetPluginCount(n int) {
	if p == nil || p.pluginCount == nil {
		return
	}
	p.pluginCount.Set(float64(n))
}
