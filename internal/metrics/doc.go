// Package metrics records plugin run observability: per-plugin setup
// durations, whole-run durations and outcomes, virtual module generation
// times, and config reload results in watch mode.
//
// The Recorder interface follows the Null Object pattern. Every component
// holds a Recorder and calls it unconditionally; NoopRecorder is the default
// and its methods inline to nothing, so code paths never check whether
// metrics are enabled:
//
//	runner := plugin.NewRunner(logger, metrics.NoopRecorder{})
//
// To publish metrics, inject the Prometheus implementation instead and serve
// its registry:
//
//	reg := metrics.NewRegistry()
//	runner := plugin.NewRunner(logger, metrics.NewPrometheusRecorder(reg))
//	go metrics.Serve(ctx, ":9090", reg, logger)
//
// The watch command wires this up behind its --metrics-addr flag; everything
// else defaults to the noop recorder.
package metrics
