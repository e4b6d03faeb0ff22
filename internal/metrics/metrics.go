// Package metrics exposes HTAS benchmark results as prometheus
// instrumentation, generalizing the teacher's pkg/scheduler/metrics.go
// (scheduling attempt counters and duration histograms) from a Kubernetes
// scheduler's pod-scheduling events to a simulated policy comparison's
// per-phase counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/stats"
)

var (
	// ContextSwitches counts context switches observed per policy, one
	// phase's total added each time Observe is called.
	ContextSwitches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "htas_context_switches_total",
		Help: "Total scheduler context switches observed, by policy.",
	}, []string{"policy"})

	// NUMAPenalties counts cross-node scheduling decisions per policy.
	NUMAPenalties = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "htas_numa_penalties_total",
		Help: "Total scheduling decisions that crossed a NUMA node boundary, by policy.",
	}, []string{"policy"})

	// PowerConsumption sums the accounting power proxy per policy; core
	// kinds are not split out.
	PowerConsumption = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "htas_power_consumption_total",
		Help: "Accumulated power-proxy units, by policy.",
	}, []string{"policy"})

	// IntentRuntimeSeconds records per-intent CPU time observed per phase.
	IntentRuntimeSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "htas_intent_runtime_seconds",
		Help:    "Per-intent CPU runtime accumulated in one benchmark phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"policy", "intent"})

	// LowLatencyJitterMicroseconds records the LOW_LATENCY task's observed
	// max jitter per phase.
	LowLatencyJitterMicroseconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "htas_low_latency_jitter_microseconds",
		Help:    "LOW_LATENCY task max jitter observed in one benchmark phase.",
		Buckets: []float64{1000, 2000, 4000, 8000, 16000, 32000},
	}, []string{"policy"})
)

// Observe folds one completed phase's statistics into the metrics above.
// Each call represents one benchmark phase's final totals, so counters are
// incremented by the phase total rather than by a per-tick delta.
func Observe(policyName string, rec *stats.Record) {
	ContextSwitches.WithLabelValues(policyName).Add(float64(rec.ContextSwitches))
	NUMAPenalties.WithLabelValues(policyName).Add(float64(rec.NUMAPenalties))
	PowerConsumption.WithLabelValues(policyName).Add(float64(rec.TotalPowerConsumption))

	for _, intent := range []profile.Intent{profile.Performance, profile.Efficiency, profile.LowLatency, profile.Default} {
		runtimeUs := rec.Intent[intent].RuntimeUs
		if runtimeUs == 0 {
			continue
		}
		IntentRuntimeSeconds.WithLabelValues(policyName, intent.String()).Observe(float64(runtimeUs) / 1_000_000)
	}

	if jitter := rec.Intent[profile.LowLatency].MaxJitterUs; jitter > 0 {
		LowLatencyJitterMicroseconds.WithLabelValues(policyName).Observe(float64(jitter))
	}
}
