// Package stats holds the per-policy statistics record HTAS accumulates
// during a benchmark phase, and the pairwise comparison report shown by
// htas-full, reproducing the original benchmark's exact output shape and
// percentage-reduction formula so results stay comparable across runs.
package stats

import (
	"fmt"
	"strings"

	"github.com/htas-project/htas/internal/profile"
)

// IntentStats is the per-intent breakdown of one statistics Record.
type IntentStats struct {
	RuntimeUs    uint64
	Switches     uint64
	AvgLatencyUs uint64
	MaxJitterUs  uint64

	latencySumUs    uint64
	latencySamples  uint64
}

// Record is one policy phase's accumulated statistics. The zero value is a
// freshly reset record, matching spec §3's "reset to all zeroes between
// benchmark phases".
type Record struct {
	TotalTicks             uint64
	ContextSwitches        uint64
	NUMAPenalties          uint64
	PCoreTimeUs            uint64
	ECoreTimeUs            uint64
	TotalPowerConsumption  uint64

	// Intent is indexed by profile.Intent (Performance, Efficiency,
	// LowLatency, Default).
	Intent [4]IntentStats
}

// Reset zeroes the record in place.
func (r *Record) Reset() { *r = Record{} }

// RecordLatencySample folds one low-latency jitter sample into the
// LOW_LATENCY slot's running mean and max, per spec §4.4 step 5.
func (r *Record) RecordLatencySample(jitterUs uint64) {
	slot := &r.Intent[profile.LowLatency]
	slot.latencySumUs += jitterUs
	slot.latencySamples++
	if jitterUs > slot.MaxJitterUs {
		slot.MaxJitterUs = jitterUs
	}
}

// FinalizeLatency computes avg_latency_us from the accumulated samples (or
// leaves it 0 if none were recorded), per spec §4.4 step 5. Call this once
// after the tick loop ends, before reading or printing the record.
func (r *Record) FinalizeLatency() {
	slot := &r.Intent[profile.LowLatency]
	if slot.latencySamples == 0 {
		slot.AvgLatencyUs = 0
		return
	}
	slot.AvgLatencyUs = slot.latencySumUs / slot.latencySamples
}

// Print renders the record the way `htas-stats` and each benchmark command
// print a phase's results: scalar counters first, then the per-intent
// breakdown.
func Print(policyName string, r *Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s statistics ===\n", policyName)
	fmt.Fprintf(&b, "total_ticks:             %d\n", r.TotalTicks)
	fmt.Fprintf(&b, "context_switches:        %d\n", r.ContextSwitches)
	fmt.Fprintf(&b, "numa_penalties:          %d\n", r.NUMAPenalties)
	fmt.Fprintf(&b, "pcore_time_us:           %d\n", r.PCoreTimeUs)
	fmt.Fprintf(&b, "ecore_time_us:           %d\n", r.ECoreTimeUs)
	fmt.Fprintf(&b, "total_power_consumption: %d\n", r.TotalPowerConsumption)
	for _, intent := range []profile.Intent{profile.Performance, profile.Efficiency, profile.LowLatency, profile.Default} {
		s := r.Intent[intent]
		fmt.Fprintf(&b, "  [%s] runtime_us=%d switches=%d avg_latency_us=%d max_jitter_us=%d\n",
			intent.String(), s.RuntimeUs, s.Switches, s.AvgLatencyUs, s.MaxJitterUs)
	}
	return b.String()
}

// pctReduction computes the original benchmark's integer-truncating
// percentage-reduction formula: (a-b)*100/a when a > 0, else 0. Preserved
// verbatim (rather than switched to floating point) so comparison output
// stays byte-identical to a from-scratch reimplementation run with the
// same inputs.
func pctReduction(a, b uint64) int64 {
	if a == 0 {
		return 0
	}
	return (int64(a) - int64(b)) * 100 / int64(a)
}

// Compare renders the three-way pairwise comparison htas-full prints:
// NUMA-penalty reduction, power-consumption reduction, context-switch
// counts, and LOW_LATENCY max jitter, for one named pair of records.
func Compare(nameA string, a *Record, nameB string, b *Record) string {
	var out strings.Builder
	fmt.Fprintf(&out, "--- %s vs %s ---\n", nameA, nameB)
	fmt.Fprintf(&out, "numa_penalties:    %d -> %d (%d%% reduction)\n",
		a.NUMAPenalties, b.NUMAPenalties, pctReduction(a.NUMAPenalties, b.NUMAPenalties))
	fmt.Fprintf(&out, "power_consumption: %d -> %d (%d%% reduction)\n",
		a.TotalPowerConsumption, b.TotalPowerConsumption, pctReduction(a.TotalPowerConsumption, b.TotalPowerConsumption))
	fmt.Fprintf(&out, "context_switches:  %d -> %d\n", a.ContextSwitches, b.ContextSwitches)
	fmt.Fprintf(&out, "low_latency max_jitter_us: %d -> %d\n",
		a.Intent[profile.LowLatency].MaxJitterUs, b.Intent[profile.LowLatency].MaxJitterUs)
	return out.String()
}

// CompareAll renders the three pairwise comparisons htas-full prints, in
// the fixed order BASELINE vs HTAS, BASELINE vs DYNAMIC, HTAS vs DYNAMIC.
func CompareAll(baseline, htas, dynamic *Record) string {
	var out strings.Builder
	out.WriteString(Compare("BASELINE", baseline, "HTAS", htas))
	out.WriteString(Compare("BASELINE", baseline, "DYNAMIC", dynamic))
	out.WriteString(Compare("HTAS", htas, "DYNAMIC", dynamic))
	return out.String()
}
