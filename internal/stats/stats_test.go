package stats

import (
	"testing"

	"github.com/htas-project/htas/internal/profile"
)

func TestFinalizeLatencyNoSamplesIsZero(t *testing.T) {
	var r Record
	r.FinalizeLatency()
	if r.Intent[profile.LowLatency].AvgLatencyUs != 0 {
		t.Errorf("AvgLatencyUs = %d, want 0 with no samples", r.Intent[profile.LowLatency].AvgLatencyUs)
	}
}

func TestFinalizeLatencyAveragesSamples(t *testing.T) {
	var r Record
	r.RecordLatencySample(1000)
	r.RecordLatencySample(3000)
	r.FinalizeLatency()
	if got := r.Intent[profile.LowLatency].AvgLatencyUs; got != 2000 {
		t.Errorf("AvgLatencyUs = %d, want 2000", got)
	}
	if got := r.Intent[profile.LowLatency].MaxJitterUs; got != 3000 {
		t.Errorf("MaxJitterUs = %d, want 3000", got)
	}
}

func TestPctReductionFormula(t *testing.T) {
	cases := []struct {
		a, b uint64
		want int64
	}{
		{100, 60, 40},
		{100, 0, 100},
		{0, 0, 0},
		{3, 1, 66}, // integer truncation: (3-1)*100/3 = 66.67 -> 66
	}
	for _, c := range cases {
		if got := pctReduction(c.a, c.b); got != c.want {
			t.Errorf("pctReduction(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestResetZeroes(t *testing.T) {
	r := Record{TotalTicks: 5, ContextSwitches: 3}
	r.Reset()
	if r.TotalTicks != 0 || r.ContextSwitches != 0 {
		t.Errorf("Reset left non-zero fields: %+v", r)
	}
}
