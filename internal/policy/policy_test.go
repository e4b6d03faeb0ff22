package policy

import (
	"testing"

	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/topology"
)

var pCPU = topology.CPU{ID: 0, Kind: topology.PerformanceCore, NUMANode: 0}
var eCPU = topology.CPU{ID: 2, Kind: topology.EfficiencyCore, NUMANode: 1}

func TestRoundRobinScansForwardFromCursor(t *testing.T) {
	rr := &RoundRobin{}
	cands := []Candidate{{Index: 0}, {Index: 1}, {Index: 2}}
	first := rr.Select(cands, pCPU, 0)
	if first != 1 {
		t.Fatalf("first Select = %d, want 1 (cursor starts at 0, scans forward)", first)
	}
	second := rr.Select(cands, pCPU, 1)
	if second != 2 {
		t.Fatalf("second Select = %d, want 2", second)
	}
}

func TestRoundRobinIdlesWhenAllSelected(t *testing.T) {
	rr := &RoundRobin{}
	cands := []Candidate{{Index: 0, Selected: true}, {Index: 1, Selected: true}}
	got := rr.Select(cands, pCPU, 0)
	if got != -1 {
		t.Errorf("Select with all-selected candidates = %d, want -1 (idle)", got)
	}
}

func TestRoundRobinEmptyIsIdle(t *testing.T) {
	rr := &RoundRobin{}
	if got := rr.Select(nil, pCPU, 0); got != -1 {
		t.Errorf("Select(nil) = %d, want -1", got)
	}
}

func TestHintPrefersCoreKindMatch(t *testing.T) {
	h := Hint{}
	cands := []Candidate{
		{Index: 0, BasePriority: 10, PreferredKind: topology.PerformanceCore},
		{Index: 1, BasePriority: 10, PreferredKind: topology.EfficiencyCore},
	}
	if got := h.Select(cands, pCPU, 0); got != 0 {
		t.Errorf("Select on a P-core = %d, want 0 (P-preferring task)", got)
	}
}

func TestHintBasePriorityGapOutweighsLowLatencyBonus(t *testing.T) {
	h := Hint{}
	cands := []Candidate{
		{Index: 0, BasePriority: 100, PreferredKind: topology.PerformanceCore},
		{Index: 1, BasePriority: 10, PreferredKind: topology.PerformanceCore, Intent: profile.LowLatency, WaitTicks: 1},
	}
	// LOW_LATENCY bonus plus waking bonus is 15+15=30, not enough to beat a
	// base priority gap of 90: the base-100 task still wins.
	got := h.Select(cands, pCPU, 0)
	if got != 0 {
		t.Errorf("Select = %d, want 0 (base priority gap still dominates)", got)
	}
}

func TestHintTieBreaksOnLowestIndex(t *testing.T) {
	h := Hint{}
	cands := []Candidate{
		{Index: 0, BasePriority: 10},
		{Index: 1, BasePriority: 10},
	}
	if got := h.Select(cands, pCPU, 0); got != 0 {
		t.Errorf("Select on tie = %d, want 0 (lowest index)", got)
	}
}

func TestHintSkipsAlreadySelected(t *testing.T) {
	h := Hint{}
	cands := []Candidate{
		{Index: 0, BasePriority: 100, Selected: true},
		{Index: 1, BasePriority: 10},
	}
	if got := h.Select(cands, pCPU, 0); got != 1 {
		t.Errorf("Select = %d, want 1 (index 0 already selected this tick)", got)
	}
}

func TestInferenceUsesObservedLoadNotIntent(t *testing.T) {
	inf := Inference{}
	cands := []Candidate{
		{Index: 0, BasePriority: 10, RecentCPUTicks: 30}, // inferred PERFORMANCE
		{Index: 1, BasePriority: 10, RecentCPUTicks: 0},  // inferred EFFICIENCY
	}
	if got := inf.Select(cands, pCPU, 0); got != 0 {
		t.Errorf("Select on a P-core = %d, want 0 (inferred PERFORMANCE task)", got)
	}
	if got := inf.Select(cands, eCPU, 0); got != 1 {
		t.Errorf("Select on an E-core = %d, want 1 (inferred EFFICIENCY task)", got)
	}
}

func TestInferenceNUMAMatch(t *testing.T) {
	inf := Inference{}
	cands := []Candidate{
		{Index: 0, BasePriority: 10, InferredNUMANode: 1},
		{Index: 1, BasePriority: 10, InferredNUMANode: 0},
	}
	if got := inf.Select(cands, eCPU, 0); got != 0 {
		t.Errorf("Select on NUMA-1 CPU = %d, want 0 (matches inferred node)", got)
	}
}
