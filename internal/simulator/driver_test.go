package simulator

import (
	"testing"

	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/policy"
	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/taskstate"
	"github.com/htas-project/htas/internal/topology"
)

func TestInvariantRuntimeSumsMatchCoreSplit(t *testing.T) {
	topo := topology.New()
	tasks := NewFixedWorkload(topo)
	phase := NewPhase(topo, tasks, policy.Hint{})
	rec := phase.Run(2000)

	var sum uint64
	for _, s := range rec.Intent {
		sum += s.RuntimeUs
	}
	if sum != rec.PCoreTimeUs+rec.ECoreTimeUs {
		t.Errorf("sum of per-intent runtime = %d, want pcore(%d)+ecore(%d) = %d",
			sum, rec.PCoreTimeUs, rec.ECoreTimeUs, rec.PCoreTimeUs+rec.ECoreTimeUs)
	}
}

func TestAgingBreaksStarvationSingleCPU(t *testing.T) {
	// S1: one task base priority 10, one base priority 5, single CPU, no
	// hints; after AGING_THRESHOLD+1 ticks the low-priority task must run
	// at least once.
	topo := topology.NewSingleCPU()
	hi := &Task{Name: "hi", BasePriority: 10, PreferredKind: topology.PerformanceCore, State: &taskstate.State{}}
	lo := &Task{Name: "lo", BasePriority: 5, PreferredKind: topology.PerformanceCore, State: &taskstate.State{}}
	tasks := []*Task{hi, lo}
	phase := NewPhase(topo, tasks, policy.Hint{})
	phase.Run(htasconfig.SimAgingThreshold + 2)

	if lo.State.TotalSwitches == 0 {
		t.Errorf("low-priority task never ran within AGING_THRESHOLD+2 ticks on a starved CPU")
	}
}

func TestContextSwitchCounting(t *testing.T) {
	topo := topology.New()
	tasks := NewFixedWorkload(topo)
	phase := NewPhase(topo, tasks, &policy.RoundRobin{})
	rec := phase.Run(100)
	if rec.ContextSwitches == 0 {
		t.Errorf("ContextSwitches = 0 over 100 ticks with 8 tasks, want > 0")
	}
}

func TestNUMAPenaltiesAccumulateUnderBaseline(t *testing.T) {
	topo := topology.New()
	tasks := NewFixedWorkload(topo)
	phase := NewPhase(topo, tasks, &policy.RoundRobin{})
	rec := phase.Run(500)
	if rec.NUMAPenalties == 0 {
		t.Errorf("NUMAPenalties = 0 under baseline over 500 ticks, want > 0 (baseline ignores locality)")
	}
}

func TestHTASReducesNUMAPenaltiesVersusBaseline(t *testing.T) {
	topo := topology.New()

	baseline := NewPhase(topo, NewFixedWorkload(topo), &policy.RoundRobin{})
	baseRec := baseline.Run(5000)

	htas := NewPhase(topo, NewFixedWorkload(topo), policy.Hint{})
	htasRec := htas.Run(5000)

	if htasRec.NUMAPenalties >= baseRec.NUMAPenalties {
		t.Errorf("HTAS numa_penalties = %d, want < baseline's %d", htasRec.NUMAPenalties, baseRec.NUMAPenalties)
	}
}

func TestDynamicNUMAPenaltiesBetweenBaselineAndHTAS(t *testing.T) {
	// S5: the inference-scored dynamic policy, lacking declared hints,
	// should land strictly between the no-locality baseline and the
	// fully-hinted HTAS policy over a long phase.
	topo := topology.New()

	baseRec := NewPhase(topo, NewFixedWorkload(topo), &policy.RoundRobin{}).Run(15000)
	htasRec := NewPhase(topo, NewFixedWorkload(topo), policy.Hint{}).Run(15000)
	dynRec := NewPhase(topo, NewFixedWorkload(topo), policy.Inference{}).Run(15000)

	if !(dynRec.NUMAPenalties < baseRec.NUMAPenalties && dynRec.NUMAPenalties > htasRec.NUMAPenalties) {
		t.Errorf("DYNAMIC numa_penalties = %d, want strictly between HTAS(%d) and BASELINE(%d)",
			dynRec.NUMAPenalties, htasRec.NUMAPenalties, baseRec.NUMAPenalties)
	}
}

func TestHTASReducesLowLatencyJitterVersusBaseline(t *testing.T) {
	// S4: HTAS's flat low-latency priority bonus should reduce jitter on
	// the periodic LOW_LATENCY task relative to the baseline's blind
	// round-robin scheduling.
	topo := topology.New()

	baseRec := NewPhase(topo, NewFixedWorkload(topo), &policy.RoundRobin{}).Run(15000)
	htasRec := NewPhase(topo, NewFixedWorkload(topo), policy.Hint{}).Run(15000)

	baseJitter := baseRec.Intent[profile.LowLatency].MaxJitterUs
	htasJitter := htasRec.Intent[profile.LowLatency].MaxJitterUs

	if htasJitter >= baseJitter {
		t.Errorf("HTAS low-latency max jitter = %dus, want < baseline's %dus", htasJitter, baseJitter)
	}
}
