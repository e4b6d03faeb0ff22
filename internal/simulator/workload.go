// Package simulator implements the tick-loop driver and accounting that
// HTAS runs its three selection policies under: a fixed synthetic workload
// of periodic and duty-cycled tasks, advanced one tick at a time, with
// statistics recorded identically regardless of which policy is active.
package simulator

import (
	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/taskstate"
	"github.com/htas-project/htas/internal/topology"
)

// Task is one workload entry: the fixed, declared shape of the work (duty
// cycle or periodic release) plus the scheduler state every policy reads
// and the simulator's own per-tick readiness bookkeeping.
type Task struct {
	Name          string
	BasePriority  int
	PreferredKind topology.Kind

	// State is the per-task scheduler state shared with the rest of the
	// scheduling core (affinity, aging, inference fields) — the same
	// mechanism a real task's profile and aging would use, not a
	// simulator-only duplicate.
	State *taskstate.State

	// Duty cycle (EFFICIENCY tasks in the fixed workload): ready iff
	// DutyPhase < ActiveTicks out of every DutyPeriod ticks. DutyPeriod
	// zero means "always ready, no duty cycle".
	DutyPeriod  int
	ActiveTicks int
	DutyPhase   int

	// Periodic release (the LOW_LATENCY task): a new job of WorkMs ticks is
	// released once TimeSinceRelease has counted PeriodMs ticks without
	// outstanding work since the previous job finished.
	PeriodMs        int
	WorkMs          int
	WorkRemaining   int
	TimeSinceRelease int
	WaitingSinceReady int

	Ready bool
	// SelectedThisTick is cleared at the start of each tick's CPU loop and
	// set the moment a CPU's policy chooses this task.
	SelectedThisTick bool

	LastScheduledTick uint64
}

// NewFixedWorkload builds the §6 benchmark workload: two PERFORMANCE
// tasks, four EFFICIENCY duty-cycle tasks, one LOW_LATENCY periodic task,
// and one cross-NUMA PERFORMANCE-intent stress task that prefers an
// E-core on NUMA node 1 — exactly reproducing the original benchmark's
// task table so every policy comparison runs against the same fixture.
func NewFixedWorkload(topo *topology.Model) []*Task {
	mk := func(name string, intent profile.Intent, preferredKind topology.Kind, numaAddr uint64, basePriority int) *Task {
		st := &taskstate.State{
			Profile:           profile.Profile{Intent: intent, HasPrimaryDataRegion: true, PrimaryDataRegion: numaAddr},
			HasPreferredNUMA:  true,
			PreferredNUMANode: topo.NUMANodeOfAddress(numaAddr),
		}
		if intent == profile.LowLatency {
			st.PriorityBoost = htasconfig.LowLatencyPriorityBoost
		}
		return &Task{
			Name:          name,
			BasePriority:  basePriority,
			PreferredKind: preferredKind,
			State:         st,
		}
	}

	tasks := make([]*Task, 0, htasconfig.SimTaskCount)

	perf0 := mk("PERF0", profile.Performance, topology.PerformanceCore, 0, 12)
	tasks = append(tasks, perf0)

	perf1 := mk("PERF1", profile.Performance, topology.PerformanceCore, htasconfig.NUMARegionSizeBytes, 11)
	tasks = append(tasks, perf1)

	for i := 0; i < 4; i++ {
		effi := mk("EFFI"+string(rune('0'+i)), profile.Efficiency, topology.EfficiencyCore, htasconfig.NUMARegionSizeBytes, 10)
		effi.DutyPeriod = 5
		effi.ActiveTicks = 1
		tasks = append(tasks, effi)
	}

	lowLat := mk("LOWLAT", profile.LowLatency, topology.PerformanceCore, 0, 10)
	lowLat.PeriodMs = 16
	lowLat.WorkMs = 2
	lowLat.TimeSinceRelease = lowLat.PeriodMs
	tasks = append(tasks, lowLat)

	numaStress := mk("NUMASTRESS", profile.Performance, topology.EfficiencyCore, htasconfig.NUMARegionSizeBytes, 10)
	tasks = append(tasks, numaStress)

	return tasks
}
