package simulator

import (
	"github.com/htas-project/htas/internal/aging"
	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/policy"
	"github.com/htas-project/htas/internal/stats"
	"github.com/htas-project/htas/internal/topology"
)

// Phase runs one benchmark phase (a fixed number of ticks under one
// policy) against a workload, accumulating a stats.Record. It owns no
// global state: separate Phase values are fully independent, so BASELINE,
// HTAS and DYNAMIC phases in htas-full run against three untouched copies
// of the same workload.
type Phase struct {
	topo   *topology.Model
	tasks  []*Task
	sel    policy.Selector
	aging  aging.Discipline
	tick   uint64
	Stats  stats.Record

	lastTaskOnCPU []int // -1 means "no task scheduled there yet"
}

// NewPhase builds a phase driving tasks with selector sel over topo.
func NewPhase(topo *topology.Model, tasks []*Task, sel policy.Selector) *Phase {
	last := make([]int, topo.NumCPUs())
	for i := range last {
		last[i] = -1
	}
	return &Phase{
		topo:          topo,
		tasks:         tasks,
		sel:           sel,
		aging:         aging.Discipline{Threshold: htasconfig.SimAgingThreshold, Boost: htasconfig.AgingPriorityBoost},
		lastTaskOnCPU: last,
	}
}

// Run advances the phase by the given number of ticks and returns the
// accumulated statistics, with per-intent average latency finalized.
func (p *Phase) Run(ticks int) *stats.Record {
	for i := 0; i < ticks; i++ {
		p.runTick()
	}
	p.Stats.FinalizeLatency()
	return &p.Stats
}

func (p *Phase) runTick() {
	p.prepareReadiness()

	selected := make([]bool, len(p.tasks))
	for _, task := range p.tasks {
		task.SelectedThisTick = false
	}
	cpus := p.topo.CPUs()

	for _, cpu := range cpus {
		cands := p.buildCandidates(selected)
		choice := p.sel.Select(cands, cpu, p.tick)
		if choice == -1 {
			p.accountIdle(cpu)
			continue
		}
		selected[choice] = true
		p.tasks[choice].SelectedThisTick = true
		p.accountScheduled(cpu, choice)
	}

	p.finalizeTick(selected)
	p.Stats.TotalTicks++
	p.tick++
}

// buildCandidates constructs the policy-visible view of every ready task;
// tasks already selected for an earlier CPU this tick are included with
// Selected set, and the policy skips them. Eligibility is readiness alone: the
// benchmark workload's tasks are a fixed fixture independent of the
// set_profile/affinity-mask mechanism (internal/taskstate), so no affinity
// filtering applies here — only the hint/inference scoring terms express a
// task's hardware preference.
func (p *Phase) buildCandidates(selected []bool) []policy.Candidate {
	cands := make([]policy.Candidate, 0, len(p.tasks))
	for i, task := range p.tasks {
		if !task.Ready {
			continue
		}
		cands = append(cands, policy.Candidate{
			Index:              i,
			Selected:           selected[i],
			BasePriority:       task.BasePriority,
			PreferredKind:      task.PreferredKind,
			Intent:             task.State.Profile.Intent,
			HasPreferredNUMA:   task.State.HasPreferredNUMA,
			PreferredNUMANode:  task.State.PreferredNUMANode,
			WaitTicks:          task.WaitingSinceReady,
			PriorityBoostAging: task.State.PriorityBoostAging,
			LastScheduledTick:  task.LastScheduledTick,
			RecentCPUTicks:     task.State.RecentCPUTicks,
			InferredNUMANode:   task.State.InferredNUMANode,
		})
	}
	return cands
}

// prepareReadiness implements spec §4.4 step 1 for every task.
func (p *Phase) prepareReadiness() {
	for _, task := range p.tasks {
		switch {
		case task.DutyPeriod > 0:
			task.Ready = task.DutyPhase < task.ActiveTicks
			task.DutyPhase = (task.DutyPhase + 1) % task.DutyPeriod

		case task.PeriodMs > 0:
			if task.WorkRemaining == 0 {
				if task.TimeSinceRelease >= task.PeriodMs {
					task.WorkRemaining = task.WorkMs
					task.WaitingSinceReady = 0
					task.TimeSinceRelease = 0
				} else {
					task.TimeSinceRelease++
				}
			}
			task.Ready = task.WorkRemaining > 0

		default:
			task.Ready = true
		}
	}
}

// accountIdle applies the idle-CPU power proxy contribution (spec §4.4
// step 3's idle branch).
func (p *Phase) accountIdle(cpu topology.CPU) {
	if cpu.Kind == topology.PerformanceCore {
		p.Stats.TotalPowerConsumption += 30
	} else {
		p.Stats.TotalPowerConsumption += 20
	}
}

// accountScheduled implements spec §4.4 step 3 for one chosen (cpu, task).
func (p *Phase) accountScheduled(cpu topology.CPU, taskIdx int) {
	task := p.tasks[taskIdx]
	st := task.State

	if p.lastTaskOnCPU[cpu.ID] != taskIdx {
		p.Stats.ContextSwitches++
		st.TotalSwitches++
	}
	p.lastTaskOnCPU[cpu.ID] = taskIdx

	intent := st.Profile.Intent

	if cpu.Kind == topology.PerformanceCore {
		p.Stats.TotalPowerConsumption += 120
		p.Stats.PCoreTimeUs += 1000
		p.Stats.Intent[intent].RuntimeUs += 1000
	} else {
		p.Stats.TotalPowerConsumption += 70
		p.Stats.ECoreTimeUs += 1000
		p.Stats.Intent[intent].RuntimeUs += 1000
	}
	p.Stats.Intent[intent].Switches++

	if st.HasPreferredNUMA && cpu.NUMANode != st.PreferredNUMANode {
		p.Stats.NUMAPenalties++
		st.NUMAPenalties++
	}

	if task.PeriodMs > 0 && task.WorkRemaining == task.WorkMs {
		jitter := uint64(task.WaitingSinceReady) * 1000
		p.Stats.RecordLatencySample(jitter)
	}

	if task.PeriodMs > 0 {
		task.WorkRemaining--
		if task.WorkRemaining == 0 {
			task.TimeSinceRelease = 0
			task.Ready = false
		}
	}

	task.WaitingSinceReady = 0
	st.WaitTime = 0
	st.PriorityBoostAging = 0
	st.RecentCPUTicks++
	task.LastScheduledTick = p.tick

	// Inference shortcut: the inferred NUMA node is not observed from memory
	// accesses. It is locked to the declared preferred node the first time
	// the task runs on a CPU in that node; until then it stays 0.
	if st.HasPreferredNUMA && !st.InferredNUMALocked && cpu.NUMANode == st.PreferredNUMANode {
		st.InferredNUMANode = st.PreferredNUMANode
		st.InferredNUMALocked = true
	}
}

// finalizeTick implements spec §4.4 step 4.
func (p *Phase) finalizeTick(selected []bool) {
	for i, task := range p.tasks {
		st := task.State
		if task.Ready && !selected[i] {
			st.WaitTime++
			if p.aging.ShouldBoost(st.WaitTime) {
				st.PriorityBoostAging = htasconfig.AgingPriorityBoost
			}
		}
		if task.PeriodMs > 0 && task.WorkRemaining > 0 && !selected[i] {
			task.WaitingSinceReady++
		}
		if st.RecentCPUTicks > 0 {
			st.RecentCPUTicks--
		}
	}
}
