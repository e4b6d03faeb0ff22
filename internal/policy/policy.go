// Package policy implements the three pure task-selection functions HTAS
// compares: round-robin baseline, hint-scored topology-aware, and
// inference-scored dynamic. Each is a function of a candidate set, a CPU,
// and the current tick (plus, for round-robin, its own cursor); none of
// them touch the machine topology or task registry directly. The caller
// (internal/simulator) passes every ready task, flagging those already
// selected for another CPU this tick; no affinity-mask filtering happens
// before Select, so a task's core-kind and NUMA preferences act only
// through the scoring terms.
package policy

import (
	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/topology"
)

// Candidate is everything a selection policy is allowed to look at when
// scoring one ready task for one CPU.
type Candidate struct {
	// Index identifies the candidate within the slice passed to Select; a
	// policy returns this value (or -1) rather than a pointer, keeping
	// Select a pure function over value data.
	Index int

	Selected bool // already picked for another CPU this tick

	BasePriority  int
	PreferredKind topology.Kind
	Intent        profile.Intent

	HasPreferredNUMA  bool
	PreferredNUMANode int

	WaitTicks          int // ticks since this candidate last became ready (waiting_since_ready)
	PriorityBoostAging int
	LastScheduledTick  uint64

	// Fields written by the simulator's inference accounting, read only by
	// the inference-scored policy.
	RecentCPUTicks   int
	InferredNUMANode int
}

// Selector is the common shape of all three policies.
type Selector interface {
	// Name identifies the policy for logging and statistics.
	Name() string
	// Select returns the Index of the candidate chosen to run on cpu at
	// tick, or -1 if no eligible candidate exists (the CPU goes idle).
	// Select only excludes candidates already Selected this tick; it
	// applies no affinity-mask check.
	Select(candidates []Candidate, cpu topology.CPU, tick uint64) int
}
