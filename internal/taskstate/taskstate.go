// Package taskstate holds the per-task scheduler bookkeeping that sits
// between a declared profile.Profile and the selection policies: affinity
// mask, aging counters, and the fields the inference policy updates as it
// observes a task run. It also implements the set_profile operation, the
// one mutation point where a profile turns into this derived state.
package taskstate

import (
	"errors"

	"k8s.io/klog/v2"

	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/topology"
)

// ErrTaskNotFound is returned by SetProfile when the task id has not been
// registered with the registry.
var ErrTaskNotFound = errors.New("taskstate: task not found")

// ErrOutOfMemory is returned by SetProfile when state allocation fails. In
// this implementation that only happens when a test deliberately injects
// the fault via Registry.FailNextAllocation, since the Go runtime does not
// expose allocation failure as an ordinary catchable error the way a
// kernel-side fixed arena would.
var ErrOutOfMemory = errors.New("taskstate: out of memory")

// AffinityMask is a bitset over CPU ids; bit i set means the task may run
// on CPU i.
type AffinityMask uint32

// CanRunOn reports whether the mask permits the given CPU id.
func (m AffinityMask) CanRunOn(cpuID int) bool {
	if cpuID < 0 || cpuID >= 32 {
		return false
	}
	return m&(1<<uint(cpuID)) != 0
}

// State is the full per-task scheduler state: the fields every selection
// policy reads, and the fields only the inference policy and the simulator
// writes.
type State struct {
	TaskID  int
	Profile profile.Profile

	AffinityMask      AffinityMask
	PriorityBoost     int
	HasPreferredNUMA  bool
	PreferredNUMANode int

	// WaitTime and PriorityBoostAging implement the shared aging.Discipline
	// from the caller's point of view: WaitTime counts the ticks the task
	// spent ready but not selected since it last ran, PriorityBoostAging is
	// the bonus currently applied.
	WaitTime            int
	PriorityBoostAging  int

	// RecentCPUTicks, InferredNUMANode and InferredNUMALocked are written
	// by the simulator's accounting step under every policy and read only
	// by the inference-scored dynamic policy.
	RecentCPUTicks     int
	InferredNUMANode   int
	InferredNUMALocked bool

	TotalSwitches uint64
	NUMAPenalties uint64

	// LastScheduledTick is not written or read by internal/simulator, which
	// keeps the tick a task last ran in simulator.Task.LastScheduledTick for
	// the policies' age-since-scheduled bonus.
	LastScheduledTick uint64
}

// Registry owns the set of known task ids and their derived scheduler
// state. It is not safe for concurrent use; callers (the simulator's
// single-threaded tick loop, or a CLI command run to completion) own their
// own registry and never share one across goroutines.
type Registry struct {
	topo   *topology.Model
	states map[int]*State

	// FailNextAllocation, when true, makes the next SetProfile call on a
	// registered task id return ErrOutOfMemory without touching its state,
	// and resets itself to false; an unregistered id still gets
	// ErrTaskNotFound and leaves the flag set. Tests use this to exercise
	// the out-of-memory path deterministically.
	FailNextAllocation bool
}

// NewRegistry creates an empty registry bound to the given topology, used
// to compute affinity masks and preferred NUMA nodes from profiles.
func NewRegistry(topo *topology.Model) *Registry {
	return &Registry{topo: topo, states: make(map[int]*State)}
}

// Register makes taskID a valid target for SetProfile, with zeroed state
// until a profile is set. Re-registering an id is a no-op if state already
// exists.
func (r *Registry) Register(taskID int) {
	if _, ok := r.states[taskID]; ok {
		return
	}
	r.states[taskID] = &State{TaskID: taskID}
}

// Get returns the current state for taskID, or (nil, false) if it is not
// registered.
func (r *Registry) Get(taskID int) (*State, bool) {
	s, ok := r.states[taskID]
	return s, ok
}

// SetProfile implements the set_profile syscall surface (spec §4.2):
// deriving affinity mask and preferred NUMA node from the profile and
// storing it against taskID. It fails with ErrTaskNotFound if taskID was
// never registered, and with ErrOutOfMemory if allocation is deliberately
// made to fail via FailNextAllocation.
func (r *Registry) SetProfile(taskID int, p profile.Profile) error {
	s, ok := r.states[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	if r.FailNextAllocation {
		r.FailNextAllocation = false
		return ErrOutOfMemory
	}

	mask, fellBack := computeAffinityMask(r.topo, p)
	s.Profile = p
	s.AffinityMask = mask
	if p.Intent == profile.LowLatency {
		s.PriorityBoost = lowLatencyPriorityBoost
	} else {
		s.PriorityBoost = 0
	}
	if p.HasPrimaryDataRegion {
		s.HasPreferredNUMA = true
		s.PreferredNUMANode = r.topo.NUMANodeOfAddress(p.PrimaryDataRegion)
	} else {
		s.HasPreferredNUMA = false
		s.PreferredNUMANode = 0
	}

	if fellBack {
		klog.V(2).InfoS("affinity mask empty after NUMA intersection, falling back to intent-only mask",
			"taskID", taskID, "intent", p.Intent.String())
	}
	return nil
}

// lowLatencyPriorityBoost mirrors htasconfig.LowLatencyPriorityBoost
// without importing htasconfig, to avoid a needless dependency for one
// constant already duplicated at the topology/profile boundary elsewhere.
//
// kept equal to htasconfig.LowLatencyPriorityBoost by construction; see
// internal/htasconfig.
const lowLatencyPriorityBoost = 10

// computeAffinityMask derives the CPU affinity mask for a profile: the set
// of CPUs matching the declared intent's preferred core kind, intersected
// with the set of CPUs on the preferred NUMA node (if a primary data region
// was declared). If that intersection is empty, the mask falls back to the
// intent-only mask and the caller is told so, matching spec §4.2's rule
// that affinity must never end up empty.
func computeAffinityMask(topo *topology.Model, p profile.Profile) (mask AffinityMask, fellBack bool) {
	var intentMask AffinityMask
	for _, cpu := range topo.CPUs() {
		switch p.Intent {
		case profile.Efficiency:
			if cpu.Kind == topology.EfficiencyCore {
				intentMask |= 1 << uint(cpu.ID)
			}
		case profile.Performance, profile.LowLatency:
			if cpu.Kind == topology.PerformanceCore {
				intentMask |= 1 << uint(cpu.ID)
			}
		default: // profile.Default: no core-kind preference
			intentMask |= 1 << uint(cpu.ID)
		}
	}
	if intentMask == 0 {
		// No CPU of the preferred kind exists at all (not possible with the
		// fixed topology, but kept total): fall back to every CPU.
		for _, cpu := range topo.CPUs() {
			intentMask |= 1 << uint(cpu.ID)
		}
	}

	if !p.HasPrimaryDataRegion {
		return intentMask, false
	}

	node := topo.NUMANodeOfAddress(p.PrimaryDataRegion)
	var numaMask AffinityMask
	for _, cpu := range topo.CPUs() {
		if cpu.NUMANode == node {
			numaMask |= 1 << uint(cpu.ID)
		}
	}

	combined := intentMask & numaMask
	if combined == 0 {
		return intentMask, true
	}
	return combined, false
}
