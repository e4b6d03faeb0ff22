// Package htasconfig holds the fixed, build-time configuration of the
// simulated machine and the scheduling policies that run on it. None of
// these values are reconfigurable at runtime: the topology, the workload,
// and the policy constants are all part of the scenario being compared, not
// operator-tunable knobs.
package htasconfig

const (
	// NumCPUs is the number of logical CPUs in the simulated machine.
	NumCPUs = 4
	// NumNUMANodes is the number of NUMA nodes the CPUs are split across.
	NumNUMANodes = 2

	// NUMARegionSizeBytes is the size of each NUMA node's address region.
	NUMARegionSizeBytes = 128 * 1024 * 1024

	// ECoreSlowdownFactor is the efficiency-core slowdown factor printed by
	// `htas`. The simulator does not apply it: a tick on an efficiency core
	// is accounted and completes work exactly like a tick on a performance
	// core.
	ECoreSlowdownFactor = 2

	// NUMAPenaltyCycles is the cross-node penalty cost printed by `htas`.
	// The simulator counts each tick a task runs outside its preferred NUMA
	// node as one numa_penalties event and does not add this cycle cost.
	NUMAPenaltyCycles = 100

	// LowLatencyPriorityBoost is the static priority_boost value assigned to
	// tasks whose intent is LOW_LATENCY.
	LowLatencyPriorityBoost = 10

	// SimAgingThreshold is the wait-tick count after which a simulated task
	// is considered starved and receives an aging boost. The comparison is
	// strict: wait_time > SimAgingThreshold.
	SimAgingThreshold = 100

	// KernelAgingThreshold is the wait-tick count after which a kernel
	// thread is promoted one priority level. The comparison is inclusive:
	// wait_ticks >= KernelAgingThreshold.
	KernelAgingThreshold = 32

	// AgingPriorityBoost is the score bonus an aged simulated task receives.
	AgingPriorityBoost = 5

	// DynamicInferenceWindow is the inference window length printed by
	// `htas`. Neither the dynamic policy nor the simulator reads it: the
	// recent-cpu-ticks counter decays by one every tick instead.
	DynamicInferenceWindow = 50

	// DynamicLoadThreshold is the recent-cpu-ticks count above which the
	// dynamic policy treats a task as performance-core work; at or below it
	// the task is treated as efficiency-core work.
	DynamicLoadThreshold = 25

	// SimTickUs is the simulated duration of one scheduler tick, in
	// microseconds.
	SimTickUs = 1000

	// SimTaskCount is the number of tasks in the fixed benchmark workload.
	SimTaskCount = 8

	// SimPhaseTicksFull is the duration, in ticks, of one phase of
	// htas-full (15 simulated seconds at SimTickUs resolution).
	SimPhaseTicksFull = 15 * 1_000_000 / SimTickUs

	// SimPhaseTicksSingle is the duration, in ticks, of htas-baseline and
	// htas-test (30 simulated seconds).
	SimPhaseTicksSingle = 30 * 1_000_000 / SimTickUs

	// MaxKernelThreads bounds the kernel thread table, including the
	// permanent idle thread at slot 0.
	MaxKernelThreads = 16

	// KernelThreadStackBytes is a per-thread stack size that internal/kthread
	// does not use: its threads run on goroutine stacks.
	KernelThreadStackBytes = 8 * 1024
)
