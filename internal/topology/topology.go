// Package topology models the fixed, asymmetric NUMA machine that every
// scheduling policy runs against: a small set of CPUs of two different
// kinds, grouped into NUMA nodes, each node owning one contiguous address
// region. The model is read-only after construction and every lookup is
// total — an out-of-range CPU id or address never panics, it resolves to a
// documented default, the same way a real topology walk falls back to node
// 0 rather than faulting when asked about hardware it doesn't recognize.
package topology

import "github.com/htas-project/htas/internal/htasconfig"

// Kind distinguishes the two classes of CPU core in the simulated machine.
type Kind int

const (
	// PerformanceCore is a high-clock, high-power core.
	PerformanceCore Kind = iota
	// EfficiencyCore is a lower-clock, lower-power core. The simulator
	// accounts a tick on one with the same 1000µs of residency and one unit
	// of work as a tick on a PerformanceCore; htasconfig.ECoreSlowdownFactor
	// is not applied.
	EfficiencyCore
)

// String renders the kind the way diagnostics and CLI output expect it.
func (k Kind) String() string {
	switch k {
	case PerformanceCore:
		return "P-core"
	case EfficiencyCore:
		return "E-core"
	default:
		return "unknown-core"
	}
}

// CPU describes one logical CPU of the simulated machine.
type CPU struct {
	ID       int
	Kind     Kind
	NUMANode int
}

// Region describes one NUMA node's address range.
type Region struct {
	Node int
	Base uint64
	Size uint64
}

// Model is the machine's fixed topology: which CPUs exist, what kind they
// are, which NUMA node they belong to, and which address range each NUMA
// node owns.
type Model struct {
	cpus    []CPU
	regions []Region
}

// New builds the fixed HTAS reference machine: two performance cores and
// two efficiency cores, split evenly across two NUMA nodes, each node
// owning one 128MiB region starting at address 0 for node 0 and
// immediately following it for node 1.
func New() *Model {
	return &Model{
		cpus: []CPU{
			{ID: 0, Kind: PerformanceCore, NUMANode: 0},
			{ID: 1, Kind: PerformanceCore, NUMANode: 0},
			{ID: 2, Kind: EfficiencyCore, NUMANode: 1},
			{ID: 3, Kind: EfficiencyCore, NUMANode: 1},
		},
		regions: []Region{
			{Node: 0, Base: 0, Size: htasconfig.NUMARegionSizeBytes},
			{Node: 1, Base: htasconfig.NUMARegionSizeBytes, Size: htasconfig.NUMARegionSizeBytes},
		},
	}
}

// NewSingleCPU builds a reduced one-CPU, one-NUMA-node model, used by the
// standalone aging demonstration (spec.md §9's bully/victim trace) and by
// tests exercising the aging discipline in isolation from NUMA/core-kind
// scoring, the same way the original benchmark's aging trace ran against a
// simplified single-CPU setup rather than the full topology.
func NewSingleCPU() *Model {
	return &Model{
		cpus:    []CPU{{ID: 0, Kind: PerformanceCore, NUMANode: 0}},
		regions: []Region{{Node: 0, Base: 0, Size: htasconfig.NUMARegionSizeBytes}},
	}
}

// CPUs returns the machine's CPU descriptors in ascending id order. The
// returned slice is owned by the caller; Model never mutates its own copy.
func (m *Model) CPUs() []CPU {
	out := make([]CPU, len(m.cpus))
	copy(out, m.cpus)
	return out
}

// Regions returns the machine's NUMA regions in ascending node order.
func (m *Model) Regions() []Region {
	out := make([]Region, len(m.regions))
	copy(out, m.regions)
	return out
}

// NumCPUs reports the number of CPUs in the machine.
func (m *Model) NumCPUs() int { return len(m.cpus) }

// NumNUMANodes reports the number of NUMA nodes in the machine.
func (m *Model) NumNUMANodes() int { return len(m.regions) }

// CPUKind reports the kind of the given CPU id. An out-of-range id resolves
// to PerformanceCore, matching the original implementation's conservative
// fallback when asked about a CPU outside the known table.
func (m *Model) CPUKind(cpuID int) Kind {
	if cpuID < 0 || cpuID >= len(m.cpus) {
		return PerformanceCore
	}
	return m.cpus[cpuID].Kind
}

// NUMANodeOfCPU reports the NUMA node the given CPU id belongs to. An
// out-of-range id resolves to node 0.
func (m *Model) NUMANodeOfCPU(cpuID int) int {
	if cpuID < 0 || cpuID >= len(m.cpus) {
		return 0
	}
	return m.cpus[cpuID].NUMANode
}

// NUMANodeOfAddress reports which NUMA node owns the given address. An
// address outside every known region resolves to node 0.
func (m *Model) NUMANodeOfAddress(addr uint64) int {
	for _, r := range m.regions {
		if addr >= r.Base && addr < r.Base+r.Size {
			return r.Node
		}
	}
	return 0
}
