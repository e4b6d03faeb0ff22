package policy

import (
	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/topology"
)

// Hint-scored term magnitudes.
const (
	coreKindMatchBonus          = 12
	coreKindMismatchPtoEPenalty = -8
	coreKindMismatchEtoPPenalty = -6
	numaMatchBonus              = 8
	numaMismatchPenalty         = -6
	lowLatencyBonus             = 15
	lowLatencyWakingBonus       = 15
)

// Hint is the topology-aware policy: it scores every eligible candidate
// using the task's declared profile (core-kind preference, preferred NUMA
// node, intent) plus the shared age/aging terms, and picks the highest
// score, ties broken by lowest index.
type Hint struct{}

// Name implements Selector.
func (Hint) Name() string { return "HTAS" }

// Select implements Selector.
func (Hint) Select(candidates []Candidate, cpu topology.CPU, tick uint64) int {
	best := -1
	bestScore := 0
	for _, c := range candidates {
		if c.Selected {
			continue
		}
		score := scoreHinted(c, cpu, tick)
		if best == -1 || score > bestScore {
			best = c.Index
			bestScore = score
		}
	}
	return best
}

func scoreHinted(c Candidate, cpu topology.CPU, tick uint64) int {
	score := c.BasePriority

	switch {
	case c.PreferredKind == cpu.Kind:
		score += coreKindMatchBonus
	case c.PreferredKind == topology.PerformanceCore && cpu.Kind == topology.EfficiencyCore:
		score += coreKindMismatchPtoEPenalty
	case c.PreferredKind == topology.EfficiencyCore && cpu.Kind == topology.PerformanceCore:
		score += coreKindMismatchEtoPPenalty
	}

	if c.HasPreferredNUMA {
		if c.PreferredNUMANode == cpu.NUMANode {
			score += numaMatchBonus
		} else {
			score += numaMismatchPenalty
		}
	}

	if c.Intent == profile.LowLatency {
		score += lowLatencyBonus
		if c.WaitTicks > 0 {
			score += lowLatencyWakingBonus
		}
	}

	score += int(tick-c.LastScheduledTick) / 4
	score += c.PriorityBoostAging

	return score
}
