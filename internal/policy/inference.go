package policy

import (
	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/topology"
)

// inferredWakingBonus is the dynamic policy's stand-in for the hint-scored
// low-latency bonus: it cannot see intent, so any recently-woken candidate
// gets a small flat bonus instead of the larger declared-intent bonus.
const inferredWakingBonus = 5

// Inference is the behavior-inference "dynamic" policy: identical scoring
// structure to Hint, but every input is inferred from recently observed
// behavior instead of read from a declared profile.
type Inference struct{}

// Name implements Selector.
func (Inference) Name() string { return "DYNAMIC" }

// Select implements Selector.
func (Inference) Select(candidates []Candidate, cpu topology.CPU, tick uint64) int {
	best := -1
	bestScore := 0
	for _, c := range candidates {
		if c.Selected {
			continue
		}
		score := scoreInferred(c, cpu, tick)
		if best == -1 || score > bestScore {
			best = c.Index
			bestScore = score
		}
	}
	return best
}

func scoreInferred(c Candidate, cpu topology.CPU, tick uint64) int {
	score := c.BasePriority

	inferredKind := topology.EfficiencyCore
	if c.RecentCPUTicks > htasconfig.DynamicLoadThreshold {
		inferredKind = topology.PerformanceCore
	}
	switch {
	case inferredKind == cpu.Kind:
		score += coreKindMatchBonus
	case inferredKind == topology.PerformanceCore && cpu.Kind == topology.EfficiencyCore:
		score += coreKindMismatchPtoEPenalty
	case inferredKind == topology.EfficiencyCore && cpu.Kind == topology.PerformanceCore:
		score += coreKindMismatchEtoPPenalty
	}

	if c.InferredNUMANode == cpu.NUMANode {
		score += numaMatchBonus
	} else {
		score += numaMismatchPenalty
	}

	if c.WaitTicks > 0 {
		score += inferredWakingBonus
	}

	score += int(tick-c.LastScheduledTick) / 4
	score += c.PriorityBoostAging

	return score
}
