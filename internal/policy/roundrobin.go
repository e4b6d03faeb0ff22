package policy

import "github.com/htas-project/htas/internal/topology"

// RoundRobin is the baseline selection policy: a single global cursor
// scanned forward, with no notion of hints, hardware kind, or NUMA
// locality at all.
type RoundRobin struct {
	cursor int
}

// Name implements Selector.
func (r *RoundRobin) Name() string { return "BASELINE" }

// Select scans forward from the cursor for the first ready, not-yet-
// selected-this-tick candidate. If every ready candidate has already been
// selected for another CPU this tick, the CPU goes idle (-1); a task
// selected for one CPU is ineligible for any other CPU in the same tick.
func (r *RoundRobin) Select(candidates []Candidate, cpu topology.CPU, tick uint64) int {
	n := len(candidates)
	if n == 0 {
		return -1
	}

	for step := 1; step <= n; step++ {
		idx := (r.cursor + step) % n
		if !candidates[idx].Selected {
			r.cursor = idx
			return candidates[idx].Index
		}
	}

	return -1
}
