package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htas-project/htas/internal/aging"
	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/policy"
	"github.com/htas-project/htas/internal/topology"
)

// newAgingDemoCommand narrates a single-CPU bully/victim scenario under the
// hint-scored policy for SimAgingThreshold+5 ticks: a base-priority-12
// bully against a base-priority-5 victim. If the victim's wait_time crosses
// the aging threshold it reports starvation and applies
// priority_boost_aging. With these priorities the age-since-scheduled
// score term already puts the victim on the CPU every 32 ticks, so its
// wait_time stays below the threshold and the run ends with the "never
// starved" line. It is built directly on internal/aging and
// internal/policy rather than a bespoke copy of the scoring logic.
func newAgingDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aging-demo",
		Short: "Narrate a single-CPU bully/victim scenario and report whether the aging rule fires",
		RunE: func(cmd *cobra.Command, args []string) error {
			topo := topology.NewSingleCPU()
			cpu := topo.CPUs()[0]
			disc := aging.Discipline{Threshold: htasconfig.SimAgingThreshold, Boost: htasconfig.AgingPriorityBoost}

			bully := &policy.Candidate{Index: 0, BasePriority: 12}
			victim := &policy.Candidate{Index: 1, BasePriority: 5}

			fmt.Println("=== aging demo: bully (priority 12) vs victim (priority 5) on a single CPU ===")

			sel := policy.Hint{}
			detected := false
			for tick := uint64(0); tick < uint64(htasconfig.SimAgingThreshold)+5; tick++ {
				cands := []policy.Candidate{*bully, *victim}
				winner := sel.Select(cands, cpu, tick)

				if winner == bully.Index {
					bully.LastScheduledTick = tick
					victim.WaitTicks++
					if disc.ShouldBoost(victim.WaitTicks) && victim.PriorityBoostAging == 0 {
						victim.PriorityBoostAging = disc.Boost
						fmt.Printf("tick %4d: *** VICTIM STARVATION DETECTED *** wait_time=%d, priority_boost_aging=%d\n",
							tick, victim.WaitTicks, victim.PriorityBoostAging)
						detected = true
					} else {
						fmt.Printf("tick %4d: bully runs (victim wait_time=%d)\n", tick, victim.WaitTicks)
					}
				} else {
					fmt.Printf("tick %4d: *** VICTIM RUNS! *** (wait_time was %d)\n", tick, victim.WaitTicks)
					victim.LastScheduledTick = tick
					victim.WaitTicks = 0
					victim.PriorityBoostAging = 0
					bully.WaitTicks++
				}
			}

			if !detected {
				fmt.Println("victim never starved past the aging threshold in this run")
			}
			return nil
		},
	}
}
