package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/metrics"
	"github.com/htas-project/htas/internal/policy"
	"github.com/htas-project/htas/internal/simulator"
	"github.com/htas-project/htas/internal/stats"
	"github.com/htas-project/htas/internal/topology"
)

// defaultPolicyName is printed by the bare `htas` command and used by
// `sched`/`htas-stats` as the policy run when none is explicitly given.
// There is no cross-process persistence of an "active policy" (spec's
// Non-goals exclude scheduler-state persistence): each invocation of this
// binary is its own process, so "current policy" here means "the policy
// this invocation defaults to", not state surviving between commands.
var defaultPolicyName = "HTAS"

func policyByName(name string) (policy.Selector, string, error) {
	switch name {
	case "baseline", "BASELINE":
		return &policy.RoundRobin{}, "BASELINE", nil
	case "htas", "HTAS":
		return policy.Hint{}, "HTAS", nil
	case "dynamic", "DYNAMIC":
		return policy.Inference{}, "DYNAMIC", nil
	default:
		return nil, "", fmt.Errorf("unknown policy %q (want baseline, htas, or dynamic)", name)
	}
}

func runPhase(sel policy.Selector, name string, ticks int) *stats.Record {
	topo := topology.New()
	tasks := simulator.NewFixedWorkload(topo)
	phase := simulator.NewPhase(topo, tasks, sel)
	klog.V(2).InfoS("starting benchmark phase", "policy", name, "ticks", ticks)
	rec := phase.Run(ticks)
	metrics.Observe(name, rec)
	return rec
}

func newBaselineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "htas-baseline",
		Short: "Run a 30s benchmark phase under the round-robin baseline policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := runPhase(&policy.RoundRobin{}, "BASELINE", htasconfig.SimPhaseTicksSingle)
			fmt.Print(stats.Print("BASELINE", rec))
			return nil
		},
	}
}

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "htas-test",
		Short: "Run a 30s benchmark phase under the hint-scored HTAS policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := runPhase(policy.Hint{}, "HTAS", htasconfig.SimPhaseTicksSingle)
			fmt.Print(stats.Print("HTAS", rec))
			return nil
		},
	}
}

func newFullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "htas-full",
		Short: "Run BASELINE, HTAS, and DYNAMIC phases and print pairwise comparisons",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseline := runPhase(&policy.RoundRobin{}, "BASELINE", htasconfig.SimPhaseTicksFull)
			htas := runPhase(policy.Hint{}, "HTAS", htasconfig.SimPhaseTicksFull)
			dynamic := runPhase(policy.Inference{}, "DYNAMIC", htasconfig.SimPhaseTicksFull)

			fmt.Print(stats.Print("BASELINE", baseline))
			fmt.Print(stats.Print("HTAS", htas))
			fmt.Print(stats.Print("DYNAMIC", dynamic))
			fmt.Println()
			fmt.Print(stats.CompareAll(baseline, htas, dynamic))
			return nil
		},
	}
}

func newStatsCommand() *cobra.Command {
	var policyFlag string
	cmd := &cobra.Command{
		Use:   "htas-stats",
		Short: "Print the active policy's stats over a 30s phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, name, err := policyByName(policyFlag)
			if err != nil {
				return err
			}
			rec := runPhase(sel, name, htasconfig.SimPhaseTicksSingle)
			fmt.Print(stats.Print(name, rec))
			return nil
		},
	}
	cmd.Flags().StringVar(&policyFlag, "policy", defaultPolicyName, "policy to report stats for (baseline, htas, dynamic)")
	return cmd
}

func newSchedCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "sched {baseline|htas|dynamic}",
		Short:     "Switch the default policy for this invocation",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"baseline", "htas", "dynamic"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, name, err := policyByName(args[0])
			if err != nil {
				return err
			}
			defaultPolicyName = name
			fmt.Printf("default policy set to %s (scoped to this process; in-progress phases are unaffected)\n", name)
			return nil
		},
	}
}
