// Command htas is the command-line surface for the Hint-Based
// Topology-Aware Scheduler core: it prints machine topology, runs
// benchmark phases under each selection policy, and exercises the
// kernel thread scheduler — mirroring the teacher's
// cmd/scheduler/main.go in wiring klog flags onto a cobra root command
// before running it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htas-project/htas/internal/htaslog"
)

func main() {
	root := newRootCommand()
	htaslog.AddFlags(root.PersistentFlags())
	defer htaslog.Flush()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "htas",
		Short: "Hint-Based Topology-Aware Scheduler research core",
		RunE:  runTopology,
	}

	root.AddCommand(
		newBaselineCommand(),
		newTestCommand(),
		newFullCommand(),
		newStatsCommand(),
		newSchedCommand(),
		newPsCommand(),
		newSpawnCommand(),
		newSetProfileCommand(),
		newAgingDemoCommand(),
	)
	return root
}
