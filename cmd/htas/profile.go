package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/taskstate"
	"github.com/htas-project/htas/internal/topology"
)

// newSetProfileCommand exposes the set_profile syscall surface (spec
// §4.2) from the command line: it registers a single task id fresh in a
// new registry, sets its profile, and prints the resulting derived state,
// since there is no persistent task table for it to attach to across
// process invocations.
func newSetProfileCommand() *cobra.Command {
	var intentFlag string
	var addrFlag string
	var sizeFlag uint64
	cmd := &cobra.Command{
		Use:   "set-profile <task-id>",
		Short: "Attach a profile to a task id and print the derived scheduler state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad task id %q: %w", args[0], err)
			}

			var intent profile.Intent
			switch intentFlag {
			case "performance":
				intent = profile.Performance
			case "efficiency":
				intent = profile.Efficiency
			case "low-latency":
				intent = profile.LowLatency
			case "default":
				intent = profile.Default
			default:
				return fmt.Errorf("unknown intent %q (want performance, efficiency, low-latency, default)", intentFlag)
			}

			p := profile.Profile{Intent: intent, DataSize: sizeFlag}
			if addrFlag != "" {
				addr, err := strconv.ParseUint(addrFlag, 0, 64)
				if err != nil {
					return fmt.Errorf("bad address %q: %w", addrFlag, err)
				}
				p.HasPrimaryDataRegion = true
				p.PrimaryDataRegion = addr
			}

			topo := topology.New()
			reg := taskstate.NewRegistry(topo)
			reg.Register(taskID)
			if err := reg.SetProfile(taskID, p); err != nil {
				return err
			}

			st, _ := reg.Get(taskID)
			fmt.Printf("task %d: intent=%s affinity_mask=%#b priority_boost=%d",
				taskID, intent, st.AffinityMask, st.PriorityBoost)
			if st.HasPreferredNUMA {
				fmt.Printf(" preferred_numa_node=%d", st.PreferredNUMANode)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().StringVar(&intentFlag, "intent", "default", "intent: performance, efficiency, low-latency, default")
	cmd.Flags().StringVar(&addrFlag, "addr", "", "primary data region address (e.g. 0x8000000)")
	cmd.Flags().Uint64Var(&sizeFlag, "size", 0, "primary data region size in bytes")
	return cmd
}
