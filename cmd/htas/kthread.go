package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htas-project/htas/internal/kthread"
)

// demoPayload is the trivial counting loop body the original shell's
// `spawn` command ran: it does no real work, it just yields ticksBudget
// times and returns (halting the thread permanently, per spec §4.5).
func demoPayload(ticksBudget int) kthread.ThreadFunc {
	return func(y *kthread.Yielder) {
		for i := 0; i < ticksBudget; i++ {
			y.Yield()
		}
	}
}

func printThreadTable(s *kthread.Scheduler) {
	fmt.Println("ID  STATE    PRIORITY     NAME                 ")
	for _, t := range s.Threads() {
		marker := " "
		if t.ID == s.Current() {
			marker = "*"
		}
		fmt.Printf("%-3d %-8s %-12s %-20s %s\n", t.ID, t.State, t.Priority, t.Name, marker)
	}
}

func newPsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ps",
		Short: "List kernel threads (demonstration: spawns a couple of demo threads first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := kthread.NewScheduler()
			if _, err := s.Spawn("demo", kthread.Interactive, demoPayload(20)); err != nil {
				return err
			}
			if _, err := s.Spawn("demo", kthread.Background, demoPayload(20)); err != nil {
				return err
			}
			for i := 0; i < 5; i++ {
				s.Tick()
			}
			printThreadTable(s)
			return nil
		},
	}
}

func newSpawnCommand() *cobra.Command {
	var priorityFlag string
	var ticksFlag int
	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Create a demo kernel thread and run it forward by --ticks ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pri kthread.Priority
			switch priorityFlag {
			case "realtime":
				pri = kthread.Realtime
			case "interactive":
				pri = kthread.Interactive
			case "background":
				pri = kthread.Background
			case "batch":
				pri = kthread.Batch
			default:
				return fmt.Errorf("unknown priority %q (want realtime, interactive, background, batch)", priorityFlag)
			}

			s := kthread.NewScheduler()
			id, err := s.Spawn("spawn", pri, demoPayload(ticksFlag))
			if err != nil {
				return err
			}
			for i := 0; i < ticksFlag+5; i++ {
				s.Tick()
			}
			fmt.Printf("spawned thread %d\n", id)
			printThreadTable(s)
			return nil
		},
	}
	cmd.Flags().StringVar(&priorityFlag, "priority", "interactive", "priority class: realtime, interactive, background, batch")
	cmd.Flags().IntVar(&ticksFlag, "ticks", 10, "number of ticks the demo thread runs before halting")
	return cmd
}
