package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/htas-project/htas/internal/htasconfig"
	"github.com/htas-project/htas/internal/topology"
)

// runTopology implements the bare `htas` command: print CPU table, NUMA
// region table, and live simulation parameters, the way the original
// htas_print_topology did.
func runTopology(cmd *cobra.Command, args []string) error {
	topo := topology.New()

	fmt.Println("=== HTAS topology ===")
	for _, cpu := range topo.CPUs() {
		fmt.Printf("cpu%d: kind=%s numa_node=%d\n", cpu.ID, cpu.Kind, cpu.NUMANode)
	}
	fmt.Println()
	fmt.Println("=== NUMA regions ===")
	for _, r := range topo.Regions() {
		fmt.Printf("node%d: base=0x%08x size=0x%08x\n", r.Node, r.Base, r.Size)
	}
	fmt.Println()
	fmt.Println("=== simulation parameters ===")
	fmt.Printf("ecore_slowdown_factor:      %d\n", htasconfig.ECoreSlowdownFactor)
	fmt.Printf("numa_penalty_cycles:        %d\n", htasconfig.NUMAPenaltyCycles)
	fmt.Printf("low_latency_priority_boost: %d\n", htasconfig.LowLatencyPriorityBoost)
	fmt.Printf("sim_aging_threshold:        %d\n", htasconfig.SimAgingThreshold)
	fmt.Printf("kernel_aging_threshold:     %d\n", htasconfig.KernelAgingThreshold)
	fmt.Printf("aging_priority_boost:       %d\n", htasconfig.AgingPriorityBoost)
	fmt.Printf("dynamic_inference_window:   %d\n", htasconfig.DynamicInferenceWindow)
	fmt.Printf("dynamic_load_threshold:     %d\n", htasconfig.DynamicLoadThreshold)
	fmt.Printf("sim_tick_us:                %d\n", htasconfig.SimTickUs)
	fmt.Printf("sim_task_count:             %d\n", htasconfig.SimTaskCount)
	fmt.Println()
	fmt.Printf("current policy: %s\n", defaultPolicyName)
	return nil
}
