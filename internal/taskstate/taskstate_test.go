package taskstate

import (
	"testing"

	"github.com/htas-project/htas/internal/profile"
	"github.com/htas-project/htas/internal/topology"
)

func TestSetProfileNotFound(t *testing.T) {
	r := NewRegistry(topology.New())
	err := r.SetProfile(42, profile.Profile{Intent: profile.Performance})
	if err != ErrTaskNotFound {
		t.Fatalf("SetProfile on unregistered task = %v, want ErrTaskNotFound", err)
	}
}

func TestSetProfileOutOfMemory(t *testing.T) {
	r := NewRegistry(topology.New())
	r.Register(1)
	r.FailNextAllocation = true
	err := r.SetProfile(1, profile.Profile{Intent: profile.Performance})
	if err != ErrOutOfMemory {
		t.Fatalf("SetProfile with injected fault = %v, want ErrOutOfMemory", err)
	}
	// The fault is one-shot.
	if err := r.SetProfile(1, profile.Profile{Intent: profile.Performance}); err != nil {
		t.Fatalf("second SetProfile = %v, want nil", err)
	}
}

func TestAffinityMaskNeverEmpty(t *testing.T) {
	r := NewRegistry(topology.New())
	r.Register(1)
	// Efficiency intent with a primary data region on NUMA node 0 (owned by
	// the performance cores): intent mask (E-cores: 2,3) intersected with
	// NUMA mask (node 0: 0,1) is empty, so the fallback must kick in and
	// leave a non-empty mask.
	err := r.SetProfile(1, profile.Profile{
		Intent:               profile.Efficiency,
		HasPrimaryDataRegion: true,
		PrimaryDataRegion:    0,
	})
	if err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	s, _ := r.Get(1)
	if s.AffinityMask == 0 {
		t.Fatalf("AffinityMask = 0, want non-empty fallback mask")
	}
	if !s.AffinityMask.CanRunOn(2) || !s.AffinityMask.CanRunOn(3) {
		t.Errorf("AffinityMask = %#b, want E-core-only fallback (bits 2,3)", s.AffinityMask)
	}
}

func TestAffinityMaskIntersection(t *testing.T) {
	r := NewRegistry(topology.New())
	r.Register(1)
	// Performance intent (P-cores: 0,1) with a data region on NUMA node 0
	// (also owned by the P-cores): intersection is {0,1}, non-empty.
	if err := r.SetProfile(1, profile.Profile{
		Intent:               profile.Performance,
		HasPrimaryDataRegion: true,
		PrimaryDataRegion:    0,
	}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	s, _ := r.Get(1)
	if !s.AffinityMask.CanRunOn(0) || !s.AffinityMask.CanRunOn(1) {
		t.Errorf("AffinityMask = %#b, want {0,1}", s.AffinityMask)
	}
	if s.AffinityMask.CanRunOn(2) || s.AffinityMask.CanRunOn(3) {
		t.Errorf("AffinityMask = %#b, want no E-core bits", s.AffinityMask)
	}
	if !s.HasPreferredNUMA || s.PreferredNUMANode != 0 {
		t.Errorf("PreferredNUMANode = %d (has=%v), want 0 (has=true)", s.PreferredNUMANode, s.HasPreferredNUMA)
	}
}

func TestLowLatencyPriorityBoost(t *testing.T) {
	r := NewRegistry(topology.New())
	r.Register(1)
	if err := r.SetProfile(1, profile.Profile{Intent: profile.LowLatency}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	s, _ := r.Get(1)
	if s.PriorityBoost != lowLatencyPriorityBoost {
		t.Errorf("PriorityBoost = %d, want %d", s.PriorityBoost, lowLatencyPriorityBoost)
	}
}

func TestNoPrimaryDataRegionLeavesNoPreferredNUMA(t *testing.T) {
	r := NewRegistry(topology.New())
	r.Register(1)
	if err := r.SetProfile(1, profile.Profile{Intent: profile.Default}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	s, _ := r.Get(1)
	if s.HasPreferredNUMA {
		t.Errorf("HasPreferredNUMA = true, want false when no primary data region was declared")
	}
}
