package kthread

import "testing"

func loopingThread(iterations int) ThreadFunc {
	return func(y *Yielder) {
		for i := 0; i < iterations; i++ {
			y.Yield()
		}
	}
}

func TestExactlyOneRunningAtATime(t *testing.T) {
	s := NewScheduler()
	if _, err := s.Spawn("a", Batch, loopingThread(500)); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if _, err := s.Spawn("b", Batch, loopingThread(500)); err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	for i := 0; i < 300; i++ {
		s.Tick()
		running := 0
		for _, th := range s.Threads() {
			if th.State == Running {
				running++
			}
		}
		if running != 1 {
			t.Fatalf("tick %d: %d threads RUNNING, want exactly 1", i, running)
		}
	}
}

func TestStarvedThreadEventuallyPromoted(t *testing.T) {
	s := NewScheduler()
	aID, err := s.Spawn("a", Batch, loopingThread(2000))
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	bID, err := s.Spawn("b", Batch, loopingThread(2000))
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}

	promoted := false
	for i := 0; i < 3*htasAgingThreshold()+50; i++ {
		s.Tick()
		for _, th := range s.Threads() {
			if (th.ID == aID || th.ID == bID) && th.Priority < Batch {
				promoted = true
			}
		}
		if promoted {
			break
		}
	}
	if !promoted {
		t.Errorf("neither thread was promoted above BATCH within 3*AGING_THRESHOLD+50 ticks")
	}
}

func TestSpawnFailsWhenTableFull(t *testing.T) {
	s := NewScheduler()
	ok := 0
	for i := 0; i < len(s.threads); i++ {
		if _, err := s.Spawn("x", Batch, loopingThread(1)); err != nil {
			break
		}
		ok++
	}
	if _, err := s.Spawn("overflow", Batch, loopingThread(1)); err != ErrNoFreeSlot {
		t.Errorf("Spawn on a full table = %v, want ErrNoFreeSlot", err)
	}
}

func TestPriorityString(t *testing.T) {
	if Realtime.String() != "REALTIME" || Batch.String() != "BATCH" {
		t.Errorf("Priority.String() mismatch: %q %q", Realtime.String(), Batch.String())
	}
}

func htasAgingThreshold() int { return 32 }
