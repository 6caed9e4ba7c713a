package worker

import (
	"context"
	"testing"
	"time"
)

func TestGovernor_EnforcesMinimumSpacing(t *testing.T) {
	g := NewGovernor(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := g.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	// First slot is immediate, the next two wait one interval each
	if elapsed < 100*time.Millisecond {
		t.Errorf("3 waits finished in %v, expected at least 100ms", elapsed)
	}
}

func TestGovernor_WaitHonorsContext(t *testing.T) {
	g := NewGovernor(time.Hour)
	g.Allow() // consume the immediate slot

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := g.Wait(ctx); err == nil {
		t.Error("expected context error while waiting for a distant slot")
	}
}

func TestGovernor_AllowConsumesSlot(t *testing.T) {
	g := NewGovernor(time.Hour)
	if !g.Allow() {
		t.Fatal("first Allow should succeed")
	}
	if g.Allow() {
		t.Error("second Allow within the interval should fail")
	}
}

func TestGovernor_DefaultsBadInterval(t *testing.T) {
	g := NewGovernor(0)
	if g == nil || g.limiter == nil {
		t.Fatal("zero interval must fall back to a sane default")
	}
	if !g.Allow() {
		t.Error("first slot should be available")
	}
}
