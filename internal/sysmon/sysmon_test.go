package sysmon

import (
	"context"
	"testing"
	"time"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestSample_MemPercentNonZero(t *testing.T) {
	s := Sample()
	if s.MemPercent == 0 {
		t.Error("expected non-zero MemPercent on a running system")
	}
}

func TestSampler_LatestUpdates(t *testing.T) {
	sampler := NewSampler(time.Millisecond) // raised to the 100ms floor
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		sampler.Run(ctx)
		close(done)
	}()

	// The priming sample runs before the ticker loop; poll for it.
	deadline := time.Now().Add(5 * time.Second)
	for sampler.Latest().MemPercent == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sampler never produced a snapshot")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sampler did not stop on cancellation")
	}
}
