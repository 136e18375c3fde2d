// Package sysmon provides system-wide CPU and memory usage sampling for the
// dashboard's resource gauges.
package sysmon

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Sampler samples resource usage on a fixed interval and keeps the latest
// snapshot available to concurrent readers.
type Sampler struct {
	interval time.Duration

	mu     sync.RWMutex
	latest Stats
}

// NewSampler creates a sampler with the given interval. Intervals below
// 100ms are raised to 100ms; gopsutil's delta-based CPU sampling is
// meaningless on shorter windows.
func NewSampler(interval time.Duration) *Sampler {
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return &Sampler{interval: interval}
}

// Run samples until the context is canceled. It takes one immediate sample
// to prime the CPU delta before entering the loop.
func (s *Sampler) Run(ctx context.Context) {
	s.store(Sample())
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.store(Sample())
		}
	}
}

func (s *Sampler) store(stats Stats) {
	s.mu.Lock()
	s.latest = stats
	s.mu.Unlock()
}

// Latest returns the most recent snapshot (zero values before the first
// sample completes).
func (s *Sampler) Latest() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
