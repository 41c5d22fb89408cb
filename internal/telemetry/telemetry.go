// Package telemetry samples host CPU, memory, and GPU utilization for
// the small-window keep-alive payload. Every sampler clamps to 0..99
// and tolerates missing sources by returning 0 rather than erroring.
package telemetry

import (
	"math"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ardnew/deckd/pkg"
)

// clamp restricts v to the inclusive range [0, 99].
func clamp(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 99 {
		return 99
	}
	return r
}

// Sampler produces CPU/memory/GPU percentages for the keep-alive and
// small-window payloads.
type Sampler struct {
	gpu *gpuSampler
}

// NewSampler returns a sampler that uses the optional GPU helper path.
// On Linux an empty string falls back to the DECKD_GPU_HELPER
// environment variable; with neither set, GPU sampling goes straight to
// the sysfs and nvidia-smi sources.
func NewSampler(gpuHelperPath string) *Sampler {
	return &Sampler{gpu: newGPUSampler(gpuHelperPath)}
}

// CPU returns current CPU utilization in 0..99. It delegates to
// gopsutil's non-blocking delta mode (interval 0), which maintains the
// previous sample's totals internally and returns 0 on the very first
// call — matching the device contract's "first sample returns 0"
// requirement without this package re-deriving /proc/stat deltas by
// hand.
func (s *Sampler) CPU() int {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		pkg.LogWarn(pkg.ComponentTelemetry, "cpu sample failed", "err", err)
		return 0
	}
	return clamp(percents[0])
}

// Memory returns (MemTotal-MemAvailable)*100/MemTotal, clamped to 0..99.
func (s *Sampler) Memory() int {
	vm, err := mem.VirtualMemory()
	if err != nil {
		pkg.LogWarn(pkg.ComponentTelemetry, "memory sample failed", "err", err)
		return 0
	}
	return clamp(vm.UsedPercent)
}

// GPU returns the configured GPU sampler's best-effort utilization.
func (s *Sampler) GPU() int {
	return s.gpu.sample()
}
