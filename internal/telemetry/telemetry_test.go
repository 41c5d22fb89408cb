package telemetry

import "testing"

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"negative", -5, 0},
		{"zero", 0, 0},
		{"mid", 57.4, 57},
		{"round up", 57.6, 58},
		{"at cap", 99, 99},
		{"over cap", 150, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clamp(tt.in); got != tt.want {
				t.Errorf("clamp(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSampler_CPUAndMemoryNeverPanic(t *testing.T) {
	s := NewSampler("")
	cpuPct := s.CPU()
	memPct := s.Memory()
	if cpuPct < 0 || cpuPct > 99 {
		t.Errorf("CPU() = %d, want 0..99", cpuPct)
	}
	if memPct < 0 || memPct > 99 {
		t.Errorf("Memory() = %d, want 0..99", memPct)
	}
}

func TestSampler_GPUMissingHelperStaysInRange(t *testing.T) {
	s := NewSampler("/nonexistent/gpu-helper-binary")
	got := s.GPU()
	if got < 0 || got > 99 {
		t.Errorf("GPU() = %d, want 0..99", got)
	}
}
