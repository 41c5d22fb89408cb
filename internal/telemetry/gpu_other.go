//go:build !linux

package telemetry

// gpuSampler is a no-op on platforms without the Linux sysfs/helper
// sources this daemon targets.
type gpuSampler struct{}

func newGPUSampler(helperPath string) *gpuSampler {
	return &gpuSampler{}
}

func (g *gpuSampler) sample() int {
	return 0
}
