//go:build linux

package telemetry

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/deckd/pkg"
)

// gpuHelperEnv names the environment variable carrying an optional path
// to an external GPU-usage helper program, consulted before sysfs.
const gpuHelperEnv = "DECKD_GPU_HELPER"

// gpuHelperTimeout bounds how long the daemon waits on the helper
// process so a hung helper never blocks the event loop for long.
const gpuHelperTimeout = 200 * time.Millisecond

// Candidate sysfs nodes per vendor, tried in order until one yields a
// usable percentage.
var amdSysfsPaths = []string{
	"/sys/class/drm/card0/device/gpu_busy_percent",
	"/sys/class/drm/card1/device/gpu_busy_percent",
}

var intelSysfsPaths = []string{
	"/sys/class/drm/card0/gt_busy",
	"/sys/class/drm/card0/engine/rcs0/busy",
}

var devfreqGlob = "/sys/class/devfreq/*/load"

type gpuSampler struct {
	helperPath string
}

func newGPUSampler(helperPath string) *gpuSampler {
	if helperPath == "" {
		helperPath = os.Getenv(gpuHelperEnv)
	}
	return &gpuSampler{helperPath: helperPath}
}

// sample returns GPU utilization in 0..99, or 0 if no source is
// available. It prefers the external helper, then falls back through
// vendor-specific sysfs nodes.
func (g *gpuSampler) sample() int {
	if g.helperPath != "" {
		if v, ok := g.fromHelper(); ok {
			return clamp(float64(v))
		}
	}
	if v, ok := readPercentFromPaths(amdSysfsPaths); ok {
		return clamp(float64(v))
	}
	if v, ok := nvidiaSMIPercent(); ok {
		return clamp(float64(v))
	}
	if v, ok := readPercentFromPaths(intelSysfsPaths); ok {
		return clamp(float64(v))
	}
	if v, ok := devfreqPercent(); ok {
		return clamp(float64(v))
	}
	return 0
}

// fromHelper runs the configured helper and parses a single integer
// from its stdout.
func (g *gpuSampler) fromHelper() (int, bool) {
	resolved, err := exec.LookPath(g.helperPath)
	if err != nil {
		resolved = g.helperPath // allow absolute paths not on $PATH
	}
	cmd := exec.Command(resolved)
	var out bytes.Buffer
	cmd.Stdout = &out

	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		pkg.LogWarn(pkg.ComponentTelemetry, "gpu helper start failed", "err", err)
		return 0, false
	}
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return 0, false
		}
	case <-time.After(gpuHelperTimeout):
		_ = cmd.Process.Kill()
		pkg.LogWarn(pkg.ComponentTelemetry, "gpu helper timed out")
		return 0, false
	}

	v, err := strconv.Atoi(strings.TrimSpace(out.String()))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func readPercentFromPaths(paths []string) (int, bool) {
	for _, p := range paths {
		v, err := readSysfsUint(p)
		if err == nil {
			return int(v), true
		}
	}
	return 0, false
}

func devfreqPercent() (int, bool) {
	matches, err := filepath.Glob(devfreqGlob)
	if err != nil || len(matches) == 0 {
		return 0, false
	}
	s, err := readSysfsString(matches[0])
	if err != nil {
		return 0, false
	}
	// Format is typically "NN@freqHz", percent before '@'.
	if i := strings.IndexByte(s, '@'); i > 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}

// nvidiaSMIPercent shells out to nvidia-smi, the vendor-blessed way to
// query utilization without linking against the proprietary driver.
func nvidiaSMIPercent() (int, bool) {
	out, err := exec.Command("nvidia-smi",
		"--query-gpu=utilization.gpu", "--format=csv,noheader,nounits").Output()
	if err != nil {
		return 0, false
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if !scanner.Scan() {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0, false
	}
	return v, true
}

func readSysfsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readSysfsUint(path string) (uint64, error) {
	s, err := readSysfsString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 10, 64)
}
