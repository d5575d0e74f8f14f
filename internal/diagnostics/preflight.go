// Package diagnostics reports host resource headroom before the expensive
// pipeline stages run. Training on an undersized machine fails late and
// opaquely (the tools die with CUDA or system OOM), so the known operational
// limits are checked up front.
package diagnostics

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/tkivisto/fewshot-go/internal/errors"
)

const (
	// minAvailableMemory below which training is likely to OOM.
	minAvailableMemory = 4 << 30 // 4 GiB
	// minFreeDisk below which checkpoints and sample arrays may not fit.
	minFreeDisk = 2 << 30 // 2 GiB
)

// Resources is a snapshot of the host headroom relevant to a run.
type Resources struct {
	AvailableMemory uint64 // bytes of memory available to the tools
	FreeDisk        uint64 // bytes free on the working directory volume
}

// Check measures available memory and free disk at workDir and returns the
// snapshot together with human-readable warnings for anything under the
// known limits.
func Check(workDir string) (Resources, []string, error) {
	var res Resources
	var warnings []string

	vm, err := mem.VirtualMemory()
	if err != nil {
		return res, nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "virtual-memory").
			Build()
	}
	res.AvailableMemory = vm.Available

	usage, err := disk.Usage(workDir)
	if err != nil {
		return res, nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "disk-usage").
			Context("dir", workDir).
			Build()
	}
	res.FreeDisk = usage.Free

	if res.AvailableMemory < minAvailableMemory {
		warnings = append(warnings, fmt.Sprintf(
			"available memory %.1f GiB is below %.0f GiB, training may run out of memory",
			gib(res.AvailableMemory), gib(minAvailableMemory)))
	}
	if res.FreeDisk < minFreeDisk {
		warnings = append(warnings, fmt.Sprintf(
			"free disk %.1f GiB at %s is below %.0f GiB, checkpoints may not fit",
			gib(res.FreeDisk), workDir, gib(minFreeDisk)))
	}

	return res, warnings, nil
}

func gib(b uint64) float64 {
	return float64(b) / (1 << 30)
}
