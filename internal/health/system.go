package health

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/haroon0x/agent-orchestrator/internal/model"
)

// SampleSystem gathers one host-wide reading, grounded on the teacher's
// monitor.go collectMetrics (cpu.Percent/mem.VirtualMemory) extended
// with disk and load average per spec.md §4.8.
func SampleSystem(activeContainers, failedContainers int) model.SystemHealth {
	sys := model.SystemHealth{
		ActiveContainers: activeContainers,
		FailedContainers: failedContainers,
		Timestamp:        time.Now().Unix(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		sys.CPUPercent = percents[0]
	} else if err != nil {
		logging.Log.WithError(err).Warn("sampling system cpu failed")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		sys.MemoryPercent = vm.UsedPercent
	} else {
		logging.Log.WithError(err).Warn("sampling system memory failed")
	}

	if usage, err := disk.Usage("/"); err == nil {
		sys.DiskPercent = usage.UsedPercent
	} else {
		logging.Log.WithError(err).Warn("sampling disk usage failed")
	}

	if avg, err := load.Avg(); err == nil {
		sys.LoadAverage = []float64{avg.Load1, avg.Load5, avg.Load15}
	} else {
		logging.Log.WithError(err).Warn("sampling load average failed")
	}

	return sys
}
