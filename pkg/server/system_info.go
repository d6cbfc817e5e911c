package server

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/denysvitali/meshscan/internal/models"
)

// systemResources collects host and process usage with gopsutil.
// Probes that fail are logged and left at zero.
func (s *Server) systemResources() models.SystemResources {
	resources := models.SystemResources{
		CPUCount: runtime.NumCPU(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err != nil {
		s.logger.Warnf("Failed to get process info: %v", err)
	} else {
		if cpuPercent, err := proc.CPUPercent(); err != nil {
			s.logger.Warnf("Failed to get CPU percent: %v", err)
		} else {
			resources.CPUPercent = cpuPercent
		}

		if memInfo, err := proc.MemoryInfo(); err != nil {
			s.logger.Warnf("Failed to get process memory info: %v", err)
		} else {
			resources.ProcessRSS = memInfo.RSS
		}
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		s.logger.Warnf("Failed to get memory stats: %v", err)
	} else {
		resources.MemoryTotal = vm.Total
		resources.MemoryUsed = vm.Used
		resources.MemoryPercent = vm.UsedPercent
	}

	diskPath := s.config.Scan.Root
	if diskPath == "" {
		diskPath = "/"
	}
	if usage, err := disk.Usage(diskPath); err != nil {
		s.logger.Warnf("Failed to get disk usage for %s: %v", diskPath, err)
	} else {
		resources.DiskTotal = usage.Total
		resources.DiskUsed = usage.Used
		resources.DiskPercent = usage.UsedPercent
	}

	return resources
}
