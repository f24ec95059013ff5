package sysinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// Info is the machine a sweep ran on. Solver wall times are only comparable
// between reports collected on similar machines.
type Info struct {
	Hostname string `json:"hostname"`
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	Cores    int    `json:"cores"`
	RAM      string `json:"ram"`
}

// Collect gathers what it can; fields that cannot be read stay empty.
func Collect() Info {
	info := Info{Cores: runtime.NumCPU()}

	if hostStat, err := host.Info(); err == nil && hostStat != nil {
		info.Hostname = hostStat.Hostname
		info.Platform = fmt.Sprintf("%s %s", hostStat.Platform, hostStat.PlatformVersion)
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if cores, err := cpu.Counts(true); err == nil && cores > 0 {
		info.Cores = cores
	}
	if vmStat, err := mem.VirtualMemory(); err == nil && vmStat != nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	return info
}
