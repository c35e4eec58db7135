// Package health reports process and host vitals for liveness probes.
package health

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Report is the payload served by the health endpoint.
type Report struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	MemoryUsedPct float64 `json:"memory_used_pct,omitempty"`
	CPUUsedPct    float64 `json:"cpu_used_pct,omitempty"`
}

// Service tracks process start time and samples host vitals on demand.
type Service struct {
	startedAt time.Time
}

// NewService creates a health service anchored at the current time.
func NewService() *Service {
	return &Service{startedAt: time.Now()}
}

// Check returns the current report. Host metrics are best-effort: a
// sampling failure leaves the field zero rather than failing the probe.
func (s *Service) Check() Report {
	report := Report{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startedAt).Seconds(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		report.MemoryUsedPct = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		report.CPUUsedPct = percents[0]
	}
	return report
}
