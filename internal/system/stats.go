package system

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats is a snapshot of this process' resource usage.
type ProcessStats struct {
	RSS        uint64
	CPUPercent float64
	Threads    int32
}

func CurrentProcessStats() (ProcessStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}
	var st ProcessStats
	mem, err := p.MemoryInfo()
	if err != nil {
		return st, fmt.Errorf("memory info: %w", err)
	}
	st.RSS = mem.RSS
	if cpu, err := p.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		st.Threads = n
	}
	return st, nil
}

// Report formats a performance report block like the CLI prints on exit.
func Report(build string, uptime time.Duration, players int, lines []string) string {
	s := "--- [PERFORMANCE REPORT] ---\n"
	s += fmt.Sprintf("Build: %s\n", build)
	s += fmt.Sprintf("Uptime: %.2fs\n", uptime.Seconds())
	s += fmt.Sprintf("Players served: %d\n", players)
	if st, err := CurrentProcessStats(); err == nil {
		s += fmt.Sprintf("RSS: %.1f MiB | CPU: %.1f%% | Threads: %d\n", float64(st.RSS)/(1<<20), st.CPUPercent, st.Threads)
	} else {
		s += fmt.Sprintf("Process stats unavailable: %v\n", err)
	}
	for _, l := range lines {
		s += l + "\n"
	}
	s += "----------------------------\n"
	return s
}
