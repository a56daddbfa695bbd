package httpapi

import (
	"net/http"
	"runtime"
	"time"
)

// startTime marks process start for the uptime field, the way the
// teacher's handlers/health.go tracks a package-level startTime.
var startTime = time.Now()

type systemInfo struct {
	GoVersion     string  `json:"go_version"`
	NumGoroutines int     `json:"num_goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	NumCPU        int     `json:"num_cpu"`
}

type healthStatus struct {
	Status string     `json:"status"`
	Uptime string     `json:"uptime"`
	System systemInfo `json:"system"`
}

// healthz reports liveness, condensing the teacher's handlers/health.go
// and services/health_check_service.go per-subsystem status map into a
// single process-level check: this service owns no long-running
// background workers whose individual health needs reporting.
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := healthStatus{
		Status: "healthy",
		Uptime: time.Since(startTime).String(),
		System: systemInfo{
			GoVersion:     runtime.Version(),
			NumGoroutines: runtime.NumGoroutine(),
			MemoryAllocMB: float64(mem.Alloc) / (1024 * 1024),
			NumCPU:        runtime.NumCPU(),
		},
	}
	WriteOK(w, envelope{"health": status})
}
