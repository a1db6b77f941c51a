package daemon

import (
	"time"

	"git.home.luguber.info/inful/refreshd/internal/version"
)

// HealthStatus represents the overall health of the daemon.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check.
type HealthCheck struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status    HealthStatus  `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Version   string        `json:"version"`
	Checks    []HealthCheck `json:"checks"`
}

// PerformHealthChecks evaluates the daemon lifecycle and the discovery
// channel. A failing discovery run only degrades health.
func (d *Daemon) PerformHealthChecks() *HealthResponse {
	resp := &HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Version:   version.Version,
	}

	daemonCheck := HealthCheck{Name: "daemon", Status: HealthStatusHealthy}
	if s := d.GetStatus(); s != StatusRunning {
		daemonCheck.Status = HealthStatusUnhealthy
		daemonCheck.Message = "daemon is " + string(s)
	}
	resp.Checks = append(resp.Checks, daemonCheck)

	discoveryCheck := HealthCheck{Name: "discovery", Status: HealthStatusHealthy}
	if report := d.reconciler.LastReport(); report.Error != "" {
		discoveryCheck.Status = HealthStatusDegraded
		discoveryCheck.Message = report.Error
	}
	resp.Checks = append(resp.Checks, discoveryCheck)

	for _, c := range resp.Checks {
		switch {
		case c.Status == HealthStatusUnhealthy:
			resp.Status = HealthStatusUnhealthy
		case c.Status == HealthStatusDegraded && resp.Status == HealthStatusHealthy:
			resp.Status = HealthStatusDegraded
		}
	}
	return resp
}
