package daemon

import (
	"time"

	"git.home.luguber.info/inful/refreshd/internal/discovery"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
	"git.home.luguber.info/inful/refreshd/internal/version"
)

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Status        Status                  `json:"status"`
	Version       string                  `json:"version"`
	StartedAt     time.Time               `json:"started_at"`
	Uptime        string                  `json:"uptime"`
	View          string                  `json:"view"`
	Connected     bool                    `json:"connected"`
	Paused        bool                    `json:"paused"`
	Dirty         bool                    `json:"dirty"`
	ResumePending bool                    `json:"resume_pending"`
	ActiveTasks   int                     `json:"active_tasks"`
	Workers       int                     `json:"workers"`
	Channels      []refresh.ChannelStatus `json:"channels"`
	Discovery     discovery.Report        `json:"discovery"`
}

// GetStatusResponse builds a point-in-time status report.
func (d *Daemon) GetStatusResponse() StatusResponse {
	started := d.StartTime()

	resp := StatusResponse{
		Status:        d.GetStatus(),
		Version:       version.Version,
		StartedAt:     started,
		View:          d.view.Current(),
		Connected:     d.session.Connected(),
		Paused:        d.gate.State().Paused(),
		Dirty:         d.gate.State().Dirty(),
		ResumePending: d.gate.ResumePending(),
		ActiveTasks:   d.busy.ActiveTaskCount(),
		Workers:       d.workers.Active(),
		Discovery:     d.reconciler.LastReport(),
	}
	if !started.IsZero() && resp.Status == StatusRunning {
		resp.Uptime = time.Since(started).Truncate(time.Second).String()
	}
	for _, ch := range d.channels {
		resp.Channels = append(resp.Channels, ch.Status())
	}
	return resp
}
