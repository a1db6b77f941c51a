package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "refreshd"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	tickOutcomes     *prom.CounterVec
	taskDuration     *prom.HistogramVec
	discoveryResults *prom.CounterVec
	activeTasks      prom.Gauge
	gatewayFetches   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		tickOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tick_outcomes_total",
			Help:      "Ticks per refresh channel by outcome",
		}, []string{"channel", "outcome"}),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of refresh task bodies",
			Buckets:   prom.DefBuckets,
		}, []string{"channel", "result"}),
		discoveryResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_results_total",
			Help:      "Model discovery reconciliation runs by result",
		}, []string{"result"}),
		activeTasks: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "active_agent_tasks",
			Help:      "Agent tasks currently in progress",
		}),
		gatewayFetches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_fetches_total",
			Help:      "Gateway snapshot fetches by resource and result",
		}, []string{"resource", "result"}),
	}
	reg.MustRegister(pr.tickOutcomes, pr.taskDuration, pr.discoveryResults, pr.activeTasks, pr.gatewayFetches)
	return pr
}

func (p *PrometheusRecorder) IncTickOutcome(channel, outcome string) {
	if p == nil {
		return
	}
	p.tickOutcomes.WithLabelValues(channel, outcome).Inc()
}

func (p *PrometheusRecorder) ObserveTaskDuration(channel string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.taskDuration.WithLabelValues(channel, successLabel(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDiscoveryResult(result string) {
	if p == nil {
		return
	}
	p.discoveryResults.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) SetActiveTasks(n int) {
	if p == nil {
		return
	}
	p.activeTasks.Set(float64(n))
}

func (p *PrometheusRecorder) IncGatewayFetch(resource string, success bool) {
	if p == nil {
		return
	}
	p.gatewayFetches.WithLabelValues(resource, successLabel(success)).Inc()
}

var _ Recorder = (*PrometheusRecorder)(nil)
