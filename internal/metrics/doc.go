// Package metrics records refresh scheduler activity.
//
// Components receive a Recorder through their constructor config and default
// to NoopRecorder, so nothing needs nil checks. The daemon swaps in a
// PrometheusRecorder and serves it through HTTPHandler on the admin listener.
//
//	rec := metrics.NewPrometheusRecorder(reg)
//	ch := refresh.NewChannel(refresh.ChannelConfig{Name: "nodes", Recorder: rec, ...})
package metrics
