// Package metrics records conversion statistics with Prometheus collectors.
// A Recorder owns an isolated registry so several conversions, or tests, never
// share counters.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds all metrics for a conversion run. It satisfies
// convert.Observer.
type Recorder struct {
	NodesBuiltTotal         *prometheus.CounterVec
	ConnectionsRerouted     *prometheus.CounterVec
	MixersInsertedTotal     prometheus.Counter
	MixerChannels           prometheus.Histogram
	SubpatchesInlinedTotal  prometheus.Counter
	SubpatchReferencesTotal prometheus.Counter
	ConversionsTotal        *prometheus.CounterVec
	ConversionDuration      prometheus.Histogram
	GraphNodes              prometheus.Gauge

	registry *prometheus.Registry
}

// NewRecorder creates a recorder with all metrics registered on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		NodesBuiltTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchgraph_nodes_built_total",
				Help: "Total number of graph nodes built, by node type",
			},
			[]string{"type"},
		),
		ConnectionsRerouted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchgraph_connections_rerouted_total",
				Help: "Total number of connections moved to another inlet, by sink node type",
			},
			[]string{"type"},
		),
		MixersInsertedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "patchgraph_mixers_inserted_total",
			Help: "Total number of mixer nodes synthesized for signal fan-in",
		}),
		MixerChannels: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "patchgraph_mixer_channels",
			Help:    "Number of sources summed by each synthesized mixer",
			Buckets: []float64{2, 3, 4, 8, 16, 32},
		}),
		SubpatchesInlinedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "patchgraph_subpatches_inlined_total",
			Help: "Total number of subpatches inlined",
		}),
		SubpatchReferencesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "patchgraph_subpatch_references_total",
			Help: "Total number of subpatch instantiation nodes removed by inlining",
		}),
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patchgraph_conversions_total",
				Help: "Total number of conversions, by status",
			},
			[]string{"status"},
		),
		ConversionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "patchgraph_conversion_duration_seconds",
			Help:    "Conversion duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		GraphNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "patchgraph_graph_nodes",
			Help: "Number of nodes in the last converted graph",
		}),
	}
}

// Registry returns the underlying prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// NodeBuilt counts one built node of nodeType.
func (r *Recorder) NodeBuilt(nodeType string) {
	r.NodesBuiltTotal.WithLabelValues(nodeType).Inc()
}

// ConnectionRerouted counts one connection moved to another inlet of a
// nodeType node.
func (r *Recorder) ConnectionRerouted(nodeType string) {
	r.ConnectionsRerouted.WithLabelValues(nodeType).Inc()
}

// MixerInserted counts an implicit mixer and observes its channel count.
func (r *Recorder) MixerInserted(channels int) {
	r.MixersInsertedTotal.Inc()
	r.MixerChannels.Observe(float64(channels))
}

// SubpatchInlined ignores top-level patches, which have no references.
func (r *Recorder) SubpatchInlined(_ string, references int) {
	if references == 0 {
		return
	}
	r.SubpatchesInlinedTotal.Inc()
	r.SubpatchReferencesTotal.Add(float64(references))
}

// RecordConversion records the outcome of one conversion. nodes is ignored
// when err is non-nil.
func (r *Recorder) RecordConversion(duration time.Duration, nodes int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	} else {
		r.GraphNodes.Set(float64(nodes))
	}
	r.ConversionsTotal.WithLabelValues(status).Inc()
	r.ConversionDuration.Observe(duration.Seconds())
}

// WriteTextfile writes all metrics to path in the Prometheus text exposition
// format, suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
