// Package metrics counts store activity with Prometheus collectors.
//
// A Recorder implements entity.Logger, so it is attached to a store the same
// way as the console logger. A one-shot CLI process can dump the registry to
// a node_exporter textfile with WriteTextfile.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/amonks/flowstate/entity"
)

const namespace = "flowstate"

// Recorder collects mutation and persistence metrics.
type Recorder struct {
	registry *prometheus.Registry

	mutations   *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	saves       *prometheus.CounterVec
	saveSeconds *prometheus.HistogramVec
	failures    *prometheus.GaugeVec
	records     *prometheus.GaugeVec
}

// NewRecorder builds a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Applied mutations by collection and operation.",
		}, []string{"kind", "op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Rejected mutations by collection, operation and reason.",
		}, []string{"kind", "op", "reason"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_operations_total",
			Help:      "Loads and saves by collection, operation and result.",
		}, []string{"kind", "op", "result"}),
		saveSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persistence_duration_seconds",
			Help:      "Time spent loading and saving collections.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind", "op"}),
		failures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consecutive_save_failures",
			Help:      "Consecutive failed saves; zero once a save succeeds.",
		}, []string{"kind"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records in the collection as of the last load or save.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.mutations, r.rejections, r.saves, r.saveSeconds, r.failures, r.records)
	return r
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Mutation implements entity.Logger.
func (r *Recorder) Mutation(entry entity.MutationLog) {
	if entry.Err != nil {
		r.rejections.WithLabelValues(entry.Kind, string(entry.Op), rejectionReason(entry.Err)).Inc()
		return
	}
	r.mutations.WithLabelValues(entry.Kind, string(entry.Op)).Inc()
}

// Persistence implements entity.Logger.
func (r *Recorder) Persistence(entry entity.PersistenceLog) {
	result := "ok"
	if entry.Err != nil {
		result = "error"
	}
	r.saves.WithLabelValues(entry.Kind, entry.Op, result).Inc()
	r.saveSeconds.WithLabelValues(entry.Kind, entry.Op).Observe(entry.Duration.Seconds())
	if entry.Op == "save" {
		r.failures.WithLabelValues(entry.Kind).Set(float64(entry.Failures))
	}
	if entry.Err == nil {
		r.records.WithLabelValues(entry.Kind).Set(float64(entry.Records))
	}
}

// WriteTextfile writes the registry in the text exposition format, replacing
// path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return "validation"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, entity.ErrConfiguration):
		return "configuration"
	case errors.Is(err, entity.ErrClosed):
		return "closed"
	default:
		return "other"
	}
}
