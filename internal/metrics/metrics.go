// Package metrics exposes Prometheus collectors for the account store.
//
// A Recorder owns its own registry so tests and multiple stores in one
// process never collide on the global default registry. All methods are
// safe to call on a nil *Recorder, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "keeper"

// Operation results used as the "result" label value.
const (
	ResultChanged = "changed"
	ResultNoop    = "noop"
)

// Recorder aggregates account store metrics.
type Recorder struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	persistFailures prometheus.Counter
	saveRejections  prometheus.Counter
	accounts        *prometheus.GaugeVec
}

// New creates a Recorder and registers its collectors, along with the Go
// runtime and process collectors, on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "account_operations_total",
			Help:      "Account store mutations by operation and result.",
		}, []string{"operation", "result"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed writes of the account collection to the storage medium.",
		}),
		saveRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_rejections_total",
			Help:      "Save attempts refused because the record was not saveable.",
		}),
		accounts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accounts",
			Help:      "Accounts held in memory by saved state.",
		}, []string{"state"}),
	}

	r.registry.MustRegister(
		r.operations,
		r.persistFailures,
		r.saveRejections,
		r.accounts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Operation counts one store mutation.
func (r *Recorder) Operation(name string, changed bool) {
	if r == nil {
		return
	}
	result := ResultNoop
	if changed {
		result = ResultChanged
	}
	r.operations.WithLabelValues(name, result).Inc()
}

// PersistFailed counts one failed write to the storage medium.
func (r *Recorder) PersistFailed() {
	if r == nil {
		return
	}
	r.persistFailures.Inc()
}

// SaveRejected counts one refused save.
func (r *Recorder) SaveRejected() {
	if r == nil {
		return
	}
	r.saveRejections.Inc()
}

// SetAccounts records the current collection size split by saved state.
func (r *Recorder) SetAccounts(saved, unsaved int) {
	if r == nil {
		return
	}
	r.accounts.WithLabelValues("saved").Set(float64(saved))
	r.accounts.WithLabelValues("unsaved").Set(float64(unsaved))
}
