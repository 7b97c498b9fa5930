// Package metrics exposes store activity as Prometheus collectors on a
// private registry.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "spendwise"

// Metrics implements ledger.Recorder.
type Metrics struct {
	reg             *prometheus.Registry
	mutations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	imports         *prometheus.CounterVec
	transactions    prometheus.Gauge
}

// New registers every collector on a fresh registry. Go runtime collectors
// are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Successful store mutations by operation.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed persistence writes by storage key.",
		}, []string{"key"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Import attempts by result.",
		}, []string{"result"}),
		transactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions",
			Help:      "Number of stored transactions.",
		}),
	}
	m.reg.MustRegister(m.mutations, m.persistFailures, m.imports, m.transactions)
	if withRuntime {
		m.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

func (m *Metrics) Mutation(op string) { m.mutations.WithLabelValues(op).Inc() }

func (m *Metrics) PersistFailed(key string) { m.persistFailures.WithLabelValues(key).Inc() }

func (m *Metrics) Import(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	m.imports.WithLabelValues(result).Inc()
}

func (m *Metrics) Transactions(n int) { m.transactions.Set(float64(n)) }

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
