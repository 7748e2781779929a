package store

import "github.com/prometheus/client_golang/prometheus"

const (
	resultOK       = "ok"
	resultNoop     = "noop"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

type Metrics struct {
	Mutations *prometheus.CounterVec
	Reloads   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_mutations_total",
				Help: "Store mutations by operation and result",
			},
			[]string{"op", "result"},
		),
		Reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_reloads_total",
				Help: "Snapshot reloads triggered by change signals",
			},
			[]string{"store", "result"},
		),
	}

	reg.MustRegister(m.Mutations, m.Reloads)
	return m
}

func (m *Metrics) observeMutation(op, result string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) observeReload(store string, ok bool) {
	if m == nil {
		return
	}
	result := resultOK
	if !ok {
		result = resultFailed
	}
	m.Reloads.WithLabelValues(store, result).Inc()
}
