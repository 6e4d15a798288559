package chain

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "content_chain"

type metrics struct {
	invocations *prometheus.CounterVec
	weight      *prometheus.HistogramVec
	duration    prometheus.Histogram
	height      prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invocations_total",
			Help:      "Number of module invocations by method and result",
		}, []string{"method", "status"}),
		weight: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "invocation_weight",
			Help:      "Declared weight of successful invocations",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
		}, []string{"method"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "invocation_duration_seconds",
			Help:      "Invocation execution time including commit",
			Buckets:   prometheus.DefBuckets,
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "block_height",
			Help:      "Current block height of the executor",
		}),
	}
}

func (m *metrics) register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.invocations, m.weight, m.duration, m.height} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}
