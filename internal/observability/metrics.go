package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the bot.
type Metrics struct {
	TurnsTotal         *prometheus.CounterVec
	StoreOps           *prometheus.CounterVec
	DeliveredFragments prometheus.Counter
	ModelLatency       prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TurnsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Handled inbound turns by outcome.",
		}, []string{"outcome"}),
		StoreOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_ops_total",
			Help:      "Message store operations by op and result.",
		}, []string{"op", "result"}),
		DeliveredFragments: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivered_fragments_total",
			Help:      "Outbound chat fragments delivered.",
		}),
		ModelLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_ms",
			Help:      "Model completion latency in milliseconds.",
			Buckets:   []float64{250, 500, 1000, 2000, 4000, 8000, 15000, 20000},
		}),
	}
}

func (m *Metrics) ObserveModelLatency(d time.Duration) {
	m.ModelLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
