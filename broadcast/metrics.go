package broadcast

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricNamespace = "mev_fanout"

	labelBuilder = "builder"
	labelMethod  = "method"
	labelStatus  = "status"

	statusOK    = "ok"
	statusError = "error"
)

// Metrics stores the pointers to the relay request metrics.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	endpoints       prometheus.Gauge
}

// NewMetrics takes in a prometheus registry and initializes and registers the
// request metrics. A nil registerer yields working but unregistered metrics.
// Call it once per registry and pass the result to every Broadcaster and NodeSender.
func NewMetrics(r prometheus.Registerer) *Metrics {
	return &Metrics{
		requests: promauto.With(r).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      "relay_requests_total",
				Help:      "the total requests sent to relays and nodes, by outcome",
			}, []string{labelBuilder, labelMethod, labelStatus}),
		requestDuration: promauto.With(r).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricNamespace,
				Name:      "relay_request_duration_seconds",
				Help:      "duration of requests to relays and nodes",
				Buckets:   prometheus.DefBuckets,
			}, []string{labelBuilder, labelMethod}),
		endpoints: promauto.With(r).NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricNamespace,
				Name:      "endpoints_last_broadcast",
				Help:      "the number of endpoints targeted by the last broadcast",
			}),
	}
}

func (m *Metrics) observe(builder, method string, ok bool, d time.Duration) {
	status := statusError
	if ok {
		status = statusOK
	}
	m.requests.WithLabelValues(builder, method, status).Inc()
	m.requestDuration.WithLabelValues(builder, method).Observe(d.Seconds())
}
