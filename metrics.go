package semaphore

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
	resultInvalid  = "invalid"
)

// Metrics counts and times the requests made to the gateway.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semaphore",
				Name:      "requests_total",
				Help:      "Count of requests sent to the semaphore api",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semaphore",
				Name:      "request_duration_seconds",
				Help:      "Duration of requests sent to the semaphore api",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	for _, collector := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, errors.Wrap(err, "Failed to register semaphore metrics")
		}
	}

	return m, nil
}

func (m *Metrics) observe(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	result := resultSuccess
	switch {
	case err == nil:
	case IsStatusError(err):
		result = resultRejected
	default:
		result = resultError
	}

	m.requests.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// reject counts a request refused before it was sent.
func (m *Metrics) reject(operation string) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(operation, resultInvalid).Inc()
}
