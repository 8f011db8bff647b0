package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess        = "success"
	outcomeTransportError = "transport_error"
	outcomeInvalidPayload = "invalid_payload"
)

// Metrics 记录每次调用远程服务的结果和耗时
type Metrics struct {
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetrics 在 reg 上注册指标，reg 为 nil 时使用默认的 registerer，已经注册过的指标会被复用
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_gateway_calls_total",
		Help: "Total number of calls to the remote planner service",
	}, []string{"operation", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_gateway_call_duration_seconds",
		Help:    "Duration of calls to the remote planner service",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	if err := reg.Register(calls); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			calls = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &Metrics{calls: calls, latency: latency}, nil
}

func (m *Metrics) observe(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}
