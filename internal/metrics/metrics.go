package metrics

import "github.com/prometheus/client_golang/prometheus"

// All series carry the tasks_service namespace so dashboards can tell this
// service's traffic apart from its neighbours on a shared Prometheus.
const namespace = "tasks_service"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request duration seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight)
}
