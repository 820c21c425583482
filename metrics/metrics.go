// Package metrics provides Prometheus metrics for the triage API:
// HTTP request counters, latency histograms and in-flight gauges, plus
// domain counters for consultations by triage level. All metrics register
// with the default registry at package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	ConsultationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consultations_total",
			Help: "Completed consultations by triage level",
		},
		[]string{"triage_level"},
	)

	ConsultationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "consultation_duration_seconds",
			Help:    "Rule engine evaluation latency per consultation",
			Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
		},
	)

	ReferralsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "consultation_referrals_total",
			Help: "Consultations that required facility referral",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(ConsultationsTotal)
	prometheus.MustRegister(ConsultationDuration)
	prometheus.MustRegister(ReferralsTotal)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
