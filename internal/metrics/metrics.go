package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the extraction collectors. A nil *Recorder records nothing.
type Recorder struct {
	requests      *prometheus.CounterVec
	methods       *prometheus.CounterVec
	modelFailures *prometheus.CounterVec
	duration      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presskw",
			Name:      "extraction_requests_total",
			Help:      "Extraction requests by outcome.",
		}, []string{"outcome"}),
		methods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presskw",
			Name:      "extraction_method_total",
			Help:      "Successful extractions by method.",
		}, []string{"method"}),
		modelFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "presskw",
			Name:      "model_failures_total",
			Help:      "AI extraction failures that fell back to rules, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "presskw",
			Name:      "extraction_duration_seconds",
			Help:      "End-to-end extraction latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(r.requests, r.methods, r.modelFailures, r.duration)
	}
	return r
}

// Request records one finished request.
func (r *Recorder) Request(success bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.requests.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Method records the extractor that produced a result.
func (r *Recorder) Method(method string) {
	if r == nil {
		return
	}
	r.methods.WithLabelValues(method).Inc()
}

// ModelFailure records a model error that triggered the fallback.
func (r *Recorder) ModelFailure(kind string) {
	if r == nil {
		return
	}
	r.modelFailures.WithLabelValues(kind).Inc()
}
