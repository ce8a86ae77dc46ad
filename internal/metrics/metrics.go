// Package metrics exposes game and HTTP counters through a private Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records game and request metrics. A nil *Recorder is a valid no-op.
type Recorder struct {
	registry        *prometheus.Registry
	guesses         *prometheus.CounterVec
	dictionaryMiss  prometheus.Counter
	rounds          *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder builds a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "semord_guesses_scored_total",
			Help: "Scored guesses by similarity band.",
		}, []string{"band"}),
		dictionaryMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "semord_dictionary_misses_total",
			Help: "Guesses rejected because the word is not in the dictionary.",
		}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "semord_rounds_total",
			Help: "Recorded rounds by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(r.guesses, r.dictionaryMiss, r.rounds, r.requests, r.requestDuration)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) RecordGuess(band string) {
	if r == nil {
		return
	}
	r.guesses.WithLabelValues(band).Inc()
}

func (r *Recorder) RecordDictionaryMiss() {
	if r == nil {
		return
	}
	r.dictionaryMiss.Inc()
}

func (r *Recorder) RecordRound(outcome string) {
	if r == nil {
		return
	}
	r.rounds.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records one served request. route should be the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
