package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "watchfilter"

// Collector owns the watchfilter collectors and the registry they live in.
type Collector struct {
	registry *prometheus.Registry

	cacheLookups  *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	inflight      prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry. cacheLen, when non-nil,
// backs the cache entries gauge.
func New(cacheLen func() int) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Availability cache lookups by result.",
		}, []string{"result"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Availability fetches by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of availability fetches in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fetches_inflight",
			Help:      "Availability fetches currently in flight.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern, and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	c.registry.MustRegister(
		c.cacheLookups,
		c.fetches,
		c.fetchDuration,
		c.inflight,
		c.httpRequests,
		c.httpDuration,
		collectors.NewGoCollector(),
	)
	if cacheLen != nil {
		c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Entries held by the availability cache, stale ones included.",
		}, func() float64 { return float64(cacheLen()) }))
	}
	return c
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// CacheLookup implements enrichment.Recorder.
func (c *Collector) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

// FetchStarted implements enrichment.Recorder.
func (c *Collector) FetchStarted() {
	c.inflight.Inc()
}

// FetchFinished implements enrichment.Recorder.
func (c *Collector) FetchFinished(elapsed time.Duration, err error) {
	c.inflight.Dec()
	c.fetchDuration.Observe(elapsed.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.fetches.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latencies. The path label is the
// matched ServeMux pattern, or "unmatched" when no route handled the request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		c.httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
