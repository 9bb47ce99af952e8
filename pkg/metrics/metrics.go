// Package metrics exposes Prometheus instrumentation: request metrics
// via Middleware, the scrape endpoint via Handler, plus counters the
// order and queue paths bump directly (orders placed, status changes,
// cache hit rate, job timings).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultRegistry holds every metric this process exports. App code
// registers custom collectors against it via Register/MustRegister.
var DefaultRegistry = prometheus.NewRegistry()

var factory = promauto.With(DefaultRegistry)

func opts(sub, name, help string) prometheus.Opts {
	return prometheus.Opts{Namespace: "duka", Subsystem: sub, Name: name, Help: help}
}

var (
	RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "duka", Subsystem: "http",
		Name:    "request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	RequestTotal = factory.NewCounterVec(prometheus.CounterOpts(
		opts("http", "requests_total", "Total number of HTTP requests."),
	), []string{"method", "path", "status"})

	RequestInFlight = factory.NewGauge(prometheus.GaugeOpts(
		opts("http", "requests_in_flight", "Number of HTTP requests currently being served."),
	))

	ResponseSize = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "duka", Subsystem: "http",
		Name:    "response_size_bytes",
		Help:    "Response body sizes in bytes.",
		Buckets: []float64{100, 1_000, 10_000, 100_000, 1_000_000},
	}, []string{"method", "path"})

	DBQueryDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "duka", Subsystem: "db",
		Name:    "query_duration_seconds",
		Help:    "Duration of database queries in seconds.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .5, 1},
	}, []string{"operation"})

	// QueueJobsProcessed splits on status: "success" or "failed".
	QueueJobsProcessed = factory.NewCounterVec(prometheus.CounterOpts(
		opts("queue", "jobs_processed_total", "Total queue jobs processed."),
	), []string{"status"})

	QueueJobDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "duka", Subsystem: "queue",
		Name:    "job_duration_seconds",
		Help:    "Duration of queue job processing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job_type"})

	CacheHits = factory.NewCounterVec(prometheus.CounterOpts(
		opts("cache", "hits_total", "Total cache hits."),
	), []string{"driver"})

	CacheMisses = factory.NewCounterVec(prometheus.CounterOpts(
		opts("cache", "misses_total", "Total cache misses."),
	), []string{"driver"})

	// OrdersPlaced is the business-level counter dashboards alert on.
	OrdersPlaced = factory.NewCounter(prometheus.CounterOpts(
		opts("orders", "placed_total", "Total orders placed."),
	))

	// OrderStatusChanges is labelled by the status an order moved into.
	OrderStatusChanges = factory.NewCounterVec(prometheus.CounterOpts(
		opts("orders", "status_changes_total", "Total order status transitions."),
	), []string{"status"})
)

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Register adds a custom collector to the process registry.
func Register(c prometheus.Collector) error { return DefaultRegistry.Register(c) }

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) { DefaultRegistry.MustRegister(c...) }

// NewCounter creates and registers a labelled counter.
func NewCounter(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: name, Help: help,
	}, labels)
}

// NewHistogram creates and registers a labelled histogram.
func NewHistogram(namespace, name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	return factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: buckets,
	}, labels)
}

// NewGauge creates and registers a labelled gauge.
func NewGauge(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: name, Help: help,
	}, labels)
}

// responseRecorder captures the status and body size the handler wrote.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Middleware records duration, count, in-flight and response size for
// every request. It sits outermost in the stack so the timings include
// the rest of the middleware chain.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			// Raw path. ID-bearing routes make this high cardinality;
			// normalize to route patterns if the scrape page grows.
			path := r.URL.Path

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
			ResponseSize.WithLabelValues(r.Method, path).Observe(float64(rr.size))
		})
	}
}

// Handler serves the scrape page for DefaultRegistry; mount on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// ObserveDBQuery times a query:
//
//	defer metrics.ObserveDBQuery("select", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordQueueJob records one processed job's outcome and duration.
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobsProcessed.WithLabelValues(status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}
