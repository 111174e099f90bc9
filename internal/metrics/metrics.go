package metrics

import (
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry holds every collector of this process. /metrics serves it.
	Registry = prometheus.NewRegistry()

	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_http_requests_total",
			Help: "Total requests served by the local print server",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_http_request_duration_seconds",
			Help:    "Duration of requests served by the local print server",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_backend_requests_total",
			Help: "Requests sent to the backend API by outcome",
		},
		[]string{"method", "endpoint", "outcome"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pos_backend_request_duration_seconds",
			Help:    "Duration of backend API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	BackendConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pos_backend_connected",
		Help: "1 when the last health check reached the backend, 0 otherwise",
	})

	CheckoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_checkouts_total",
			Help: "Checkout attempts by result",
		},
		[]string{"result"},
	)

	ReceiptsRenderedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_receipts_rendered_total",
			Help: "Receipts rendered by printer profile and format",
		},
		[]string{"printer", "format"},
	)
)

var initOnce sync.Once

func InitMetrics() {
	initOnce.Do(func() {
		Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			HttpRequestsTotal, HttpRequestDuration,
			BackendRequestsTotal, BackendRequestDuration, BackendConnected,
			CheckoutsTotal, ReceiptsRenderedTotal,
		)
	})
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

var idSegment = regexp.MustCompile(`/\d+/`)

// Endpoint collapses numeric path segments so label cardinality stays flat.
func Endpoint(path string) string {
	for idSegment.MatchString(path) {
		path = idSegment.ReplaceAllString(path, "/:id/")
	}
	return path
}

func ObserveBackend(method, path, outcome string, d time.Duration) {
	ep := Endpoint(path)
	BackendRequestsTotal.WithLabelValues(method, ep, outcome).Inc()
	BackendRequestDuration.WithLabelValues(ep).Observe(d.Seconds())
}

func SetConnected(ok bool) {
	if ok {
		BackendConnected.Set(1)
		return
	}
	BackendConnected.Set(0)
}
