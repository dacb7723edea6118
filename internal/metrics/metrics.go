package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
	ImportItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "photo_import_items_total", Help: "Imported media items by outcome"},
		[]string{"outcome"},
	)
	UploadedFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "uploaded_files_total", Help: "Stored upload files by kind"},
		[]string{"kind"},
	)
	SweptFiles = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "orphan_files_swept_total", Help: "Unreferenced upload files removed"},
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight, ImportItems, UploadedFiles, SweptFiles)
}

func Handler() http.Handler { return promhttp.Handler() }

// Middleware records request counts and latency by route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		InFlight.Inc()
		start := time.Now()
		c.Next()
		InFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
