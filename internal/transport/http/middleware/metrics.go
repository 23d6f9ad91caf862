package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	cardViewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "card_views_total", Help: "Qualifying card views recorded"},
	)
	vcfDownloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "vcf_downloads_total", Help: "vCard downloads served"},
	)
)

func init() {
	prometheus.MustRegister(httpReqTotal, httpLatency, cardViewsTotal, vcfDownloadsTotal)
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		httpReqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// CountCardView / CountVCFDownload are called from the handlers so the
// business counters stay next to the HTTP ones.
func CountCardView()    { cardViewsTotal.Inc() }
func CountVCFDownload() { vcfDownloadsTotal.Inc() }
