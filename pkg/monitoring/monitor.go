package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "endpoint"},
	)

	QuizStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_started_total",
		Help: "Number of quizzes started",
	})

	QuizSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_submitted_total",
		Help: "Number of quizzes submitted and scored",
	})

	QuizScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quiz_score_percentage",
		Help:    "Percentage score of submitted quizzes",
		Buckets: []float64{0, 20, 40, 60, 80, 100},
	})

	QuizInsufficientContent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "quiz_insufficient_content_total",
		Help: "Quiz starts refused because the question pool is too small",
	})

	initOnce sync.Once
)

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			QuizStarted,
			QuizSubmitted,
			QuizScore,
			QuizInsufficientContent,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
