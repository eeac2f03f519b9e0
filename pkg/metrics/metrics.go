// Package metrics Prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// 后端 API 调用
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of requests sent to the rental backend",
		},
		[]string{"method", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Rental backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// 页面分发
	PageDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_dispatch_total",
			Help: "Page dispatch outcomes by page key",
		},
		[]string{"page", "outcome"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_quotes_total",
			Help: "Price quotes computed",
		},
		[]string{"result"},
	)
)

// 页面分发结果
const (
	OutcomeRendered   = "rendered"
	OutcomeUnmapped   = "unmapped"
	OutcomeRedirected = "redirected"
	OutcomeNotFound   = "not_found"
	OutcomeInitError  = "init_error"
	OutcomePanic      = "panic"
)

// RecordHTTP 记录 HTTP 请求
func RecordHTTP(method, route string, statusCode int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordBackend 记录后端调用，status 为 0 表示网络错误
func RecordBackend(method string, status int, duration time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	BackendRequestsTotal.WithLabelValues(method, label).Inc()
	BackendRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordDispatch 记录页面分发结果
func RecordDispatch(page, outcome string) {
	if page == "" {
		page = "unknown"
	}
	PageDispatchTotal.WithLabelValues(page, outcome).Inc()
}

// RecordQuote 记录报价
func RecordQuote(err error, complete bool) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case !complete:
		result = "incomplete"
	}
	QuotesTotal.WithLabelValues(result).Inc()
}
