package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orgdir_requests_total",
		Help: "Total number of API requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orgdir_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orgdir_errors_total",
		Help: "Total API errors by route and error kind",
	}, []string{"route", "kind"})
	EmptyResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orgdir_empty_results_total",
		Help: "Total number of list responses with no items",
	}, []string{"route"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orgdir_cache_hits_total",
		Help: "Total cache hits by layer",
	}, []string{"layer"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orgdir_cache_misses_total",
		Help: "Total cache misses by layer",
	}, []string{"layer"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orgdir_rate_limited_total",
		Help: "Total requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(EmptyResultsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露已注册指标，供 Prometheus 抓取；在主入口挂载到 /metrics。
func Handler() http.Handler { return promhttp.Handler() }
