// metrics.go — Prometheus HTTP метрики Catalog Module:
// cm_http_requests_total, cm_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cm_http_requests_total",
			Help: "Общее количество HTTP-запросов к Catalog Module",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cm_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Catalog Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware собирает количество и длительность запросов по шаблону маршрута.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			path := metricsPath(r)
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// metricsPath берёт шаблон маршрута chi (после маршрутизации он уже известен),
// иначе нормализует путь вручную.
func metricsPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// normalizePath заменяет идентификатор фильма на {id}, чтобы не раздувать
// кардинальность меток. Неизвестные пути сводятся к "other".
// /api/v1/films/0b9e.../watch → /api/v1/films/{id}/watch
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/tmdb/movie-search",
		"/api/v1/films",
		"/api/v1/films/autofill",
		"/api/v1/genres",
		"/api/v1/series":
		return path
	}

	const filmsPrefix = "/api/v1/films/"
	if rest, ok := strings.CutPrefix(path, filmsPrefix); ok && rest != "" {
		if _, suffix, found := strings.Cut(rest, "/"); found && suffix == "watch" {
			return filmsPrefix + "{id}/watch"
		}
		return filmsPrefix + "{id}"
	}
	return "other"
}
