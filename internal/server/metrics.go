package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"method", "route", "status"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_notifications_sent_total",
		Help: "Notification emails accepted by the notifier.",
	}, []string{"kind"})

	// notificationsFailed is the operator's view on delivery problems:
	// failed notifications never fail the request that triggered them.
	notificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "santa_notifications_failed_total",
		Help: "Notification attempts that returned an error.",
	}, []string{"kind"})
)

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The route pattern keeps label cardinality bounded; raw paths
		// would mint a label per game ID.
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}
