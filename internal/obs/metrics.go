package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inbound metrics for the development backend.
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Outbound metrics for the backend gateway.
var (
	clientInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "farmchain_client_in_flight_requests",
		Help: "Backend calls awaiting a response.",
	})

	clientRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmchain_client_requests_total",
			Help: "Backend calls by route and outcome.",
		},
		[]string{"method", "route", "outcome"},
	)

	clientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farmchain_client_request_duration_seconds",
			Help:    "Backend call latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "outcome"},
	)
)

var initOnce sync.Once

// Init registers all metrics in the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			clientInFlight, clientRequestsTotal, clientRequestDuration,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records in-flight, count and latency for every request.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// ClientCall tracks one outbound call. Call the returned func with the
// outcome label once the call resolves.
func ClientCall(method, route string) func(outcome string) {
	clientInFlight.Inc()
	start := time.Now()
	return func(outcome string) {
		clientInFlight.Dec()
		clientRequestDuration.WithLabelValues(method, route, outcome).Observe(time.Since(start).Seconds())
		clientRequestsTotal.WithLabelValues(method, route, outcome).Inc()
	}
}

// ClientRequests exposes the outbound counter for assertions in tests.
func ClientRequests() *prometheus.CounterVec { return clientRequestsTotal }

// CanonicalPath replaces crop identifiers with :id so metric labels stay bounded.
func CanonicalPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		if s != "crops" {
			continue
		}
		rest := segs[i+1:]
		if len(rest) == 1 {
			rest[0] = ":id"
		} else if len(rest) == 2 && isCropLookup(rest[0]) {
			rest[1] = ":id"
		}
		break
	}
	return "/" + strings.Join(segs, "/")
}

func isCropLookup(s string) bool {
	return s == "scan" || s == "farmer" || s == "distributor"
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
