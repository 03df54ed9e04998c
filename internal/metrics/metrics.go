package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "lossbudget"

	OutcomePass     = "pass"
	OutcomeFail     = "fail"
	OutcomePartial  = "partial"
	OutcomeNoBudget = "no-budget"
	OutcomeRejected = "rejected"
)

var (
	lossBuckets    = []float64{0.5, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20}
	latencyBuckets = []float64{1, 5, 10, 50, 100, 500}
)

// Metrics holds the collectors of one server. Each server owns its registry,
// so tests can build as many as they like.
type Metrics struct {
	calculations *prometheus.CounterVec
	totalLoss    prometheus.Histogram
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Calculations served, partitioned by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		totalLoss: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_loss_db",
			Help:      "Total link loss of successful budget calculations.",
			Buckets:   lossBuckets,
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests partitioned by status code, method and HTTP path.",
		}, []string{"code", "method", "path"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_milliseconds",
			Help:      "Time spent on the request partitioned by status code, method and HTTP path.",
			Buckets:   latencyBuckets,
		}, []string{"code", "method", "path"}),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.calculations, m.totalLoss, m.requests, m.latency}
}

// Register adds the collectors to reg. Collectors that are already present
// are skipped.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveCalculation(endpoint, outcome string) {
	m.calculations.WithLabelValues(endpoint, outcome).Inc()
}

func (m *Metrics) ObserveTotalLoss(db float64) {
	m.totalLoss.Observe(db)
}

// Handler records request count and latency by chi route pattern.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			rp := rctx.RoutePattern()
			since := float64(time.Since(start).Milliseconds())
			m.requests.WithLabelValues(strconv.Itoa(ww.Status()), r.Method, rp).Inc()
			m.latency.WithLabelValues(strconv.Itoa(ww.Status()), r.Method, rp).Observe(since)
		}
	}
	return http.HandlerFunc(fn)
}
