package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requisições HTTP por método, rota e status",
	}, []string{"method", "route", "status"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_seconds",
		Help:      "Latência das requisições HTTP por rota",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"method", "route"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "in_flight",
		Help:      "Requisições em andamento",
	})

	boardMoves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "board_moves_total",
		Help:      "Arrastes processados por quadro e resultado",
	}, []string{"board", "outcome"})

	formSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "form_submissions_total",
		Help:      "Envios de formulário por tipo e resultado",
	}, []string{"form", "result"})
)

// statusRecorder guarda o primeiro status escrito; sem WriteHeader explícito vale 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Inc()
		defer inFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w}
		began := time.Now()
		next.ServeHTTP(rec, r)

		// o padrão só fica completo depois que o chi roteou a requisição
		route := routeOf(r)
		requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.code())).Inc()
		latency.WithLabelValues(r.Method, route).Observe(time.Since(began).Seconds())
	})
}

func routeOf(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return r.URL.Path
	}
	return rctx.RoutePattern()
}

func RecordBoardMove(board, outcome string) {
	boardMoves.WithLabelValues(board, outcome).Inc()
}

func RecordFormSubmission(form, result string) {
	formSubmissions.WithLabelValues(form, result).Inc()
}
