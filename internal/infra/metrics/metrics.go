package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns its registry so tests can build isolated instances.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	bookingsTotal       *prometheus.CounterVec
	transitionsTotal    *prometheus.CounterVec
	slotsGenerated      prometheus.Counter
	callbacksTotal      *prometheus.CounterVec
	emailsSentTotal     *prometheus.CounterVec
	emailsInFlight      prometheus.Gauge
	txRetriesTotal      *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_booking_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "court_booking_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		bookingsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_booking_bookings_created_total",
				Help: "Total number of bookings created",
			},
			[]string{"payment_method"},
		),
		transitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_booking_booking_transitions_total",
				Help: "Booking status transitions by target status and trigger",
			},
			[]string{"status", "trigger"},
		),
		slotsGenerated: f.NewCounter(
			prometheus.CounterOpts{
				Name: "court_booking_slots_generated_total",
				Help: "Time slots persisted by the availability resolver",
			},
		),
		callbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_booking_payment_callbacks_total",
				Help: "Payment callbacks by gateway and result",
			},
			[]string{"gateway", "result"},
		),
		emailsSentTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_booking_emails_sent_total",
				Help: "Total number of emails sent",
			},
			[]string{"type", "status"},
		),
		emailsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "court_booking_emails_in_flight",
				Help: "Confirmation emails currently being delivered",
			},
		),
		txRetriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_booking_tx_retries_total",
				Help: "Transactions retried after a serialization failure or deadlock",
			},
			[]string{"reason"},
		),
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordHTTPRequest(method, path, status string, seconds float64) {
	if r == nil {
		return
	}
	r.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (r *Recorder) RecordBooking(paymentMethod string) {
	if r == nil {
		return
	}
	r.bookingsTotal.WithLabelValues(paymentMethod).Inc()
}

func (r *Recorder) RecordTransition(status, trigger string) {
	if r == nil {
		return
	}
	r.transitionsTotal.WithLabelValues(status, trigger).Inc()
}

func (r *Recorder) RecordSlotsGenerated(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.slotsGenerated.Add(float64(n))
}

// Callback results: completed, failed, replayed, ignored, rejected.
func (r *Recorder) RecordCallback(gateway, result string) {
	if r == nil {
		return
	}
	r.callbacksTotal.WithLabelValues(gateway, result).Inc()
}

func (r *Recorder) RecordEmail(emailType, status string) {
	if r == nil {
		return
	}
	r.emailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func (r *Recorder) EmailStarted() {
	if r == nil {
		return
	}
	r.emailsInFlight.Inc()
}

func (r *Recorder) EmailFinished() {
	if r == nil {
		return
	}
	r.emailsInFlight.Dec()
}

func (r *Recorder) RecordTxRetry(reason string) {
	if r == nil {
		return
	}
	r.txRetriesTotal.WithLabelValues(reason).Inc()
}
