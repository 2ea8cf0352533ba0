package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecyclehub"

// Metrics holds the Prometheus collectors of the service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Requests              *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	Errors                *prometheus.CounterVec
	AccountsCreated       prometheus.Counter
	RegistrationsRecorded prometheus.Counter
	KilogramsRecorded     prometheus.Counter
	Conflicts             *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by route, method and error code",
		}, []string{"route", "method", "code"}),
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_created_total",
			Help:      "User accounts created",
		}),
		RegistrationsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_recorded_total",
			Help:      "E-waste registrations recorded",
		}),
		KilogramsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ewaste_kilograms_recorded_total",
			Help:      "Kilograms of e-waste recorded",
		}),
		Conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uniqueness_conflicts_total",
			Help:      "Rejected submissions by conflicting field",
		}, []string{"field"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(route, method, code).Inc()
}

func (m *Metrics) RecordAccountCreated() {
	if m == nil {
		return
	}
	m.AccountsCreated.Inc()
}

// RecordRegistration counts a committed registration and its weight.
func (m *Metrics) RecordRegistration(kilograms float64) {
	if m == nil {
		return
	}
	m.RegistrationsRecorded.Inc()
	if kilograms > 0 {
		m.KilogramsRecorded.Add(kilograms)
	}
}

func (m *Metrics) RecordConflict(field string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(field).Inc()
}
