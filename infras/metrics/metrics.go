package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "facility_booking"

const (
	ConflictOverlap = "overlap"
	ConflictRace    = "race"
)

var (
	once sync.Once

	reservationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Count of reservations committed.",
		},
	)

	reservationsRescheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_rescheduled_total",
			Help:      "Count of reservations moved to a new interval.",
		},
	)

	reservationsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_cancelled_total",
			Help:      "Count of reservations cancelled.",
		},
	)

	bookingConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Count of rejected booking attempts by reason.",
		},
		[]string{"reason"},
	)

	bookingWriteRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_write_retries_total",
			Help:      "Count of conditional writes retried after the booking key version advanced.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationsCreated,
			reservationsRescheduled,
			reservationsCancelled,
			bookingConflicts,
			bookingWriteRetries,
			httpRequests,
			httpDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncReservationCreated() {
	reservationsCreated.Inc()
}

func IncReservationRescheduled() {
	reservationsRescheduled.Inc()
}

func IncReservationCancelled() {
	reservationsCancelled.Inc()
}

func IncBookingConflict(reason string) {
	bookingConflicts.WithLabelValues(reason).Inc()
}

func IncBookingWriteRetry() {
	bookingWriteRetries.Inc()
}

func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
