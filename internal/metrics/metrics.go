package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP

var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"method", "route"},
)

var HttpRequestsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
)

// Reservations

// ReservationOutcomes counts Reserve calls by outcome
// (accepted, table_unavailable, invalid_party_size, not_found, error).
var ReservationOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reservation_outcomes_total",
		Help: "Reservation attempts by outcome",
	},
	[]string{"outcome"},
)

// BookingTransitions counts bookings leaving the confirmed state.
var BookingTransitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Bookings finalized by resulting status",
	},
	[]string{"status"}, // cancelled, completed
)

// Reviews

var ReviewsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created",
	},
)

var ReviewsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reviews_overall_rating",
		Help:    "Distribution of overall review ratings",
		Buckets: []float64{1, 2, 3, 4, 5},
	},
)

// Cache and broker

var CacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "response_cache_lookups_total",
		Help: "Response cache lookups by result",
	},
	[]string{"result"}, // hit, miss, error
)

var EventsPublished = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_events_published_total",
		Help: "Booking events handed to the broker",
	},
	[]string{"type", "status"}, // status: success, failed
)
