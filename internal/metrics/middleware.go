package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// EchoMiddleware records request count and latency per route template.
// /metrics and /healthz are not measured.
func EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == "/metrics" || path == "/healthz" {
				return next(c)
			}

			start := time.Now()
			HttpRequestsInFlight.Inc()
			defer HttpRequestsInFlight.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			HttpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			HttpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordReservation counts one Reserve outcome.
func RecordReservation(outcome string) {
	ReservationOutcomes.WithLabelValues(outcome).Inc()
}

// RecordTransition counts one booking finalization.
func RecordTransition(status string) {
	BookingTransitions.WithLabelValues(status).Inc()
}

// RecordReview counts one accepted review.
func RecordReview(overall float64) {
	ReviewsCreated.Inc()
	ReviewsRating.Observe(overall)
}

func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func RecordEvent(eventType string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	EventsPublished.WithLabelValues(eventType, status).Inc()
}
