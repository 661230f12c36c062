package logger

import (
	"time"

	"github.com/labstack/echo/v4"
)

// EchoMiddleware logs one line per request.  It must run after
// echo's RequestID middleware so the id is already on the response.
func EchoMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			status := res.Status

			event := Info()
			if status >= 500 {
				event = Error()
			} else if status >= 400 {
				event = Warn()
			}

			logEvent := event.
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Str("remote_addr", c.RealIP()).
				Int("status", status).
				Int64("size", res.Size).
				Float64("duration_ms", float64(time.Since(start).Microseconds())/1000)

			if err != nil {
				logEvent = logEvent.Err(err)
			}
			logEvent.Msg("HTTP request")
			return nil
		}
	}
}
