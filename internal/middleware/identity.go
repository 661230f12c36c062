package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/service"
)

const actorKey = "actor"

// ActorFrom returns the caller stored by JWTAuth.
func ActorFrom(c echo.Context) (service.Actor, bool) {
	a, ok := c.Get(actorKey).(service.Actor)
	return a, ok && a.UserID != 0
}

// userID returns the caller's id for keying, or "anon" when the request is
// not authenticated.
func userID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
