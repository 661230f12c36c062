package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// user has one of the specified roles.  It assumes JWTAuth ran before it.
// Staff tokens without a restaurant are rejected too, since every staff
// operation is scoped to that restaurant.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok || !allowed[a.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if a.Role == model.RoleStaff && a.RestaurantID == 0 {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "staff account is not bound to a restaurant"})
			}
			return next(c)
		}
	}
}
