package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// RegisterCustomer registers customer endpoints.  All routes require a
// valid JWT with the CUSTOMER role.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer),
	}
	e.POST("/v1/restaurants/:id/bookings", h.CreateBooking, auth...)
	e.POST("/v1/restaurants/:id/reviews", h.CreateReview, auth...)
	e.DELETE("/v1/bookings/:id", h.CancelBooking, auth...)
	e.GET("/v1/my-bookings", h.MyBookings, auth...)
}
