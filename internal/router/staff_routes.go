package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// RegisterStaff registers the restaurant dashboard under /v1/staff.  All
// routes require a STAFF token bound to a restaurant.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, jwtSecret string) {
	g := e.Group("/v1/staff",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff),
	)
	g.GET("/bookings", h.ListBookings)
	g.POST("/bookings/:id/complete", h.CompleteBooking)
	g.DELETE("/bookings/:id", h.CancelBooking)

	g.POST("/tables", h.AddTable)
	g.DELETE("/tables/:id", h.RemoveTable)

	g.GET("/offers", h.ListOffers)
	g.POST("/offers", h.CreateOffer)
	g.PATCH("/offers/:id", h.UpdateOffer)
}
