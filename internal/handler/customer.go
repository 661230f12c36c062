package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/service"
)

// CustomerHandler serves the booking and review endpoints of customers.
type CustomerHandler struct {
	Reservations *service.ReservationService
	Ratings      *service.RatingService
	Query        *service.QueryService
}

func NewCustomerHandler(res *service.ReservationService, r *service.RatingService, q *service.QueryService) *CustomerHandler {
	return &CustomerHandler{Reservations: res, Ratings: r, Query: q}
}

type reserveReq struct {
	TableID   uint64 `json:"table_id" validate:"required"`
	Date      string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"booking_time" validate:"required,datetime=15:04"`
	PartySize int    `json:"party_size"`
}

// CreateBooking reserves a table of the restaurant in the path.
//
//	201 {"booking_id": ...}  409 table unavailable  422 invalid party size  404
func (h *CustomerHandler) CreateBooking(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	var req reserveReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}

	out, err := h.Reservations.Reserve(c.Request().Context(), service.ReserveRequest{
		RestaurantID: restaurantID,
		TableID:      req.TableID,
		UserID:       a.UserID,
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    req.PartySize,
	})
	if err != nil {
		return serviceError(c, err)
	}
	switch out.Status {
	case service.ReserveAccepted:
		return c.JSON(http.StatusCreated, echo.Map{"booking_id": out.Booking.ID, "booking": out.Booking})
	case service.ReserveTableUnavailable:
		return c.JSON(http.StatusConflict, echo.Map{"error": "table unavailable"})
	case service.ReserveInvalidPartySize:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid party size"})
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
}

// CancelBooking cancels one of the caller's bookings.
func (h *CustomerHandler) CancelBooking(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "booking id")
	}
	out, err := h.Reservations.Cancel(c.Request().Context(), id, a)
	if err != nil {
		return serviceError(c, err)
	}
	return finalizeResponse(c, out)
}

func finalizeResponse(c echo.Context, out service.FinalizeOutcome) error {
	switch out.Status {
	case service.FinalizeDone:
		return c.JSON(http.StatusOK, echo.Map{"booking": out.Booking})
	case service.FinalizeAlreadyFinalized:
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already finalized", "status": out.Booking.Status})
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
}

// MyBookings lists the caller's bookings, latest visit first.
func (h *CustomerHandler) MyBookings(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.Query.BookingsByUser(c.Request().Context(), a)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

type reviewReq struct {
	Service     int    `json:"customer_service"`
	FoodQuality int    `json:"food_quality"`
	Respect     int    `json:"respect"`
	Text        string `json:"review_text" validate:"max=2000"`
}

// CreateReview rates the restaurant in the path.
func (h *CustomerHandler) CreateReview(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	var req reviewReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	out, err := h.Ratings.SubmitReview(c.Request().Context(), service.ReviewRequest{
		UserID:       a.UserID,
		RestaurantID: restaurantID,
		Service:      req.Service,
		FoodQuality:  req.FoodQuality,
		Respect:      req.Respect,
		Text:         req.Text,
	})
	if err != nil {
		return serviceError(c, err)
	}
	switch out.Status {
	case service.ReviewAccepted:
		return c.JSON(http.StatusCreated, echo.Map{"review_id": out.Review.ID, "overall_rating": out.Review.Overall})
	case service.ReviewInvalidScore:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "scores must be between 1 and 5"})
	}
	return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
}
