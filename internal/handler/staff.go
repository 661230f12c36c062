package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/service"
)

// StaffHandler serves the restaurant dashboard.  Every operation is
// scoped to the restaurant carried by the staff token.
type StaffHandler struct {
	Reservations *service.ReservationService
	Catalog      *service.CatalogService
	Offers       *service.OfferService
	Query        *service.QueryService
}

func NewStaffHandler(res *service.ReservationService, cat *service.CatalogService, o *service.OfferService, q *service.QueryService) *StaffHandler {
	return &StaffHandler{Reservations: res, Catalog: cat, Offers: o, Query: q}
}

// ListBookings returns the restaurant's bookings, latest visit first.
func (h *StaffHandler) ListBookings(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.Query.BookingsByRestaurant(c.Request().Context(), a)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

func (h *StaffHandler) CompleteBooking(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "booking id")
	}
	out, err := h.Reservations.Complete(c.Request().Context(), id, a)
	if err != nil {
		return serviceError(c, err)
	}
	return finalizeResponse(c, out)
}

func (h *StaffHandler) CancelBooking(c echo.Context) error {
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

type tableReq struct {
	Label    string `json:"table_number" validate:"required,max=20"`
	Capacity int    `json:"capacity"`
}

func (h *StaffHandler) AddTable(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req tableReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	t, err := h.Catalog.AddTable(c.Request().Context(), a, req.Label, req.Capacity)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// RemoveTable soft deletes an AVAILABLE table; a reserved one yields 409.
func (h *StaffHandler) RemoveTable(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "table id")
	}
	if err := h.Catalog.RemoveTable(c.Request().Context(), a, id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StaffHandler) ListOffers(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	offers, err := h.Offers.ListOffers(c.Request().Context(), a)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": offers})
}

type offerReq struct {
	Title              string  `json:"title" validate:"required,max=150"`
	Description        string  `json:"description"`
	DiscountPercentage float64 `json:"discount_percentage"`
	ValidFrom          string  `json:"valid_from" validate:"required,datetime=2006-01-02"`
	ValidTo            string  `json:"valid_to" validate:"required,datetime=2006-01-02"`
	IsActive           *bool   `json:"is_active"`
}

// CreateOffer adds an offer; it is active unless is_active is false.
func (h *StaffHandler) CreateOffer(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	var req offerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	// Layout already checked by the validator.
	from, _ := time.Parse(service.DateLayout, req.ValidFrom)
	to, _ := time.Parse(service.DateLayout, req.ValidTo)
	active := req.IsActive == nil || *req.IsActive

	o, err := h.Offers.CreateOffer(c.Request().Context(), a, service.OfferRequest{
		Title:              req.Title,
		Description:        req.Description,
		DiscountPercentage: req.DiscountPercentage,
		ValidFrom:          from,
		ValidTo:            to,
		Active:             active,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

type offerPatchReq struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (h *StaffHandler) UpdateOffer(c echo.Context) error {
	a, ok := actorOf(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "offer id")
	}
	var req offerPatchReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	o, err := h.Offers.SetOfferActive(c.Request().Context(), a, id, *req.IsActive)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
