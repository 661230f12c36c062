package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/service"
)

// PublicHandler serves the unauthenticated browsing API.
type PublicHandler struct {
	Query   *service.QueryService
	Catalog *service.CatalogService
	Ratings *service.RatingService
	Offers  *service.OfferService
	Now     func() time.Time
}

func NewPublicHandler(q *service.QueryService, cat *service.CatalogService, r *service.RatingService, o *service.OfferService) *PublicHandler {
	return &PublicHandler{Query: q, Catalog: cat, Ratings: r, Offers: o, Now: time.Now}
}

// ListLocations returns every city ordered by name.
func (h *PublicHandler) ListLocations(c echo.Context) error {
	locs, err := h.Query.ListLocations(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": locs})
}

// ListRestaurants returns the restaurants of a city with their ratings.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "location id")
	}
	list, err := h.Query.RestaurantsByCity(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// GetRestaurant returns the restaurant page.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	detail, err := h.Query.RestaurantDetail(c.Request().Context(), id, h.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *PublicHandler) GetMenu(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	items, err := h.Query.Menu(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListTables returns the tables that can be booked right now.
func (h *PublicHandler) ListTables(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	tables, err := h.Catalog.ListAvailableTables(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tables})
}

// ListOffers returns the offers active today.
func (h *PublicHandler) ListOffers(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	offers, err := h.Offers.ListActiveOffers(c.Request().Context(), id, h.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": offers})
}

// GetRating returns {"average": null|number, "count": n}.
func (h *PublicHandler) GetRating(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badID(c, "restaurant id")
	}
	r, err := h.Ratings.AverageRating(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}
