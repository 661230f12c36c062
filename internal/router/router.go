// Package router wires services, handlers and middleware into an Echo
// instance.
package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/logger"
	"github.com/iliyamo/table-reservation/internal/metrics"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/service"
)

// Deps are the external dependencies of the HTTP application.  Redis and
// Events may be nil.
type Deps struct {
	Cfg       config.Config
	Store     service.Store
	Redis     *redis.Client
	Events    service.EventPublisher
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// App is the assembled HTTP application.
type App struct {
	Echo         *echo.Echo
	Reservations *service.ReservationService
}

// New builds the services on top of d.Store and registers every route.
func New(d Deps) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = jsonErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logger.EchoMiddleware())
	e.Use(metrics.EchoMiddleware())
	e.Use(onlyUnder("/v1/", middleware.NewTokenBucket(d.RateLimit, d.Redis)))

	reservations := service.NewReservationService(d.Store, d.Store, d.Events)
	catalog := service.NewCatalogService(d.Store, d.Store)
	ratings := service.NewRatingService(d.Store, d.Store)
	offers := service.NewOfferService(d.Store, d.Store)
	query := service.NewQueryService(d.Store, d.Store)

	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(d.Cfg, d.Store, d.Store), d.Cfg.JWTSecret)
	RegisterPublic(e, handler.NewPublicHandler(query, catalog, ratings, offers), middleware.NewRedisCache(d.Cache, d.Redis))
	RegisterCustomer(e, handler.NewCustomerHandler(reservations, ratings, query), d.Cfg.JWTSecret)
	RegisterStaff(e, handler.NewStaffHandler(reservations, catalog, offers, query), d.Cfg.JWTSecret)

	return &App{Echo: e, Reservations: reservations}
}

// onlyUnder applies mw to requests whose path starts with prefix.
func onlyUnder(prefix string, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, prefix) {
				return wrapped(c)
			}
			return next(c)
		}
	}
}

// jsonErrorHandler renders echo errors (404, 405, bind errors) in the
// same {"error": ...} shape the handlers use.
func jsonErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = http.StatusText(code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	if code >= 500 {
		logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers registration, login and the profile endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated browsing endpoints.  The
// response cache only wraps catalog data; availability, offers and
// ratings change with every booking or review and are served live.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/locations", p.ListLocations, cache)
	e.GET("/v1/locations/:id/restaurants", p.ListRestaurants)
	e.GET("/v1/restaurants/:id", p.GetRestaurant)
	e.GET("/v1/restaurants/:id/menu", p.GetMenu, cache)
	e.GET("/v1/restaurants/:id/tables", p.ListTables)
	e.GET("/v1/restaurants/:id/offers", p.ListOffers)
	e.GET("/v1/restaurants/:id/rating", p.GetRating)
}
