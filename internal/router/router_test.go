package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository/memstore"
	"github.com/iliyamo/table-reservation/internal/router"
)

type env struct {
	t          *testing.T
	app        *router.App
	restaurant model.Restaurant
	location   model.Location
	tables     []model.Table
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memstore.New()
	loc := s.AddLocation("Delhi")
	r := s.AddRestaurant(model.Restaurant{LocationID: loc.ID, Name: "Tandoor House", Cuisine: "North Indian"})
	s.AddMenuItem(model.MenuItem{RestaurantID: r.ID, Name: "Dal Makhani", Category: "Mains", Veg: true})
	var tables []model.Table
	for _, c := range []uint32{2, 6} {
		tbl := model.Table{RestaurantID: r.ID, Label: fmt.Sprintf("T%d", c), Capacity: c}
		require.NoError(t, s.CreateTable(t.Context(), &tbl))
		tables = append(tables, tbl)
	}

	app := router.New(router.Deps{
		Cfg:   config.Config{JWTSecret: "router-test", AccessTTLMin: 10, BcryptCost: 4},
		Store: s,
	})
	return &env{t: t, app: app, restaurant: r, location: loc, tables: tables}
}

func (e *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.app.Echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func (e *env) register(name, role string) string {
	e.t.Helper()
	body := map[string]any{"name": name, "email": name + "@example.com", "password": "secret123", "role": role}
	if role == model.RoleStaff {
		body["restaurant_id"] = e.restaurant.ID
	}
	rec := e.do(http.MethodPost, "/v1/auth/register", "", body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(e.t, rec)["access"].(map[string]any)["token"].(string)
}

func (e *env) book(token string, tableID uint64, party int) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, fmt.Sprintf("/v1/restaurants/%d/bookings", e.restaurant.ID), token, map[string]any{
		"table_id": tableID, "booking_date": "2026-10-20", "booking_time": "19:30", "party_size": party,
	})
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/healthz", "", nil).Code)
	rec := e.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAuthFlow(t *testing.T) {
	e := newEnv(t)
	e.register("asha", model.RoleCustomer)

	rec := e.do(http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name": "asha", "email": "asha@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name": "bob", "email": "bob@example.com", "password": "secret123", "role": "STAFF", "restaurant_id": 999,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(http.MethodPost, "/v1/auth/login", "", map[string]any{"email": "asha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodPost, "/v1/auth/login", "", map[string]any{"email": "ASHA@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode(t, rec)["access"].(map[string]any)["token"].(string)

	rec = e.do(http.MethodGet, "/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@example.com", decode(t, rec)["email"])
}

func TestPublicBrowsing(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/v1/locations", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/locations/%d/restaurants", e.location.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].(map[string]any)["avg_rating"])

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/restaurants/%d", e.restaurant.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)
	assert.Len(t, detail["available_tables"], 2)
	assert.Nil(t, detail["rating"].(map[string]any)["average"])

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/restaurants/%d/menu", e.restaurant.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/v1/restaurants/999", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/v1/restaurants/abc", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/v1/nowhere", "", nil).Code)
}

func TestBookingLifecycle(t *testing.T) {
	e := newEnv(t)
	customer := e.register("ravi", model.RoleCustomer)
	other := e.register("kiran", model.RoleCustomer)
	staff := e.register("meera", model.RoleStaff)

	assert.Equal(t, http.StatusUnauthorized, e.book("", e.tables[0].ID, 2).Code)
	assert.Equal(t, http.StatusForbidden, e.book(staff, e.tables[0].ID, 2).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, e.book(customer, e.tables[0].ID, 3).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, e.book(customer, e.tables[0].ID, 1<<32+1).Code)
	assert.Equal(t, http.StatusNotFound, e.book(customer, 999, 2).Code)

	bad := e.do(http.MethodPost, fmt.Sprintf("/v1/restaurants/%d/bookings", e.restaurant.ID), customer, map[string]any{
		"table_id": e.tables[0].ID, "booking_date": "20-10-2026", "booking_time": "19:30", "party_size": 2,
	})
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	rec := e.book(customer, e.tables[0].ID, 2)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookingID := uint64(decode(t, rec)["booking_id"].(float64))

	assert.Equal(t, http.StatusConflict, e.book(other, e.tables[0].ID, 1).Code)

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/restaurants/%d/tables", e.restaurant.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = e.do(http.MethodGet, "/v1/my-bookings", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	path := fmt.Sprintf("/v1/bookings/%d", bookingID)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, path, other, nil).Code)
	rec = e.do(http.MethodDelete, path, customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode(t, rec)["booking"].(map[string]any)["status"])
	assert.Equal(t, http.StatusConflict, e.do(http.MethodDelete, path, customer, nil).Code)

	rec = e.book(other, e.tables[0].ID, 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	second := uint64(decode(t, rec)["booking_id"].(float64))

	rec = e.do(http.MethodGet, "/v1/staff/bookings", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 2)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, fmt.Sprintf("/v1/staff/bookings/%d/complete", second), customer, nil).Code)
	rec = e.do(http.MethodPost, fmt.Sprintf("/v1/staff/bookings/%d/complete", second), staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decode(t, rec)["booking"].(map[string]any)["status"])
}

func TestConcurrentBookingsOverHTTP(t *testing.T) {
	e := newEnv(t)
	tokens := make([]string, 10)
	for i := range tokens {
		tokens[i] = e.register(fmt.Sprintf("guest%d", i), model.RoleCustomer)
	}

	var wg sync.WaitGroup
	codes := make([]int, len(tokens))
	for i, tok := range tokens {
		wg.Add(1)
		go func(i int, tok string) {
			defer wg.Done()
			codes[i] = e.book(tok, e.tables[1].ID, 4).Code
		}(i, tok)
	}
	wg.Wait()

	created := 0
	for _, c := range codes {
		if c == http.StatusCreated {
			created++
		} else {
			assert.Equal(t, http.StatusConflict, c)
		}
	}
	assert.Equal(t, 1, created)
}

func TestReviewsAndRating(t *testing.T) {
	e := newEnv(t)
	customer := e.register("neha", model.RoleCustomer)
	path := fmt.Sprintf("/v1/restaurants/%d/reviews", e.restaurant.ID)

	rec := e.do(http.MethodPost, path, customer, map[string]any{"customer_service": 5, "food_quality": 5, "respect": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 5.0, decode(t, rec)["overall_rating"])

	rec = e.do(http.MethodPost, path, customer, map[string]any{"customer_service": 1, "food_quality": 1, "respect": 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(http.MethodPost, path, customer, map[string]any{"customer_service": 6, "food_quality": 1, "respect": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/restaurants/%d/rating", e.restaurant.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	r := decode(t, rec)
	assert.InDelta(t, 3.0, r["average"], 1e-9)
	assert.Equal(t, 2.0, r["count"])
}

func TestStaffTablesAndOffers(t *testing.T) {
	e := newEnv(t)
	staff := e.register("chef", model.RoleStaff)

	rec := e.do(http.MethodPost, "/v1/staff/tables", staff, map[string]any{"table_number": "P1", "capacity": 8})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tableID := uint64(decode(t, rec)["id"].(float64))

	assert.Equal(t, http.StatusUnprocessableEntity,
		e.do(http.MethodPost, "/v1/staff/tables", staff, map[string]any{"table_number": "P2", "capacity": 0}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity,
		e.do(http.MethodPost, "/v1/staff/tables", staff, map[string]any{"table_number": "P3", "capacity": 1<<32 + 4}).Code)
	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, fmt.Sprintf("/v1/staff/tables/%d", tableID), staff, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, fmt.Sprintf("/v1/staff/tables/%d", tableID), staff, nil).Code)

	rec = e.do(http.MethodPost, "/v1/staff/offers", staff, map[string]any{
		"title": "Always on", "discount_percentage": 10, "valid_from": "2000-01-01", "valid_to": "2999-12-31",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	offerID := uint64(decode(t, rec)["id"].(float64))

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/restaurants/%d/offers", e.restaurant.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)

	rec = e.do(http.MethodPatch, fmt.Sprintf("/v1/staff/offers/%d", offerID), staff, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodGet, fmt.Sprintf("/v1/restaurants/%d/offers", e.restaurant.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 0)

	rec = e.do(http.MethodGet, "/v1/staff/offers", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["items"], 1)
}
