// Package memstore is an in-process implementation of the service store
// interfaces.  It backs STORE=memory deployments and the concurrency
// tests.  Every table carries its own mutex, so reservations of
// different tables never wait on each other.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

type tableSlot struct {
	mu    sync.Mutex
	table model.Table
}

// Store keeps all rows in maps.  Lock order is a table slot first, then
// bookingsMu; catalogMu is never held together with either.
type Store struct {
	tablesMu sync.RWMutex
	tables   map[uint64]*tableSlot

	bookingsMu sync.RWMutex
	bookings   map[uint64]model.Booking

	catalogMu    sync.RWMutex
	locations    map[uint64]model.Location
	restaurants  map[uint64]model.Restaurant
	menu         map[uint64][]model.MenuItem
	users        map[uint64]model.User
	usersByEmail map[string]uint64
	reviews      map[uint64][]model.Review
	offers       map[uint64]model.Offer

	seq ids
	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		tables:       make(map[uint64]*tableSlot),
		bookings:     make(map[uint64]model.Booking),
		locations:    make(map[uint64]model.Location),
		restaurants:  make(map[uint64]model.Restaurant),
		menu:         make(map[uint64][]model.MenuItem),
		users:        make(map[uint64]model.User),
		usersByEmail: make(map[string]uint64),
		reviews:      make(map[uint64][]model.Review),
		offers:       make(map[uint64]model.Offer),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Load inserts a seed catalog.
func (s *Store) Load(data database.SeedData) {
	cities := make(map[string]uint64, len(data.Cities))
	for _, c := range data.Cities {
		cities[c] = s.AddLocation(c).ID
	}
	for _, r := range data.Restaurants {
		rs := s.AddRestaurant(model.Restaurant{
			LocationID:  cities[r.City],
			Name:        r.Name,
			Cuisine:     r.Cuisine,
			VegOnly:     r.VegOnly,
			Description: r.Description,
		})
		for _, t := range r.Tables {
			tbl := model.Table{RestaurantID: rs.ID, Label: t.Label, Capacity: t.Capacity}
			_ = s.CreateTable(context.Background(), &tbl)
		}
		for _, m := range r.Menu {
			s.AddMenuItem(model.MenuItem{
				RestaurantID: rs.ID, Name: m.Name, Description: m.Description,
				Price: m.Price, Category: m.Category, Veg: m.Veg,
			})
		}
	}
}

// AddLocation registers a city.
func (s *Store) AddLocation(city string) model.Location {
	l := model.Location{ID: s.seq.next(kindLocation), CityName: city}
	s.catalogMu.Lock()
	s.locations[l.ID] = l
	s.catalogMu.Unlock()
	return l
}

// AddRestaurant registers a restaurant and returns it with its ID.
func (s *Store) AddRestaurant(r model.Restaurant) model.Restaurant {
	r.ID = s.seq.next(kindRestaurant)
	s.catalogMu.Lock()
	s.restaurants[r.ID] = r
	s.catalogMu.Unlock()
	return r
}

// AddMenuItem appends a dish to a restaurant menu.
func (s *Store) AddMenuItem(m model.MenuItem) model.MenuItem {
	m.ID = s.seq.next(kindMenuItem)
	s.catalogMu.Lock()
	s.menu[m.RestaurantID] = append(s.menu[m.RestaurantID], m)
	s.catalogMu.Unlock()
	return m
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	if _, ok := s.usersByEmail[u.Email]; ok {
		return repository.ErrEmailExists
	}
	u.ID = s.seq.next(kindUser)
	u.IsActive = true
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	s.usersByEmail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	id, ok := s.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) GetUserByID(_ context.Context, id uint64) (model.User, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return u, repository.ErrUserNotFound
	}
	return u, nil
}

// ---- catalog ----

func (s *Store) ListLocations(_ context.Context) ([]model.Location, error) {
	s.catalogMu.RLock()
	out := make([]model.Location, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, l)
	}
	s.catalogMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CityName < out[j].CityName })
	return out, nil
}

func (s *Store) GetLocation(_ context.Context, id uint64) (model.Location, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	l, ok := s.locations[id]
	if !ok {
		return l, repository.ErrLocationNotFound
	}
	return l, nil
}

func (s *Store) GetRestaurant(_ context.Context, id uint64) (model.Restaurant, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	r, ok := s.restaurants[id]
	if !ok {
		return r, repository.ErrRestaurantNotFound
	}
	return r, nil
}

func (s *Store) ListRestaurantsByLocation(_ context.Context, locationID uint64) ([]model.RestaurantSummary, error) {
	s.catalogMu.RLock()
	out := make([]model.RestaurantSummary, 0)
	for _, r := range s.restaurants {
		if r.LocationID != locationID {
			continue
		}
		sum := model.RestaurantSummary{Restaurant: r}
		agg := aggregate(s.reviews[r.ID])
		if agg.Count > 0 {
			v := agg.Average
			sum.AverageRating = &v
			sum.ReviewCount = agg.Count
		}
		out = append(out, sum)
	}
	s.catalogMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListMenu(_ context.Context, restaurantID uint64, vegOnly bool) ([]model.MenuItem, error) {
	s.catalogMu.RLock()
	out := make([]model.MenuItem, 0, len(s.menu[restaurantID]))
	for _, m := range s.menu[restaurantID] {
		if vegOnly && !m.Veg {
			continue
		}
		out = append(out, m)
	}
	s.catalogMu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) RestaurantSnapshot(ctx context.Context, restaurantID uint64) (model.RestaurantSnapshot, error) {
	var snap model.RestaurantSnapshot
	var err error
	if snap.Restaurant, err = s.GetRestaurant(ctx, restaurantID); err != nil {
		return snap, err
	}
	if snap.Tables, err = s.ListAvailableTables(ctx, restaurantID); err != nil {
		return snap, err
	}
	if snap.Offers, err = s.ListOffers(ctx, restaurantID); err != nil {
		return snap, err
	}
	snap.Rating, err = s.RatingAggregate(ctx, restaurantID)
	return snap, err
}
