package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// MaxTableCapacity bounds the seats a single table can offer.
const MaxTableCapacity = 50

// CatalogService exposes the table inventory.  Availability is always
// read from the store and never cached.
type CatalogService struct {
	restaurants CatalogStore
	tables      TableStore
}

func NewCatalogService(restaurants CatalogStore, tables TableStore) *CatalogService {
	return &CatalogService{restaurants: restaurants, tables: tables}
}

// ListAvailableTables returns the tables of the restaurant that can be
// booked right now, ordered by id.
func (s *CatalogService) ListAvailableTables(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	if err := s.requireRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	tables, err := s.tables.ListAvailableTables(ctx, restaurantID)
	if err != nil {
		return nil, storageErr("list tables", err)
	}
	return tables, nil
}

// GetTable returns an in-service table.
func (s *CatalogService) GetTable(ctx context.Context, tableID uint64) (model.Table, error) {
	t, err := s.tables.GetTable(ctx, tableID)
	if errors.Is(err, repository.ErrTableNotFound) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, storageErr("get table", err)
	}
	return t, nil
}

// AddTable creates a table in the actor's restaurant.
func (s *CatalogService) AddTable(ctx context.Context, actor Actor, label string, capacity int) (model.Table, error) {
	if !actor.IsStaffOf(actor.RestaurantID) {
		return model.Table{}, ErrNotFound
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Table{}, validationErr("label is required")
	}
	if capacity < 1 || capacity > MaxTableCapacity {
		return model.Table{}, validationErr(fmt.Sprintf("capacity must be between 1 and %d", MaxTableCapacity))
	}
	t := model.Table{RestaurantID: actor.RestaurantID, Label: label, Capacity: uint32(capacity)}
	if err := s.tables.CreateTable(ctx, &t); err != nil {
		return t, storageErr("create table", err)
	}
	return t, nil
}

// RemoveTable takes an AVAILABLE table of the actor's restaurant out of
// service.  Reserved tables can not be removed.
func (s *CatalogService) RemoveTable(ctx context.Context, actor Actor, tableID uint64) error {
	if !actor.IsStaffOf(actor.RestaurantID) {
		return ErrNotFound
	}
	err := s.tables.SoftDeleteTable(ctx, actor.RestaurantID, tableID)
	switch {
	case errors.Is(err, repository.ErrTableNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	case err != nil:
		return storageErr("remove table", err)
	}
	return nil
}

func (s *CatalogService) requireRestaurant(ctx context.Context, restaurantID uint64) error {
	_, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storageErr("get restaurant", err)
	}
	return nil
}
