package memstore

import (
	"context"
	"sort"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

func (s *Store) CreateOffer(_ context.Context, o *model.Offer) error {
	o.ID = s.seq.next(kindOffer)
	o.CreatedAt = s.now()
	s.catalogMu.Lock()
	s.offers[o.ID] = *o
	s.catalogMu.Unlock()
	return nil
}

func (s *Store) GetOffer(_ context.Context, id uint64) (model.Offer, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	o, ok := s.offers[id]
	if !ok {
		return o, repository.ErrOfferNotFound
	}
	return o, nil
}

func (s *Store) ListOffers(_ context.Context, restaurantID uint64) ([]model.Offer, error) {
	s.catalogMu.RLock()
	out := make([]model.Offer, 0)
	for _, o := range s.offers {
		if o.RestaurantID == restaurantID {
			out = append(out, o)
		}
	}
	s.catalogMu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) SetOfferActive(_ context.Context, id uint64, active bool) error {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	o, ok := s.offers[id]
	if !ok {
		return repository.ErrOfferNotFound
	}
	o.Active = active
	s.offers[id] = o
	return nil
}
