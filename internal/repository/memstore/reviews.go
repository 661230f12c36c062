package memstore

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/model"
)

func (s *Store) CreateReview(_ context.Context, rv *model.Review) error {
	rv.ID = s.seq.next(kindReview)
	rv.CreatedAt = s.now()
	s.catalogMu.Lock()
	s.reviews[rv.RestaurantID] = append(s.reviews[rv.RestaurantID], *rv)
	s.catalogMu.Unlock()
	return nil
}

func (s *Store) RatingAggregate(_ context.Context, restaurantID uint64) (model.RatingAggregate, error) {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	return aggregate(s.reviews[restaurantID]), nil
}

func aggregate(reviews []model.Review) model.RatingAggregate {
	if len(reviews) == 0 {
		return model.RatingAggregate{}
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Overall
	}
	return model.RatingAggregate{Average: sum / float64(len(reviews)), Count: len(reviews)}
}
