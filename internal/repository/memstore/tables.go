package memstore

import (
	"context"
	"sort"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

func (s *Store) slot(tableID uint64) *tableSlot {
	s.tablesMu.RLock()
	defer s.tablesMu.RUnlock()
	return s.tables[tableID]
}

func (s *Store) GetTable(_ context.Context, tableID uint64) (model.Table, error) {
	sl := s.slot(tableID)
	if sl == nil {
		return model.Table{}, repository.ErrTableNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.table.DeletedAt != nil {
		return model.Table{}, repository.ErrTableNotFound
	}
	return sl.table, nil
}

func (s *Store) ListAvailableTables(_ context.Context, restaurantID uint64) ([]model.Table, error) {
	s.tablesMu.RLock()
	slots := make([]*tableSlot, 0, len(s.tables))
	for _, sl := range s.tables {
		slots = append(slots, sl)
	}
	s.tablesMu.RUnlock()

	out := make([]model.Table, 0)
	for _, sl := range slots {
		sl.mu.Lock()
		t := sl.table
		sl.mu.Unlock()
		if t.RestaurantID == restaurantID && t.Available() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateTable(_ context.Context, t *model.Table) error {
	t.ID = s.seq.next(kindTable)
	t.State = model.TableAvailable
	t.CreatedAt = s.now()
	t.DeletedAt = nil
	s.tablesMu.Lock()
	s.tables[t.ID] = &tableSlot{table: *t}
	s.tablesMu.Unlock()
	return nil
}

func (s *Store) SoftDeleteTable(_ context.Context, restaurantID, tableID uint64) error {
	sl := s.slot(tableID)
	if sl == nil {
		return repository.ErrTableNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.table.DeletedAt != nil || sl.table.RestaurantID != restaurantID {
		return repository.ErrTableNotFound
	}
	if sl.table.State != model.TableAvailable {
		return repository.ErrConflict
	}
	now := s.now()
	sl.table.DeletedAt = &now
	return nil
}
