package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/leaguehq/drawbridge/internal/domain/division"
)

type DivisionRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]division.Division
}

func NewDivisionRepository() *DivisionRepository {
	return &DivisionRepository{items: make(map[int64]division.Division)}
}

func (r *DivisionRepository) Insert(_ context.Context, item division.Division) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item.ID = r.nextID
	r.items[item.ID] = item
	return item.ID, nil
}

func (r *DivisionRepository) GetByID(_ context.Context, divisionID int64) (division.Division, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[divisionID]
	return item, ok, nil
}

func (r *DivisionRepository) GetByLabel(_ context.Context, leagueID int64, label string) (division.Division, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.LeagueID == leagueID && item.Label == label {
			return item, true, nil
		}
	}
	return division.Division{}, false, nil
}

func (r *DivisionRepository) ListByLeague(_ context.Context, leagueID int64) ([]division.Division, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]division.Division, 0, len(r.items))
	for _, item := range r.items {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DivisionRepository) DeleteByLeague(_ context.Context, leagueID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.LeagueID == leagueID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *DivisionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}
