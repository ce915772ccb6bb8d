package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/leaguehq/drawbridge/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[int64]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{items: make(map[int64]league.League)}
}

func (r *LeagueRepository) Insert(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items[item.ID] = item
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, leagueID)
	return nil
}

func (r *LeagueRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}
