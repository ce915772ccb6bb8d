package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/leaguehq/drawbridge/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[int64]match.Match)}
}

func (r *MatchRepository) Insert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.MatchID] = item
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *MatchRepository) GetByChannelID(_ context.Context, channelID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if channelID == 0 {
		return match.Match{}, false, nil
	}
	for _, item := range r.items {
		if item.ChannelID == channelID {
			return item, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *MatchRepository) ListByLeague(_ context.Context, leagueID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (r *MatchRepository) Archive(_ context.Context, matchID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("match %d does not exist", matchID)
	}
	item.Archived = true
	r.items[matchID] = item
	return nil
}

func (r *MatchRepository) UpdateChannel(_ context.Context, matchID, channelID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("match %d does not exist", matchID)
	}
	item.ChannelID = channelID
	r.items[matchID] = item
	return nil
}

func (r *MatchRepository) DeleteByLeague(_ context.Context, leagueID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.LeagueID == leagueID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}
