package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/leaguehq/drawbridge/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[int64]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[int64]team.Team)}
}

func (r *TeamRepository) Insert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.EnrollmentID] = item
	return nil
}

func (r *TeamRepository) GetByTeamAndLeague(_ context.Context, teamID, leagueID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.TeamID == teamID && item.LeagueID == leagueID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) GetByChannelID(_ context.Context, channelID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ChannelID == channelID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByTeamID(_ context.Context, teamID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, 2)
	for _, item := range r.items {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentID < out[j].EnrollmentID })
	return out, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentID < out[j].EnrollmentID })
	return out, nil
}

func (r *TeamRepository) ListByDivision(_ context.Context, divisionID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		if item.DivisionID == divisionID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentID < out[j].EnrollmentID })
	return out, nil
}

func (r *TeamRepository) UpdateChannel(_ context.Context, enrollmentID, channelID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[enrollmentID]
	if !ok {
		return fmt.Errorf("team enrollment %d does not exist", enrollmentID)
	}
	item.ChannelID = channelID
	r.items[enrollmentID] = item
	return nil
}

func (r *TeamRepository) DeleteByLeague(_ context.Context, leagueID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.LeagueID == leagueID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *TeamRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}
