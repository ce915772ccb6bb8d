package memory

import (
	"context"
	"sync"

	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
)

// ChatLogRepository keeps entries in insertion order, which is also the
// transcript order.
type ChatLogRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []chatlog.Entry
}

func NewChatLogRepository() *ChatLogRepository {
	return &ChatLogRepository{}
}

func (r *ChatLogRepository) Insert(_ context.Context, entry chatlog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	entry.ID = r.nextID
	r.items = append(r.items, entry)
	return nil
}

func (r *ChatLogRepository) ListByMatch(_ context.Context, matchID int64) ([]chatlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chatlog.Entry, 0, 16)
	for _, entry := range r.items {
		if entry.MatchID == matchID && matchID != 0 {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *ChatLogRepository) ListByTeam(_ context.Context, teamID int64) ([]chatlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chatlog.Entry, 0, 16)
	for _, entry := range r.items {
		if entry.TeamID == teamID && teamID != 0 {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *ChatLogRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}
