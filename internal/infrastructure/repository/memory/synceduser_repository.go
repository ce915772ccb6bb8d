package memory

import (
	"context"
	"sync"
	"time"

	"github.com/leaguehq/drawbridge/internal/domain/synceduser"
)

type SyncedUserRepository struct {
	mu    sync.RWMutex
	items map[int64]synceduser.SyncedUser
}

func NewSyncedUserRepository() *SyncedUserRepository {
	return &SyncedUserRepository{items: make(map[int64]synceduser.SyncedUser)}
}

func (r *SyncedUserRepository) Upsert(_ context.Context, item synceduser.SyncedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.items[item.PlatformUserID]; ok {
		item.CreatedAt = existing.CreatedAt
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.items[item.PlatformUserID] = item
	return nil
}

func (r *SyncedUserRepository) GetByPlatformID(_ context.Context, platformUserID int64) (synceduser.SyncedUser, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[platformUserID]
	return item, ok, nil
}

func (r *SyncedUserRepository) GetByCitadelID(_ context.Context, citadelUserID int64) (synceduser.SyncedUser, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.CitadelUserID == citadelUserID {
			return item, true, nil
		}
	}
	return synceduser.SyncedUser{}, false, nil
}

func (r *SyncedUserRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}
