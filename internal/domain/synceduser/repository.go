package synceduser

import "context"

// Repository describes identity-link persistence needs from use cases.
type Repository interface {
	Upsert(ctx context.Context, item SyncedUser) error
	GetByPlatformID(ctx context.Context, platformUserID int64) (SyncedUser, bool, error)
	GetByCitadelID(ctx context.Context, citadelUserID int64) (SyncedUser, bool, error)
	Count(ctx context.Context) (int, error)
}
