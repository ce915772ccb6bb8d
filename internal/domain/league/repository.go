package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	Insert(ctx context.Context, item League) error
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	Delete(ctx context.Context, leagueID int64) error
	Count(ctx context.Context) (int, error)
}
