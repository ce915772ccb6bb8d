package division

import "context"

// Repository describes division persistence needs from use cases.
type Repository interface {
	Insert(ctx context.Context, item Division) (int64, error)
	GetByID(ctx context.Context, divisionID int64) (Division, bool, error)
	GetByLabel(ctx context.Context, leagueID int64, label string) (Division, bool, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Division, error)
	DeleteByLeague(ctx context.Context, leagueID int64) error
	Count(ctx context.Context) (int, error)
}
