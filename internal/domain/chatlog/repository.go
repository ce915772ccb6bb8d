package chatlog

import "context"

// Repository is append-only by design: entries form a permanent audit trail,
// so no update or delete operations exist.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	ListByMatch(ctx context.Context, matchID int64) ([]Entry, error)
	ListByTeam(ctx context.Context, teamID int64) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}
