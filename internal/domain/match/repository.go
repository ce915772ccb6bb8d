package match

import "context"

// Repository describes match persistence needs from use cases. Archive is
// monotonic: it only ever sets the flag, never clears it.
type Repository interface {
	Insert(ctx context.Context, item Match) error
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	GetByChannelID(ctx context.Context, channelID int64) (Match, bool, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Match, error)
	Archive(ctx context.Context, matchID int64) error
	UpdateChannel(ctx context.Context, matchID, channelID int64) error
	DeleteByLeague(ctx context.Context, leagueID int64) error
	Count(ctx context.Context) (int, error)
}
