package team

import "context"

// Repository describes team-enrollment persistence needs from use cases.
type Repository interface {
	Insert(ctx context.Context, item Team) error
	GetByTeamAndLeague(ctx context.Context, teamID, leagueID int64) (Team, bool, error)
	GetByChannelID(ctx context.Context, channelID int64) (Team, bool, error)
	ListByTeamID(ctx context.Context, teamID int64) ([]Team, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
	ListByDivision(ctx context.Context, divisionID int64) ([]Team, error)
	UpdateChannel(ctx context.Context, enrollmentID, channelID int64) error
	DeleteByLeague(ctx context.Context, leagueID int64) error
	Count(ctx context.Context) (int, error)
}
