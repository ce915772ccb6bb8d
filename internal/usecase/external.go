package usecase

import "context"

// External* types are the validated shapes the league service client returns.
// The client maps provider payloads into these before they reach a service.

type ExternalLeague struct {
	ID      int64
	Name    string
	Rosters []ExternalRoster
	Matches []ExternalMatchSummary
}

// ExternalRoster is one season enrollment of a team in a league.
type ExternalRoster struct {
	ID            int64
	TeamID        int64
	Name          string
	DivisionLabel string
}

// ExternalMatchSummary is the lightweight per-match row embedded in a league
// payload. Status "confirmed" means the result was entered upstream.
type ExternalMatchSummary struct {
	ID          int64
	Status      string
	RoundNumber int
}

type ExternalTeam struct {
	ID      int64
	Name    string
	Players []ExternalPlayer
}

type ExternalPlayer struct {
	ID        int64
	Name      string
	IsCaptain bool
}

// ExternalMatch has a nil AwayTeam when the fixture is a bye.
type ExternalMatch struct {
	ID            int64
	RoundNumber   int
	RoundName     string
	Status        string
	ForfeitBy     string
	LeagueID      int64
	DivisionLabel string
	HomeTeam      *ExternalMatchSide
	AwayTeam      *ExternalMatchSide
}

type ExternalMatchSide struct {
	ID   int64
	Name string
}

type ExternalUser struct {
	ID         int64
	Name       string
	PlatformID int64
	SteamID    int64
	Teams      []ExternalUserTeam
}

type ExternalUserTeam struct {
	ID   int64
	Name string
}

// LeagueClient is the read-only league service surface the services consume.
// GetUserByPlatformID reports absence through the bool, not an error.
type LeagueClient interface {
	GetLeague(ctx context.Context, leagueID int64) (ExternalLeague, error)
	GetTeam(ctx context.Context, teamID int64) (ExternalTeam, error)
	GetMatch(ctx context.Context, matchID int64) (ExternalMatch, error)
	GetUserByPlatformID(ctx context.Context, platformID int64) (ExternalUser, bool, error)
}
