package citadel

import (
	"fmt"

	validator "github.com/go-playground/validator/v10"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

// APIError carries the status and message of a failed league service call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("citadel status=%d message=%s", e.Status, e.Message)
}

var validate = validator.New()

// Provider payloads. Required fields are enforced here so a malformed
// response fails at the boundary instead of deep inside a pipeline.

type leaguePayload struct {
	ID      int64                 `json:"id" validate:"required"`
	Name    string                `json:"name" validate:"required"`
	Rosters []rosterPayload       `json:"rosters" validate:"dive"`
	Matches []matchSummaryPayload `json:"matches" validate:"dive"`
}

type rosterPayload struct {
	ID       int64  `json:"id" validate:"required"`
	TeamID   int64  `json:"team_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Division string `json:"division" validate:"required"`
}

type matchSummaryPayload struct {
	ID          int64  `json:"id" validate:"required"`
	Status      string `json:"status"`
	RoundNumber int    `json:"round_number"`
}

type teamPayload struct {
	ID      int64           `json:"id" validate:"required"`
	Name    string          `json:"name" validate:"required"`
	Players []playerPayload `json:"players" validate:"dive"`
}

type playerPayload struct {
	ID        int64  `json:"id" validate:"required"`
	Name      string `json:"name"`
	IsCaptain bool   `json:"is_captain"`
}

type matchPayload struct {
	ID          int64             `json:"id" validate:"required"`
	RoundNumber int               `json:"round_number"`
	RoundName   string            `json:"round_name"`
	Status      string            `json:"status"`
	ForfeitBy   string            `json:"forfeit_by"`
	LeagueID    int64             `json:"league_id" validate:"required"`
	Division    string            `json:"division"`
	HomeTeam    *matchSidePayload `json:"home_team" validate:"required"`
	AwayTeam    *matchSidePayload `json:"away_team"`
}

type matchSidePayload struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type userPayload struct {
	ID         int64             `json:"id" validate:"required"`
	Name       string            `json:"name" validate:"required"`
	PlatformID int64             `json:"platform_id"`
	SteamID    int64             `json:"steam_id"`
	Teams      []userTeamPayload `json:"teams" validate:"dive"`
}

type userTeamPayload struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name"`
}

func mapLeague(src leaguePayload) usecase.ExternalLeague {
	out := usecase.ExternalLeague{
		ID:      src.ID,
		Name:    src.Name,
		Rosters: make([]usecase.ExternalRoster, 0, len(src.Rosters)),
		Matches: make([]usecase.ExternalMatchSummary, 0, len(src.Matches)),
	}
	for _, roster := range src.Rosters {
		out.Rosters = append(out.Rosters, usecase.ExternalRoster{
			ID:            roster.ID,
			TeamID:        roster.TeamID,
			Name:          roster.Name,
			DivisionLabel: roster.Division,
		})
	}
	for _, match := range src.Matches {
		out.Matches = append(out.Matches, usecase.ExternalMatchSummary{
			ID:          match.ID,
			Status:      match.Status,
			RoundNumber: match.RoundNumber,
		})
	}
	return out
}

func mapTeam(src teamPayload) usecase.ExternalTeam {
	out := usecase.ExternalTeam{
		ID:      src.ID,
		Name:    src.Name,
		Players: make([]usecase.ExternalPlayer, 0, len(src.Players)),
	}
	for _, player := range src.Players {
		out.Players = append(out.Players, usecase.ExternalPlayer{
			ID:        player.ID,
			Name:      player.Name,
			IsCaptain: player.IsCaptain,
		})
	}
	return out
}

func mapMatch(src matchPayload) usecase.ExternalMatch {
	out := usecase.ExternalMatch{
		ID:            src.ID,
		RoundNumber:   src.RoundNumber,
		RoundName:     src.RoundName,
		Status:        src.Status,
		ForfeitBy:     src.ForfeitBy,
		LeagueID:      src.LeagueID,
		DivisionLabel: src.Division,
	}
	if src.HomeTeam != nil {
		out.HomeTeam = &usecase.ExternalMatchSide{ID: src.HomeTeam.ID, Name: src.HomeTeam.Name}
	}
	if src.AwayTeam != nil {
		out.AwayTeam = &usecase.ExternalMatchSide{ID: src.AwayTeam.ID, Name: src.AwayTeam.Name}
	}
	return out
}

func mapUser(src userPayload) usecase.ExternalUser {
	out := usecase.ExternalUser{
		ID:         src.ID,
		Name:       src.Name,
		PlatformID: src.PlatformID,
		SteamID:    src.SteamID,
		Teams:      make([]usecase.ExternalUserTeam, 0, len(src.Teams)),
	}
	for _, team := range src.Teams {
		out.Teams = append(out.Teams, usecase.ExternalUserTeam{ID: team.ID, Name: team.Name})
	}
	return out
}
