package usecase_test

import (
	"context"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/chat/chatfake"
	"github.com/leaguehq/drawbridge/internal/domain/division"
	"github.com/leaguehq/drawbridge/internal/domain/league"
	"github.com/leaguehq/drawbridge/internal/domain/synceduser"
	"github.com/leaguehq/drawbridge/internal/domain/team"
	"github.com/leaguehq/drawbridge/internal/infrastructure/repository/memory"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

// fakeClient serves canned league-site payloads in tests.
type fakeClient struct {
	leagues         map[int64]usecase.ExternalLeague
	teams           map[int64]usecase.ExternalTeam
	matches         map[int64]usecase.ExternalMatch
	usersByPlatform map[int64]usecase.ExternalUser
	err             error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		leagues:         make(map[int64]usecase.ExternalLeague),
		teams:           make(map[int64]usecase.ExternalTeam),
		matches:         make(map[int64]usecase.ExternalMatch),
		usersByPlatform: make(map[int64]usecase.ExternalUser),
	}
}

func (c *fakeClient) GetLeague(_ context.Context, leagueID int64) (usecase.ExternalLeague, error) {
	if c.err != nil {
		return usecase.ExternalLeague{}, c.err
	}
	lg, ok := c.leagues[leagueID]
	if !ok {
		return usecase.ExternalLeague{}, usecase.ErrExternalService
	}
	return lg, nil
}

func (c *fakeClient) GetTeam(_ context.Context, teamID int64) (usecase.ExternalTeam, error) {
	if c.err != nil {
		return usecase.ExternalTeam{}, c.err
	}
	t, ok := c.teams[teamID]
	if !ok {
		return usecase.ExternalTeam{}, usecase.ErrExternalService
	}
	return t, nil
}

func (c *fakeClient) GetMatch(_ context.Context, matchID int64) (usecase.ExternalMatch, error) {
	if c.err != nil {
		return usecase.ExternalMatch{}, c.err
	}
	m, ok := c.matches[matchID]
	if !ok {
		return usecase.ExternalMatch{}, usecase.ErrExternalService
	}
	return m, nil
}

func (c *fakeClient) GetUserByPlatformID(_ context.Context, platformUserID int64) (usecase.ExternalUser, bool, error) {
	if c.err != nil {
		return usecase.ExternalUser{}, false, c.err
	}
	u, ok := c.usersByPlatform[platformUserID]
	return u, ok, nil
}

// env bundles the repositories and fake workspace most service tests need.
type env struct {
	leagues   *memory.LeagueRepository
	divisions *memory.DivisionRepository
	teams     *memory.TeamRepository
	matches   *memory.MatchRepository
	synced    *memory.SyncedUserRepository
	logs      *memory.ChatLogRepository
	workspace *chatfake.Workspace
	client    *fakeClient
}

func newEnv() *env {
	return &env{
		leagues:   memory.NewLeagueRepository(),
		divisions: memory.NewDivisionRepository(),
		teams:     memory.NewTeamRepository(),
		matches:   memory.NewMatchRepository(),
		synced:    memory.NewSyncedUserRepository(),
		logs:      memory.NewChatLogRepository(),
		workspace: chatfake.NewWorkspace(),
		client:    newFakeClient(),
	}
}

// seedLeague stores a league row plus one division and one team, with live
// channel and group resources behind them, and returns both rows.
func (e *env) seedLeague(ctx context.Context, leagueID int64) (division.Division, team.Team) {
	_ = e.leagues.Insert(ctx, league.League{ID: leagueID, Name: "Season Thirty", ShortCode: "S30"})

	container, _ := e.workspace.CreateContainer(ctx, "S30 Open", nil)
	divGroup, _ := e.workspace.CreateGroup(ctx, "S30 Open", true)
	divID, _ := e.divisions.Insert(ctx, division.Division{
		LeagueID:    leagueID,
		Label:       "Open",
		GroupID:     divGroup.ID,
		ContainerID: container.ID,
	})
	div, _, _ := e.divisions.GetByID(ctx, divID)

	teamGroup, _ := e.workspace.CreateGroup(ctx, "S30 Alpha", true)
	channel, _ := e.workspace.CreateChannel(ctx, "alpha", container.ID, []chat.Overwrite{
		{Principal: chat.EveryonePrincipal},
		{Principal: teamGroup.ID, Read: true, Send: true},
	})
	row := team.Team{
		EnrollmentID: 501,
		TeamID:       61,
		LeagueID:     leagueID,
		GroupID:      teamGroup.ID,
		ChannelID:    channel.ID,
		DivisionID:   divID,
		Name:         "Alpha",
	}
	_ = e.teams.Insert(ctx, row)
	return div, row
}

// seedTeam adds one more enrollment with its own group and channel inside an
// already-seeded division.
func (e *env) seedTeam(ctx context.Context, div division.Division, enrollmentID, teamID int64, name string) team.Team {
	group, _ := e.workspace.CreateGroup(ctx, "S30 "+name, true)
	channel, _ := e.workspace.CreateChannel(ctx, name, div.ContainerID, []chat.Overwrite{
		{Principal: chat.EveryonePrincipal},
		{Principal: group.ID, Read: true, Send: true},
	})
	row := team.Team{
		EnrollmentID: enrollmentID,
		TeamID:       teamID,
		LeagueID:     div.LeagueID,
		GroupID:      group.ID,
		ChannelID:    channel.ID,
		DivisionID:   div.ID,
		Name:         name,
	}
	_ = e.teams.Insert(ctx, row)
	return row
}

func side(teamID int64, name string) *usecase.ExternalMatchSide {
	return &usecase.ExternalMatchSide{ID: teamID, Name: name}
}

func syncedRow(citadelID, platformID int64) synceduser.SyncedUser {
	return synceduser.SyncedUser{CitadelUserID: citadelID, PlatformUserID: platformID}
}
